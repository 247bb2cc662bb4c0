package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/models"
)

func testInvoice() *models.Invoice {
	inv := &models.Invoice{
		ID:     "inv-1",
		Code:   "INV-2026-001",
		RoomID: "room-101",
		Status: models.InvoiceOpen,
		Items: []models.LineItem{
			{ItemID: "room-night", Name: "Room night", UnitPrice: decimal.NewFromInt(50000), Quantity: 2},
			{ItemID: "minibar", Name: "Minibar", UnitPrice: decimal.NewFromInt(25000), Quantity: 2},
		},
		Discount: decimal.NewFromInt(20000),
	}
	for i := range inv.Items {
		inv.Items[i].Recompute()
	}

	return inv
}

func TestInvoiceEditor_SetItemQuantity(t *testing.T) {
	tests := []struct {
		name        string
		index       int
		quantity    int
		wantAmounts []int64
		wantFinal   int64
	}{
		{
			name:        "raise quantity recomputes only that line",
			index:       0,
			quantity:    3,
			wantAmounts: []int64{150000, 50000},
			wantFinal:   180000,
		},
		{
			name:        "zero quantity is a no-op",
			index:       0,
			quantity:    0,
			wantAmounts: []int64{100000, 50000},
			wantFinal:   130000,
		},
		{
			name:        "negative quantity is a no-op",
			index:       1,
			quantity:    -3,
			wantAmounts: []int64{100000, 50000},
			wantFinal:   130000,
		},
		{
			name:        "out of range index is a no-op",
			index:       5,
			quantity:    2,
			wantAmounts: []int64{100000, 50000},
			wantFinal:   130000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewInvoiceEditor(testInvoice())
			e.SetItemQuantity(tt.index, tt.quantity)

			inv := e.Invoice()
			require.Len(t, inv.Items, len(tt.wantAmounts))

			for i, want := range tt.wantAmounts {
				assert.True(t, inv.Items[i].Amount.Equal(decimal.NewFromInt(want)),
					"item %d amount = %s, want %d", i, inv.Items[i].Amount, want)
			}

			assert.True(t, e.FinalAmount().Equal(decimal.NewFromInt(tt.wantFinal)),
				"final amount = %s, want %d", e.FinalAmount(), tt.wantFinal)
		})
	}
}

func TestInvoiceEditor_FinalAmountAlwaysTotalMinusDiscount(t *testing.T) {
	e := NewInvoiceEditor(testInvoice())

	quantities := []struct{ index, qty int }{
		{0, 5}, {1, 1}, {0, 2}, {1, 7}, {0, 1},
	}

	for _, q := range quantities {
		e.SetItemQuantity(q.index, q.qty)

		inv := e.Invoice()
		sum := decimal.Zero
		for _, item := range inv.Items {
			sum = sum.Add(item.Amount)
		}

		assert.True(t, e.FinalAmount().Equal(sum.Sub(inv.Discount)),
			"final amount %s != sum(items) - discount %s", e.FinalAmount(), sum.Sub(inv.Discount))
	}
}

func TestInvoiceEditor_RemoveItem(t *testing.T) {
	e := NewInvoiceEditor(testInvoice())

	e.RemoveItem(0)
	require.Len(t, e.Invoice().Items, 1)
	assert.Equal(t, "minibar", e.Invoice().Items[0].ItemID)

	// Removing the last line leaves an empty invoice; final amount goes to
	// 0 - discount and Validate rejects the submission.
	e.RemoveItem(0)
	require.Empty(t, e.Invoice().Items)
	assert.True(t, e.FinalAmount().Equal(decimal.NewFromInt(-20000)))

	err := e.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestInvoiceEditor_CancelRestoresSavedCopy(t *testing.T) {
	e := NewInvoiceEditor(testInvoice())

	e.BeginEdit()
	e.SetItemQuantity(0, 9)
	e.RemoveItem(1)
	e.SetDiscount(decimal.NewFromInt(99999))
	require.True(t, e.Editing())

	e.Cancel()

	assert.False(t, e.Editing())
	inv := e.Invoice()
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 2, inv.Items[0].Quantity)
	assert.True(t, inv.Discount.Equal(decimal.NewFromInt(20000)))
}

func TestInvoiceEditor_Validate(t *testing.T) {
	tests := []struct {
		name     string
		discount int64
		wantErr  bool
	}{
		{name: "discount below total", discount: 20000, wantErr: false},
		{name: "discount equal to total", discount: 150000, wantErr: false},
		{name: "discount above total", discount: 150001, wantErr: true},
		{name: "negative discount", discount: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewInvoiceEditor(testInvoice())
			e.SetDiscount(decimal.NewFromInt(tt.discount))

			err := e.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
