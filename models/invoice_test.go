package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() *Invoice {
	return &Invoice{
		ID:     "inv-1",
		Code:   "INV-2026-001",
		RoomID: "room-101",
		Items: []LineItem{
			{ItemID: "room-night", Name: "Room night", UnitPrice: decimal.NewFromInt(50000), Quantity: 2, Amount: decimal.NewFromInt(100000)},
			{ItemID: "laundry", Name: "Laundry", UnitPrice: decimal.NewFromInt(25000), Quantity: 2, Amount: decimal.NewFromInt(50000)},
		},
		Discount: decimal.NewFromInt(20000),
		Status:   InvoiceOpen,
	}
}

func TestInvoice_TotalAndFinalAmount(t *testing.T) {
	inv := sampleInvoice()

	assert.True(t, inv.Total().Equal(decimal.NewFromInt(150000)))
	assert.True(t, inv.FinalAmount().Equal(decimal.NewFromInt(130000)))

	// FinalAmount is pure arithmetic; an oversized discount goes negative
	// here and is rejected at validation, not clamped.
	inv.Discount = decimal.NewFromInt(200000)
	assert.True(t, inv.FinalAmount().Equal(decimal.NewFromInt(-50000)))
}

func TestInvoice_TotalEmptyItems(t *testing.T) {
	inv := &Invoice{ID: "inv-1"}

	assert.True(t, inv.Total().IsZero())
	assert.True(t, inv.FinalAmount().IsZero())
}

func TestLineItem_Recompute(t *testing.T) {
	item := LineItem{UnitPrice: decimal.NewFromInt(50000), Quantity: 2, Amount: decimal.NewFromInt(100000)}

	item.Quantity = 3
	item.Recompute()

	assert.True(t, item.Amount.Equal(decimal.NewFromInt(150000)))
}

func TestInvoice_CloneIsIndependent(t *testing.T) {
	inv := sampleInvoice()
	clone := inv.Clone()

	clone.Discount = decimal.NewFromInt(99999)
	clone.Items[0].Quantity = 9
	clone.Items[0].Recompute()
	clone.Items = clone.Items[:1]

	assert.True(t, inv.Discount.Equal(decimal.NewFromInt(20000)))
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 2, inv.Items[0].Quantity)
	assert.True(t, inv.Items[0].Amount.Equal(decimal.NewFromInt(100000)))
}

func TestInvoice_AmountsMarshalAsNumbers(t *testing.T) {
	inv := sampleInvoice()

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"discount":20000`)
	assert.Contains(t, string(data), `"unitPrice":50000`)
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, MethodCash.Valid())
	assert.True(t, MethodTransfer.Valid())
	assert.False(t, PaymentMethod("card").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
