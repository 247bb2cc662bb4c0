package models

import "github.com/shopspring/decimal"

func init() {
	// The hotel API serializes monetary amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// InvoiceStatus represents the backend-owned lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceOpen      InvoiceStatus = "open"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// LineItem represents a single billable line on an invoice
type LineItem struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// Recompute updates the line amount after a quantity or price change.
func (li *LineItem) Recompute() {
	li.Amount = li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Invoice is the working copy of a backend invoice held during a checkout session
type Invoice struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	RoomID   string          `json:"roomId"`
	Items    []LineItem      `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	Status   InvoiceStatus   `json:"status"`
}

// Total returns the sum of all line amounts.
func (inv *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// FinalAmount returns total minus discount. It is a pure computation;
// clamping to zero happens at submission validation, not here.
func (inv *Invoice) FinalAmount() decimal.Decimal {
	return inv.Total().Sub(inv.Discount)
}

// Clone returns a deep copy so edits never leak into the saved server copy.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	out.Items = make([]LineItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return &out
}
