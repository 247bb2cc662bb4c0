package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"frontdesk/models"
)

// InvoiceEditor holds the working copy of an invoice during a checkout
// session. Edits apply to the working copy only; Cancel restores the
// last-saved server copy and Commit replaces it after a successful save.
type InvoiceEditor struct {
	saved   *models.Invoice
	working *models.Invoice
	editing bool
}

// NewInvoiceEditor creates an editor around a server copy of the invoice.
func NewInvoiceEditor(inv *models.Invoice) *InvoiceEditor {
	return &InvoiceEditor{
		saved:   inv.Clone(),
		working: inv.Clone(),
	}
}

// Invoice returns the working copy.
func (e *InvoiceEditor) Invoice() *models.Invoice { return e.working }

// Editing reports whether edit mode is active.
func (e *InvoiceEditor) Editing() bool { return e.editing }

// BeginEdit enters edit mode.
func (e *InvoiceEditor) BeginEdit() { e.editing = true }

// Cancel discards in-progress edits and restores the last-saved copy.
func (e *InvoiceEditor) Cancel() {
	e.working = e.saved.Clone()
	e.editing = false
}

// Commit records the working copy as the saved server copy. Called after
// the backend accepted the edited invoice.
func (e *InvoiceEditor) Commit() {
	e.saved = e.working.Clone()
	e.editing = false
}

// SetItemQuantity updates one line's quantity and recomputes its amount.
// Quantities below 1 and out-of-range indexes are no-ops.
func (e *InvoiceEditor) SetItemQuantity(index, quantity int) {
	if quantity < 1 || index < 0 || index >= len(e.working.Items) {
		return
	}

	item := &e.working.Items[index]
	item.Quantity = quantity
	item.Recompute()
}

// RemoveItem deletes one line from the invoice.
func (e *InvoiceEditor) RemoveItem(index int) {
	if index < 0 || index >= len(e.working.Items) {
		return
	}

	e.working.Items = append(e.working.Items[:index], e.working.Items[index+1:]...)
}

// SetDiscount stores the raw discount value. It is not clamped while
// typing; Validate rejects it at submit time.
func (e *InvoiceEditor) SetDiscount(discount decimal.Decimal) {
	e.working.Discount = discount
}

// FinalAmount returns total minus discount for the working copy.
func (e *InvoiceEditor) FinalAmount() decimal.Decimal {
	return e.working.FinalAmount()
}

// Validate checks the working copy before it is submitted.
func (e *InvoiceEditor) Validate() error {
	if e.working.Discount.IsNegative() {
		return &ValidationError{Reason: "discount cannot be negative"}
	}

	if total := e.working.Total(); e.working.Discount.GreaterThan(total) {
		return &ValidationError{
			Reason: fmt.Sprintf("discount %s exceeds invoice total %s", e.working.Discount, total),
		}
	}

	return nil
}
