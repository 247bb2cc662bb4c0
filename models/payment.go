package models

import "github.com/shopspring/decimal"

// PaymentMethod represents how the guest settles the invoice
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

// Valid reports whether the method is one the front desk accepts.
func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodTransfer
}

// PaymentRequest is a live QR payment session issued for an invoice.
// The transaction code is opaque and unique per issuance; a request is
// superseded when the invoice amount changes and a new QR is issued.
type PaymentRequest struct {
	TransactionCode string          `json:"transactionCode"`
	InvoiceID       string          `json:"invoiceId"`
	InvoiceCode     string          `json:"invoiceCode"`
	Amount          decimal.Decimal `json:"amount"`
	QRDataURL       string          `json:"qrDataURL"`
}

// PaymentState is the observed settlement state of a transaction reference
type PaymentState string

const (
	PaymentUnknown   PaymentState = "unknown"
	PaymentPending   PaymentState = "pending"
	PaymentConfirmed PaymentState = "confirmed"
)

// PaymentStatus is the latest settlement observation for a transaction
// reference. Mutated only by poll responses and manual checks.
type PaymentStatus struct {
	State     PaymentState `json:"state"`
	Reference string       `json:"reference"`
	Message   string       `json:"message"`
}

// PaymentCheck is the raw result of one check-payment call
type PaymentCheck struct {
	Success bool   `json:"success"`
	Paid    bool   `json:"paid"`
	Message string `json:"message"`
}

// CheckoutRequest finalizes a room checkout on the backend
type CheckoutRequest struct {
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	TransactionReference string        `json:"transactionReference,omitempty"`
	Note                 string        `json:"note,omitempty"`
}
