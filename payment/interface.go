package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"frontdesk/models"
)

// Issuer creates a payment request (QR code or payment link) for an invoice.
// Implementations cache the live request per invoice so repeated dialog opens
// for the same invoice and amount never mint duplicate transaction references.
type Issuer interface {
	Issue(ctx context.Context, invoiceID string, amount decimal.Decimal) (*models.PaymentRequest, error)
	Invalidate()
}

// StatusChecker queries the settlement status of a transaction reference.
type StatusChecker interface {
	CheckPayment(ctx context.Context, transactionCode string, amount decimal.Decimal, invoiceID string) (*models.PaymentCheck, error)
}

// QRGenerator is the slice of the hotel API the hotel issuer depends on.
type QRGenerator interface {
	GenerateQR(ctx context.Context, invoiceID string) (*models.PaymentRequest, error)
}
