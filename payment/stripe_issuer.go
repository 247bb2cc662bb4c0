package payment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentlink"
	"github.com/stripe/stripe-go/v82/price"
	"github.com/stripe/stripe-go/v82/product"

	"frontdesk/models"
)

// StripeIssuer implements Issuer and StatusChecker on top of Stripe payment
// links, for properties that take card payments instead of the hotel
// gateway's bank-transfer QR. The payment link ID doubles as the
// transaction reference.
type StripeIssuer struct {
	apiKey   string
	currency string

	mu         sync.Mutex
	cached     *models.PaymentRequest
	cachedFor  string
	cachedAmnt decimal.Decimal
}

// NewStripeIssuer creates a Stripe-backed issuer. Currency defaults to USD.
func NewStripeIssuer(apiKey, currency string) *StripeIssuer {
	if currency == "" {
		currency = "usd"
	}

	return &StripeIssuer{apiKey: apiKey, currency: currency}
}

// Issue creates a Stripe payment link for the invoice amount, reusing the
// cached link when the invoice and amount are unchanged.
func (s *StripeIssuer) Issue(ctx context.Context, invoiceID string, amount decimal.Decimal) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.cachedFor == invoiceID && s.cachedAmnt.Equal(amount) {
		log.Printf("[Stripe] Reusing payment link %s for invoice %s", s.cached.TransactionCode, invoiceID)
		return s.cached, nil
	}

	s.cached = nil

	stripe.Key = s.apiKey

	productParams := &stripe.ProductParams{
		Name:        stripe.String(fmt.Sprintf("Invoice %s", invoiceID)),
		Description: stripe.String("Hotel room charges"),
	}
	prod, err := product.New(productParams)
	if err != nil {
		log.Printf("[Stripe] Product error: %v", err)
		return nil, fmt.Errorf("failed to create Stripe product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(s.currency),
		UnitAmount: stripe.Int64(minorUnits(amount, s.currency)),
		Product:    stripe.String(prod.ID),
	}
	pr, err := price.New(priceParams)
	if err != nil {
		log.Printf("[Stripe] Price error: %v", err)
		return nil, fmt.Errorf("failed to create Stripe price: %w", err)
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(pr.ID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	link, err := paymentlink.New(linkParams)
	if err != nil {
		log.Printf("[Stripe] Payment link error: %v", err)
		return nil, fmt.Errorf("failed to create Stripe payment link: %w", err)
	}

	log.Printf("[Stripe] Created payment link %s for invoice %s", link.ID, invoiceID)

	req := &models.PaymentRequest{
		TransactionCode: link.ID,
		InvoiceID:       invoiceID,
		Amount:          amount,
		QRDataURL:       link.URL,
	}

	s.cached = req
	s.cachedFor = invoiceID
	s.cachedAmnt = amount

	return req, nil
}

// Invalidate discards the cached payment link.
func (s *StripeIssuer) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

// CheckPayment reports whether any checkout session of the payment link has
// settled.
func (s *StripeIssuer) CheckPayment(ctx context.Context, transactionCode string, amount decimal.Decimal, invoiceID string) (*models.PaymentCheck, error) {
	stripe.Key = s.apiKey

	params := &stripe.CheckoutSessionListParams{
		PaymentLink: stripe.String(transactionCode),
	}
	params.Context = ctx

	iter := session.List(params)
	for iter.Next() {
		cs := iter.CheckoutSession()
		if cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
			return &models.PaymentCheck{Success: true, Paid: true, Message: "payment received"}, nil
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list Stripe checkout sessions: %w", err)
	}

	return &models.PaymentCheck{Success: true, Paid: false, Message: "awaiting payment"}, nil
}

// minorUnits converts a decimal amount to Stripe's smallest currency unit.
func minorUnits(amount decimal.Decimal, currency string) int64 {
	switch strings.ToLower(currency) {
	case "vnd", "jpy", "krw":
		// zero-decimal currencies
		return amount.Round(0).IntPart()
	default:
		return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}
}
