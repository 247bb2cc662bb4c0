package payment

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"frontdesk/models"
)

// HotelIssuer issues payment QR codes through the hotel backend's payment
// gateway. It keeps at most one live request: reissuing for the same invoice
// and amount returns the cached request, while a different invoice or a
// changed amount discards it and mints a fresh transaction reference.
type HotelIssuer struct {
	backend QRGenerator

	mu         sync.Mutex
	cached     *models.PaymentRequest
	cachedFor  string
	cachedAmnt decimal.Decimal
}

// NewHotelIssuer creates a QR issuer backed by the hotel API.
func NewHotelIssuer(backend QRGenerator) *HotelIssuer {
	return &HotelIssuer{backend: backend}
}

// Issue returns a payment request for the invoice, reusing the cached one
// when the invoice and amount are unchanged.
func (h *HotelIssuer) Issue(ctx context.Context, invoiceID string, amount decimal.Decimal) (*models.PaymentRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cached != nil && h.cachedFor == invoiceID && h.cachedAmnt.Equal(amount) {
		log.Printf("[HotelIssuer] Reusing payment request %s for invoice %s", h.cached.TransactionCode, invoiceID)
		return h.cached, nil
	}

	// A different invoice or amount supersedes the old reference.
	h.cached = nil

	req, err := h.backend.GenerateQR(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	log.Printf("[HotelIssuer] Issued payment request %s for invoice %s", req.TransactionCode, invoiceID)

	h.cached = req
	h.cachedFor = invoiceID
	h.cachedAmnt = amount

	return req, nil
}

// Invalidate discards the cached request so the next Issue call mints a new one.
func (h *HotelIssuer) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cached = nil
}
