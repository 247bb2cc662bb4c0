package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/models"
)

type stubQRGenerator struct {
	calls int
	err   error
}

func (s *stubQRGenerator) GenerateQR(_ context.Context, invoiceID string) (*models.PaymentRequest, error) {
	if s.err != nil {
		return nil, s.err
	}

	s.calls++

	return &models.PaymentRequest{
		TransactionCode: fmt.Sprintf("TXN%d", s.calls),
		InvoiceID:       invoiceID,
		QRDataURL:       "data:image/png;base64,qr",
	}, nil
}

func TestHotelIssuer_ReusesRequestForSameInvoiceAndAmount(t *testing.T) {
	gen := &stubQRGenerator{}
	issuer := NewHotelIssuer(gen)
	amount := decimal.NewFromInt(130000)

	first, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)

	second, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)

	assert.Equal(t, first.TransactionCode, second.TransactionCode)
	assert.Equal(t, 1, gen.calls)
}

func TestHotelIssuer_AmountChangeMintsNewReference(t *testing.T) {
	gen := &stubQRGenerator{}
	issuer := NewHotelIssuer(gen)

	first, err := issuer.Issue(context.Background(), "inv-1", decimal.NewFromInt(130000))
	require.NoError(t, err)

	second, err := issuer.Issue(context.Background(), "inv-1", decimal.NewFromInt(110000))
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionCode, second.TransactionCode)
	assert.Equal(t, 2, gen.calls)

	// Going back to the original amount does not resurrect the old
	// reference; the cache holds one live request only.
	third, err := issuer.Issue(context.Background(), "inv-1", decimal.NewFromInt(130000))
	require.NoError(t, err)
	assert.NotEqual(t, first.TransactionCode, third.TransactionCode)
	assert.Equal(t, 3, gen.calls)
}

func TestHotelIssuer_InvoiceChangeDiscardsCache(t *testing.T) {
	gen := &stubQRGenerator{}
	issuer := NewHotelIssuer(gen)
	amount := decimal.NewFromInt(130000)

	first, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)

	second, err := issuer.Issue(context.Background(), "inv-2", amount)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionCode, second.TransactionCode)
	assert.Equal(t, 2, gen.calls)
}

func TestHotelIssuer_EquivalentDecimalsHitTheCache(t *testing.T) {
	gen := &stubQRGenerator{}
	issuer := NewHotelIssuer(gen)

	_, err := issuer.Issue(context.Background(), "inv-1", decimal.RequireFromString("130000"))
	require.NoError(t, err)

	// 130000 and 130000.00 are the same amount.
	_, err = issuer.Issue(context.Background(), "inv-1", decimal.RequireFromString("130000.00"))
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
}

func TestHotelIssuer_InvalidateForcesReissue(t *testing.T) {
	gen := &stubQRGenerator{}
	issuer := NewHotelIssuer(gen)
	amount := decimal.NewFromInt(130000)

	first, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)

	issuer.Invalidate()

	second, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionCode, second.TransactionCode)
	assert.Equal(t, 2, gen.calls)
}

func TestHotelIssuer_FailedIssueLeavesNothingCached(t *testing.T) {
	gen := &stubQRGenerator{err: errors.New("gateway unavailable")}
	issuer := NewHotelIssuer(gen)
	amount := decimal.NewFromInt(130000)

	_, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.Error(t, err)

	gen.err = nil

	req, err := issuer.Issue(context.Background(), "inv-1", amount)
	require.NoError(t, err)
	assert.NotEmpty(t, req.TransactionCode)
}
