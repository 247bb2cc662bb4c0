package hotelapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "test-key", 2*time.Second)
}

func TestClient_GenerateQR(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/generate-qr", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "inv-1", body["invoiceId"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"qrDataURL":       "data:image/png;base64,qr",
			"transactionCode": "TXN1",
			"amount":          130000,
			"invoiceCode":     "INV-2026-001",
		})
	})

	req, err := client.GenerateQR(context.Background(), "inv-1")
	require.NoError(t, err)

	assert.Equal(t, "TXN1", req.TransactionCode)
	assert.Equal(t, "inv-1", req.InvoiceID)
	assert.Equal(t, "INV-2026-001", req.InvoiceCode)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(130000)))
	assert.Equal(t, "data:image/png;base64,qr", req.QRDataURL)
}

func TestClient_GenerateQRMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	_, err := client.GenerateQR(context.Background(), "inv-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestClient_GenerateQRServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"gateway is down"}`))
	})

	_, err := client.GenerateQR(context.Background(), "inv-1")
	require.Error(t, err)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Equal(t, "gateway is down", svcErr.Message)
	assert.True(t, IsRemoteError(err))
}

func TestClient_CheckPayment(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPaid bool
	}{
		{
			name:     "paid",
			body:     `{"success":true,"paid":true,"message":"payment received"}`,
			wantPaid: true,
		},
		{
			name:     "pending",
			body:     `{"success":true,"paid":false,"message":"awaiting payment"}`,
			wantPaid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/payments/check-payment", r.URL.Path)

				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "TXN1", body["transactionCode"])

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			check, err := client.CheckPayment(context.Background(), "TXN1", decimal.NewFromInt(130000), "inv-1")
			require.NoError(t, err)
			assert.True(t, check.Success)
			assert.Equal(t, tt.wantPaid, check.Paid)
		})
	}
}

func TestClient_CheckPaymentMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := client.CheckPayment(context.Background(), "TXN1", decimal.NewFromInt(130000), "inv-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestClient_NetworkErrorWrapsCause(t *testing.T) {
	// Point at a server that is no longer listening.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", time.Second)

	_, err := client.CheckPayment(context.Background(), "TXN1", decimal.NewFromInt(130000), "inv-1")
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "check-payment", netErr.Op)
	assert.True(t, IsRemoteError(err))
}

func TestClient_SaveInvoice(t *testing.T) {
	inv := &models.Invoice{
		ID:       "inv-1",
		Discount: decimal.NewFromInt(20000),
		Items: []models.LineItem{
			{ItemID: "room-night", Name: "Room night", UnitPrice: decimal.NewFromInt(50000), Quantity: 2, Amount: decimal.NewFromInt(100000)},
		},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/invoices/inv-1", r.URL.Path)

		var body struct {
			Discount decimal.Decimal   `json:"discount"`
			Items    []models.LineItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Discount.Equal(decimal.NewFromInt(20000)))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "room-night", body.Items[0].ItemID)

		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.SaveInvoice(context.Background(), inv))
}

func TestClient_CheckoutRoomSendsReference(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/room-101/checkout", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "transfer", body["paymentMethod"])
		assert.Equal(t, "TXN1", body["transactionReference"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})

	err := client.CheckoutRoom(context.Background(), "room-101", &models.CheckoutRequest{
		PaymentMethod:        models.MethodTransfer,
		TransactionReference: "TXN1",
	})
	require.NoError(t, err)
}

func TestClient_OpenInvoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/room-101/invoice", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "inv-1",
			"code": "INV-2026-001",
			"roomId": "room-101",
			"discount": 0,
			"status": "open",
			"items": [
				{"itemId": "room-night", "name": "Room night", "unitPrice": 50000, "quantity": 2, "amount": 100000}
			]
		}`))
	})

	inv, err := client.OpenInvoice(context.Background(), "room-101")
	require.NoError(t, err)

	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, "room-101", inv.RoomID)
	assert.Equal(t, models.InvoiceOpen, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Total().Equal(decimal.NewFromInt(100000)))
}

func TestClient_OpenInvoiceMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	})

	_, err := client.OpenInvoice(context.Background(), "room-101")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}
