package hotelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"frontdesk/models"
)

// Client wraps the hotel management REST API. All business logic (pricing,
// persistence, payment verification) lives behind these endpoints; the
// client only validates response schemas at the boundary.
type Client struct {
	http *resty.Client
}

// NewClient creates a hotel API client for the given base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}

	return &Client{http: c}
}

type generateQRRequest struct {
	InvoiceID string `json:"invoiceId"`
}

type generateQRResponse struct {
	QRDataURL       string          `json:"qrDataURL"`
	TransactionCode string          `json:"transactionCode"`
	Amount          decimal.Decimal `json:"amount"`
	InvoiceCode     string          `json:"invoiceCode"`
}

// GenerateQR requests a payment QR code and transaction reference for an invoice.
func (c *Client) GenerateQR(ctx context.Context, invoiceID string) (*models.PaymentRequest, error) {
	var out generateQRResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateQRRequest{InvoiceID: invoiceID}).
		SetResult(&out).
		Post("/payments/generate-qr")
	if err != nil {
		return nil, &NetworkError{Op: "generate-qr", Err: err}
	}

	if resp.IsError() {
		return nil, serviceError("generate-qr", resp)
	}

	if out.TransactionCode == "" || out.QRDataURL == "" {
		log.Printf("[HotelAPI] generate-qr returned unexpected body: %s", resp.String())
		return nil, fmt.Errorf("generate-qr: %w", ErrMalformedResponse)
	}

	return &models.PaymentRequest{
		TransactionCode: out.TransactionCode,
		InvoiceID:       invoiceID,
		InvoiceCode:     out.InvoiceCode,
		Amount:          out.Amount,
		QRDataURL:       out.QRDataURL,
	}, nil
}

type checkPaymentRequest struct {
	TransactionCode string          `json:"transactionCode"`
	Amount          decimal.Decimal `json:"amount"`
	InvoiceID       string          `json:"invoiceId"`
}

type checkPaymentResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Paid    *bool  `json:"paid"`
}

// CheckPayment queries the settlement status of a transaction reference.
func (c *Client) CheckPayment(ctx context.Context, transactionCode string, amount decimal.Decimal, invoiceID string) (*models.PaymentCheck, error) {
	var out checkPaymentResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(checkPaymentRequest{TransactionCode: transactionCode, Amount: amount, InvoiceID: invoiceID}).
		SetResult(&out).
		Post("/payments/check-payment")
	if err != nil {
		return nil, &NetworkError{Op: "check-payment", Err: err}
	}

	if resp.IsError() {
		return nil, serviceError("check-payment", resp)
	}

	if out.Success == nil || out.Paid == nil {
		log.Printf("[HotelAPI] check-payment returned unexpected body: %s", resp.String())
		return nil, fmt.Errorf("check-payment: %w", ErrMalformedResponse)
	}

	return &models.PaymentCheck{
		Success: *out.Success,
		Paid:    *out.Paid,
		Message: out.Message,
	}, nil
}

type saveInvoiceRequest struct {
	Discount decimal.Decimal   `json:"discount"`
	Items    []models.LineItem `json:"items"`
}

// SaveInvoice persists the edited line items and discount of an invoice.
func (c *Client) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(saveInvoiceRequest{Discount: inv.Discount, Items: inv.Items}).
		Patch("/invoices/" + inv.ID)
	if err != nil {
		return &NetworkError{Op: "save-invoice", Err: err}
	}

	if resp.IsError() {
		return serviceError("save-invoice", resp)
	}

	return nil
}

// CheckoutRoom finalizes a room checkout on the backend.
func (c *Client) CheckoutRoom(ctx context.Context, roomID string, req *models.CheckoutRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/rooms/%s/checkout", roomID))
	if err != nil {
		return &NetworkError{Op: "checkout", Err: err}
	}

	if resp.IsError() {
		return serviceError("checkout", resp)
	}

	return nil
}

// OpenInvoice fetches the open invoice for a room so a checkout session
// can hold a working copy of it.
func (c *Client) OpenInvoice(ctx context.Context, roomID string) (*models.Invoice, error) {
	var out models.Invoice

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/rooms/%s/invoice", roomID))
	if err != nil {
		return nil, &NetworkError{Op: "open-invoice", Err: err}
	}

	if resp.IsError() {
		return nil, serviceError("open-invoice", resp)
	}

	if out.ID == "" {
		log.Printf("[HotelAPI] open-invoice returned unexpected body: %s", resp.String())
		return nil, fmt.Errorf("open-invoice: %w", ErrMalformedResponse)
	}

	return &out, nil
}

// serviceError builds a ServiceError from an error response, preferring the
// backend's message field over the raw body.
func serviceError(op string, resp *resty.Response) *ServiceError {
	msg := resp.String()

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		msg = body.Message
	}

	return &ServiceError{Op: op, StatusCode: resp.StatusCode(), Message: msg}
}
