package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/models"
)

// AirwallexIssuer implements Issuer and StatusChecker on top of Airwallex
// payment links. The link ID doubles as the transaction reference.
type AirwallexIssuer struct {
	clientID string
	apiKey   string
	baseURL  string
	currency string
	client   *http.Client

	mu         sync.Mutex
	cached     *models.PaymentRequest
	cachedFor  string
	cachedAmnt decimal.Decimal
}

// NewAirwallexIssuer creates an Airwallex-backed issuer.
func NewAirwallexIssuer(clientID, apiKey, baseURL, currency string) *AirwallexIssuer {
	if currency == "" {
		currency = "USD"
	}

	return &AirwallexIssuer{
		clientID: clientID,
		apiKey:   apiKey,
		baseURL:  baseURL,
		currency: currency,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Issue creates an Airwallex payment link for the invoice amount, reusing
// the cached link when the invoice and amount are unchanged.
func (a *AirwallexIssuer) Issue(ctx context.Context, invoiceID string, amount decimal.Decimal) (*models.PaymentRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.cachedFor == invoiceID && a.cachedAmnt.Equal(amount) {
		log.Printf("[Airwallex] Reusing payment link %s for invoice %s", a.cached.TransactionCode, invoiceID)
		return a.cached, nil
	}

	a.cached = nil

	token, err := a.authenticate(ctx)
	if err != nil {
		log.Printf("[Airwallex] Auth error: %v", err)
		return nil, fmt.Errorf("failed to authenticate with Airwallex: %w", err)
	}

	req, err := a.createPaymentLink(ctx, token, invoiceID, amount)
	if err != nil {
		log.Printf("[Airwallex] Link creation error: %v", err)
		return nil, fmt.Errorf("failed to create Airwallex payment link: %w", err)
	}

	log.Printf("[Airwallex] Created payment link %s for invoice %s", req.TransactionCode, invoiceID)

	a.cached = req
	a.cachedFor = invoiceID
	a.cachedAmnt = amount

	return req, nil
}

// Invalidate discards the cached payment link.
func (a *AirwallexIssuer) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cached = nil
}

// CheckPayment reports whether the payment link has been paid.
func (a *AirwallexIssuer) CheckPayment(ctx context.Context, transactionCode string, amount decimal.Decimal, invoiceID string) (*models.PaymentCheck, error) {
	token, err := a.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Airwallex: %w", err)
	}

	url := a.baseURL + "/api/v1/pa/payment_links/" + transactionCode
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send status request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status check failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}

	paid := strings.EqualFold(result.Status, "PAID")

	msg := "awaiting payment"
	if paid {
		msg = "payment received"
	}

	return &models.PaymentCheck{Success: true, Paid: paid, Message: msg}, nil
}

// authenticate authenticates with Airwallex and returns a bearer token.
func (a *AirwallexIssuer) authenticate(ctx context.Context) (string, error) {
	url := a.baseURL + "/api/v1/authentication/login"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", a.clientID)
	req.Header.Set("x-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send auth request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}

	return result.Token, nil
}

// createPaymentLink creates a payment link via the Airwallex API.
func (a *AirwallexIssuer) createPaymentLink(ctx context.Context, token, invoiceID string, amount decimal.Decimal) (*models.PaymentRequest, error) {
	requestBody := map[string]interface{}{
		"amount":      amount,
		"currency":    a.currency,
		"title":       fmt.Sprintf("Invoice %s", invoiceID),
		"description": "Hotel room charges",
		"reference":   fmt.Sprintf("frontdesk-%s-%d", invoiceID, time.Now().UnixNano()),
		"reusable":    false,
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := a.baseURL + "/api/v1/pa/payment_links/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment link request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send payment link request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment link response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment link creation failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse payment link response: %w", err)
	}

	if result.ID == "" || result.URL == "" {
		return nil, fmt.Errorf("payment link ID or URL not found in response")
	}

	return &models.PaymentRequest{
		TransactionCode: result.ID,
		InvoiceID:       invoiceID,
		Amount:          amount,
		QRDataURL:       result.URL,
	}, nil
}
