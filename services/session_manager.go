package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"frontdesk/checkout"
	"frontdesk/hotelapi"
	"frontdesk/models"
	"frontdesk/payment"
)

// SessionManager owns the live checkout sessions, one per open checkout
// dialog. The issuer is shared across sessions so repeated dialog opens for
// the same invoice reuse the live payment request.
type SessionManager struct {
	api          *hotelapi.Client
	issuer       payment.Issuer
	checker      payment.StatusChecker
	notifier     checkout.Notifier
	pollInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*checkout.Session
}

// NewSessionManager creates a session registry.
func NewSessionManager(api *hotelapi.Client, issuer payment.Issuer, checker payment.StatusChecker, notifier checkout.Notifier, pollInterval time.Duration) *SessionManager {
	return &SessionManager{
		api:          api,
		issuer:       issuer,
		checker:      checker,
		notifier:     notifier,
		pollInterval: pollInterval,
		sessions:     make(map[string]*checkout.Session),
	}
}

// Open fetches the room's open invoice and starts a checkout session for it.
func (m *SessionManager) Open(ctx context.Context, roomID string) (string, *checkout.Session, error) {
	inv, err := m.api.OpenInvoice(ctx, roomID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open invoice for room %s: %w", roomID, err)
	}

	if inv.Status != models.InvoiceOpen {
		return "", nil, &checkout.ValidationError{
			Reason: fmt.Sprintf("invoice %s is %s, not open", inv.Code, inv.Status),
		}
	}

	session := checkout.NewSession(roomID, inv, m.issuer, m.checker, m.api, m.notifier, checkout.Options{
		PollInterval: m.pollInterval,
	})

	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	log.Printf("[Sessions] Opened checkout session %s for room %s (invoice %s)", id, roomID, inv.Code)

	return id, session, nil
}

// Get looks up a live session.
func (m *SessionManager) Get(id string) (*checkout.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

// FindByReference returns the session currently displaying a transaction
// reference, if any. Used by provider webhooks.
func (m *SessionManager) FindByReference(transactionCode string) (*checkout.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if req := s.DisplayedRequest(); req != nil && req.TransactionCode == transactionCode {
			return s, true
		}
	}

	return nil, false
}

// Close tears a session down and removes it from the registry.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		log.Printf("[Sessions] Closed checkout session %s", id)
	}
}
