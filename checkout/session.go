package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"frontdesk/models"
	"frontdesk/payment"
)

// DefaultPollInterval matches the interval the front desk UI polls the
// payment gateway at.
const DefaultPollInterval = 10 * time.Second

// Backend is the slice of the hotel API a session needs to persist edits
// and finalize checkout.
type Backend interface {
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
	CheckoutRoom(ctx context.Context, roomID string, req *models.CheckoutRequest) error
}

// Notifier receives the one-time payment confirmation and the checkout
// completion events.
type Notifier interface {
	PaymentConfirmed(req *models.PaymentRequest)
	CheckedOut(roomID string, inv *models.Invoice, method models.PaymentMethod)
}

// Options tune a session's polling behavior. Zero values take defaults.
type Options struct {
	PollInterval time.Duration
	NewTicker    payment.TickerFactory
}

// Session is the payment confirmation controller for one checkout dialog.
// It owns the invoice working copy, the displayed payment request, the
// poller lifecycle and the sticky confirmed reference. All state is scoped
// to the session and discarded on Close, whether or not checkout succeeded.
type Session struct {
	roomID   string
	issuer   payment.Issuer
	checker  payment.StatusChecker
	backend  Backend
	notifier Notifier
	opts     Options

	mu           sync.Mutex
	editor       *InvoiceEditor
	method       models.PaymentMethod
	displayed    *models.PaymentRequest
	status       models.PaymentStatus
	confirmedRef string
	poller       *payment.Poller
	closed       bool
}

// NewSession opens a checkout session for a room's invoice. The default
// payment method is cash.
func NewSession(roomID string, inv *models.Invoice, issuer payment.Issuer, checker payment.StatusChecker, backend Backend, notifier Notifier, opts Options) *Session {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Session{
		roomID:   roomID,
		issuer:   issuer,
		checker:  checker,
		backend:  backend,
		notifier: notifier,
		opts:     opts,
		editor:   NewInvoiceEditor(inv),
		method:   models.MethodCash,
		status:   models.PaymentStatus{State: models.PaymentUnknown},
	}
}

// RoomID returns the room this session checks out.
func (s *Session) RoomID() string { return s.roomID }

// Invoice returns a snapshot of the working invoice copy.
func (s *Session) Invoice() *models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Invoice().Clone()
}

// Method returns the selected payment method.
func (s *Session) Method() models.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// Status returns the latest settlement observation.
func (s *Session) Status() models.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// DisplayedRequest returns the currently displayed payment request, if any.
func (s *Session) DisplayedRequest() *models.PaymentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// GateState evaluates the confirmation gate against current session state.
func (s *Session) GateState() GateDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked()
}

func (s *Session) gateLocked() GateDecision {
	return EvaluateGate(GateInput{
		Method:             s.method,
		Editing:            s.editor.Editing(),
		Displayed:          s.displayed,
		ConfirmedReference: s.confirmedRef,
	})
}

// BeginEdit enters invoice edit mode. Editing and checkout are mutually
// exclusive under transfer.
func (s *Session) BeginEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.BeginEdit()
}

// CancelEdit discards in-progress edits and restores the saved copy.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Cancel()
}

// SetItemQuantity updates a line quantity on the working copy.
func (s *Session) SetItemQuantity(index, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.SetItemQuantity(index, quantity)
}

// RemoveItem deletes a line from the working copy.
func (s *Session) RemoveItem(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.RemoveItem(index)
}

// SetDiscount stores the raw discount on the working copy.
func (s *Session) SetDiscount(discount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.SetDiscount(discount)
}

// FinalAmount returns the working copy's amount due.
func (s *Session) FinalAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.FinalAmount()
}

// SaveInvoice validates the working copy and persists it to the backend.
func (s *Session) SaveInvoice(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &ValidationError{Reason: "session is closed"}
	}
	if err := s.editor.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	inv := s.editor.Invoice().Clone()
	s.mu.Unlock()

	if err := s.backend.SaveInvoice(ctx, inv); err != nil {
		return err
	}

	s.mu.Lock()
	s.editor.Commit()
	s.mu.Unlock()

	return nil
}

// SetPaymentMethod selects how the guest pays. Switching methods clears any
// previously confirmed reference: a confirmation for an old QR must never
// satisfy the gate for a freshly issued one.
func (s *Session) SetPaymentMethod(method models.PaymentMethod) error {
	if !method.Valid() {
		return &ValidationError{Reason: "unsupported payment method: " + string(method)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if method == s.method {
		return nil
	}

	s.method = method
	s.confirmedRef = ""
	s.status = models.PaymentStatus{State: models.PaymentUnknown}

	if method != models.MethodTransfer {
		s.stopPollerLocked()
		s.displayed = nil
	}

	return nil
}

// ShowQR issues (or reuses) the payment request for the current amount due
// and starts polling for its settlement. Called when the QR dialog becomes
// visible.
func (s *Session) ShowQR(ctx context.Context) (*models.PaymentRequest, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, &ValidationError{Reason: "session is closed"}
	}
	if s.method != models.MethodTransfer {
		s.mu.Unlock()
		return nil, &ValidationError{Reason: "payment QR is only available for transfer payments"}
	}
	invoiceID := s.editor.Invoice().ID
	amount := s.editor.FinalAmount()
	s.mu.Unlock()

	req, err := s.issuer.Issue(ctx, invoiceID, amount)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &ValidationError{Reason: "session is closed"}
	}

	s.displayed = req

	// Stopped pollers are terminal; each QR display gets a fresh one.
	s.stopPollerLocked()
	s.poller = payment.NewPoller(s.opts.PollInterval, s.opts.NewTicker, s.autoCheck)

	// Polling outlives the HTTP request that triggered it.
	if err := s.poller.Start(context.Background()); err != nil {
		log.Printf("[Session] Failed to start poller for room %s: %v", s.roomID, err)
	}

	return req, nil
}

// HideQR stops polling. The displayed request stays associated with the
// session so re-showing the dialog reuses it.
func (s *Session) HideQR() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollerLocked()
}

// CheckNow performs a manual, user-triggered payment check. Unlike
// automatic polls, its failure is returned for surfacing.
func (s *Session) CheckNow(ctx context.Context) (models.PaymentStatus, error) {
	s.mu.Lock()
	req := s.displayed
	s.mu.Unlock()

	if req == nil {
		return models.PaymentStatus{State: models.PaymentUnknown}, &ValidationError{Reason: "no payment request to check"}
	}

	res, err := s.checker.CheckPayment(ctx, req.TransactionCode, req.Amount, req.InvoiceID)

	s.mu.Lock()
	s.applyCheckLocked(req, res, err)
	st := s.status
	s.mu.Unlock()

	return st, err
}

// ConfirmReference applies an out-of-band settlement notification (e.g. a
// provider webhook) for a transaction reference. It follows the same sticky
// semantics as a poll observation.
func (s *Session) ConfirmReference(transactionCode, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.displayed == nil || s.displayed.TransactionCode != transactionCode {
		log.Printf("[Session] Ignoring confirmation for unknown reference %s", transactionCode)
		return
	}

	if message == "" {
		message = "payment received"
	}

	s.applyCheckLocked(s.displayed, &models.PaymentCheck{Success: true, Paid: true, Message: message}, nil)
}

// autoCheck is the poller's CheckFunc. Errors are logged, never surfaced;
// transient network blips must not spam the user.
func (s *Session) autoCheck(ctx context.Context) {
	s.mu.Lock()
	req := s.displayed
	s.mu.Unlock()

	if req == nil {
		return
	}

	res, err := s.checker.CheckPayment(ctx, req.TransactionCode, req.Amount, req.InvoiceID)
	if err != nil {
		log.Printf("[Session] Automatic payment check failed for %s: %v", req.TransactionCode, err)
	}

	s.mu.Lock()
	s.applyCheckLocked(req, res, err)
	s.mu.Unlock()
}

// applyCheckLocked folds one check observation into session state.
// Confirmation is sticky per reference: once a reference is confirmed, a
// later failure or "pending" observation for the same reference never
// regresses it.
func (s *Session) applyCheckLocked(req *models.PaymentRequest, res *models.PaymentCheck, err error) {
	if s.closed {
		return
	}

	confirmed := s.confirmedRef != "" && s.confirmedRef == req.TransactionCode

	if err != nil {
		if confirmed {
			return
		}

		s.status.Message = "payment check failed"
		return
	}

	if res.Paid {
		s.status = models.PaymentStatus{
			State:     models.PaymentConfirmed,
			Reference: req.TransactionCode,
			Message:   res.Message,
		}
		if s.status.Message == "" {
			s.status.Message = "payment received"
		}

		s.confirmedRef = req.TransactionCode

		// One-time notification on the pending -> confirmed edge for the
		// currently displayed reference.
		if !confirmed && s.notifier != nil && s.displayed != nil && s.displayed.TransactionCode == req.TransactionCode {
			s.notifier.PaymentConfirmed(req)
		}

		return
	}

	if confirmed {
		// Late "pending" after confirmed: ignore.
		return
	}

	msg := res.Message
	if msg == "" {
		msg = "awaiting payment"
	}

	s.status = models.PaymentStatus{
		State:     models.PaymentPending,
		Reference: req.TransactionCode,
		Message:   msg,
	}
}

// Checkout finalizes the room checkout. Under transfer the confirmation
// gate must be open, and the reference sent to the backend is the confirmed
// one, never the merely displayed one.
func (s *Session) Checkout(ctx context.Context, note string) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return &ValidationError{Reason: "session is closed"}
	}

	if gate := s.gateLocked(); !gate.Open {
		s.mu.Unlock()
		return &ValidationError{Reason: gate.Reason}
	}

	if err := s.editor.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}

	req := &models.CheckoutRequest{
		PaymentMethod: s.method,
		Note:          note,
	}
	if s.method == models.MethodTransfer {
		req.TransactionReference = s.confirmedRef
	}

	roomID := s.roomID
	method := s.method
	s.mu.Unlock()

	if err := s.backend.CheckoutRoom(ctx, roomID, req); err != nil {
		// Retryable: the session stays open and usable.
		return err
	}

	s.mu.Lock()
	s.stopPollerLocked()
	s.closed = true
	s.editor.Invoice().Status = models.InvoicePaid
	inv := s.editor.Invoice().Clone()
	s.mu.Unlock()

	log.Printf("[Session] Room %s checked out (%s)", roomID, method)

	if s.notifier != nil {
		s.notifier.CheckedOut(roomID, inv, method)
	}

	return nil
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the session down. The poller is cancelled deterministically;
// no poll fires after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopPollerLocked()
	s.closed = true
	s.displayed = nil
	s.status = models.PaymentStatus{State: models.PaymentUnknown}
	s.confirmedRef = ""
}

func (s *Session) stopPollerLocked() {
	if s.poller != nil {
		s.poller.Stop()
		s.poller = nil
	}
}
