package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"frontdesk/services"
)

// StripeWebhookHandler turns Stripe settlement events into payment
// confirmations for the matching checkout session. Polling still runs; the
// webhook just confirms faster when Stripe is the provider.
type StripeWebhookHandler struct {
	endpointSecret string
	sessions       *services.SessionManager
}

// NewStripeWebhookHandler creates a new Stripe webhook handler
func NewStripeWebhookHandler(endpointSecret string, sessions *services.SessionManager) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		endpointSecret: endpointSecret,
		sessions:       sessions,
	}
}

// Register mounts the webhook route.
func (h *StripeWebhookHandler) Register(r *gin.Engine) {
	r.POST("/webhooks/stripe", h.HandleWebhook)
}

// HandleWebhook processes incoming Stripe webhook events
func (h *StripeWebhookHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[Webhook] Error reading webhook payload: %v", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}

	// Verify webhook signature
	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.endpointSecret)
	if err != nil {
		log.Printf("[Webhook] Error verifying webhook signature: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(event)
	default:
		log.Printf("[Webhook] Unhandled event type: %s", event.Type)
	}

	c.Status(http.StatusOK)
}

// handleCheckoutSessionCompleted marks the payment request backing the
// completed Stripe checkout session as confirmed.
func (h *StripeWebhookHandler) handleCheckoutSessionCompleted(event stripe.Event) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		log.Printf("[Webhook] Error parsing checkout session: %v", err)
		return
	}

	if cs.PaymentLink == nil {
		log.Printf("[Webhook] Checkout session %s has no payment link, ignoring", cs.ID)
		return
	}

	ref := cs.PaymentLink.ID

	session, ok := h.sessions.FindByReference(ref)
	if !ok {
		log.Printf("[Webhook] No live checkout session displays reference %s", ref)
		return
	}

	log.Printf("[Webhook] Stripe confirmed payment for reference %s", ref)
	session.ConfirmReference(ref, "payment received")
}
