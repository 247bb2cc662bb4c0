package services

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"frontdesk/models"
)

// SlackNotifier posts payment and checkout events to the staff channel.
type SlackNotifier struct {
	client    *slack.Client
	channelID string
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

// PaymentConfirmed announces a settled payment request.
func (n *SlackNotifier) PaymentConfirmed(req *models.PaymentRequest) {
	msg := fmt.Sprintf(
		":white_check_mark: Payment received for invoice *%s* (ref `%s`, amount %s)",
		req.InvoiceCode, req.TransactionCode, req.Amount,
	)

	if _, _, err := n.client.PostMessage(n.channelID, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("Error sending payment confirmation message: %v", err)
	}
}

// CheckedOut announces a completed room checkout.
func (n *SlackNotifier) CheckedOut(roomID string, inv *models.Invoice, method models.PaymentMethod) {
	msg := fmt.Sprintf(
		":key: Room *%s* checked out (invoice %s, %s, total %s)",
		roomID, inv.Code, method, inv.FinalAmount(),
	)

	if _, _, err := n.client.PostMessage(n.channelID, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("Error sending checkout message: %v", err)
	}
}

// LogNotifier is the fallback when Slack is not configured.
type LogNotifier struct{}

func (LogNotifier) PaymentConfirmed(req *models.PaymentRequest) {
	log.Printf("Payment received for invoice %s (ref %s, amount %s)", req.InvoiceCode, req.TransactionCode, req.Amount)
}

func (LogNotifier) CheckedOut(roomID string, inv *models.Invoice, method models.PaymentMethod) {
	log.Printf("Room %s checked out (invoice %s, %s, total %s)", roomID, inv.Code, method, inv.FinalAmount())
}
