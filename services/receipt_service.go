package services

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/slack-go/slack"

	"frontdesk/models"
)

// ReceiptService renders checkout receipts as PDF and shares them with the
// staff channel.
type ReceiptService struct {
	slackClient *slack.Client
	channelID   string
}

// NewReceiptService creates a receipt service. The Slack client may be nil;
// receipts are then generated but not uploaded.
func NewReceiptService(botToken, channelID string) *ReceiptService {
	var client *slack.Client
	if botToken != "" {
		client = slack.New(botToken)
	}

	return &ReceiptService{
		slackClient: client,
		channelID:   channelID,
	}
}

// GenerateReceiptPDF renders a checkout receipt for a settled invoice.
func (rs *ReceiptService) GenerateReceiptPDF(roomID string, inv *models.Invoice, method models.PaymentMethod, transactionRef string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, "CHECKOUT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, fmt.Sprintf("Room: %s", roomID))
	pdf.Cell(60, 6, fmt.Sprintf("Date: %s", time.Now().Format("January 2, 2006")))
	pdf.Ln(6)
	pdf.Cell(60, 6, fmt.Sprintf("Invoice: %s", inv.Code))
	pdf.Cell(60, 6, fmt.Sprintf("Payment: %s", method))
	pdf.Ln(6)

	if transactionRef != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Transaction Ref: %s", transactionRef))
		pdf.Ln(6)
	}
	pdf.Ln(8)

	// Table headers
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.Cell(100, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit Price")
	pdf.Cell(40, 8, "Amount")
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.Cell(100, 6, item.Name)
		pdf.Cell(25, 6, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(35, 6, item.UnitPrice.String())
		pdf.Cell(40, 6, item.Amount.String())
		pdf.Ln(6)
	}

	pdf.Ln(10)

	// Totals box
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(110, pdf.GetY(), 90, 36, "D")

	pdf.SetFont("Arial", "", 10)
	pdf.SetX(115)
	pdf.Cell(35, 10, "Subtotal:")
	pdf.Cell(40, 10, inv.Total().String())
	pdf.Ln(10)

	pdf.SetX(115)
	pdf.Cell(35, 10, "Discount:")
	pdf.Cell(40, 10, inv.Discount.String())
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetX(115)
	pdf.Cell(35, 12, "Amount Paid:")
	pdf.SetTextColor(0, 100, 0)
	pdf.Cell(40, 12, inv.FinalAmount().String())
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(16)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// SendReceiptToSlack uploads the receipt PDF to the staff channel.
func (rs *ReceiptService) SendReceiptToSlack(roomID string, inv *models.Invoice, pdfBytes []byte) error {
	if rs.slackClient == nil {
		log.Printf("Slack not configured, skipping receipt upload for room %s", roomID)
		return nil
	}

	message := fmt.Sprintf(
		"🧾 *Checkout receipt* for room *%s* (invoice %s, amount %s). PDF attached.",
		roomID, inv.Code, inv.FinalAmount(),
	)

	uploadParams := slack.FileUploadParameters{
		Reader:         bytes.NewReader(pdfBytes),
		Filename:       fmt.Sprintf("Receipt_%s.pdf", inv.Code),
		Title:          fmt.Sprintf("Receipt %s", inv.Code),
		Filetype:       "pdf",
		Channels:       []string{rs.channelID},
		InitialComment: message,
	}

	if _, err := rs.slackClient.UploadFile(uploadParams); err != nil {
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	return nil
}
