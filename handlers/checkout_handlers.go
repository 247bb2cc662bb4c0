package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"frontdesk/checkout"
	"frontdesk/hotelapi"
	"frontdesk/models"
	"frontdesk/services"
)

// CheckoutHandler exposes checkout sessions over HTTP for the front-desk UI.
type CheckoutHandler struct {
	sessions *services.SessionManager
	receipts *services.ReceiptService
}

// NewCheckoutHandler creates the handler. Receipts may be nil.
func NewCheckoutHandler(sessions *services.SessionManager, receipts *services.ReceiptService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, receipts: receipts}
}

// Register mounts the checkout session routes.
func (h *CheckoutHandler) Register(r *gin.Engine) {
	r.POST("/sessions", h.OpenSession)
	r.GET("/sessions/:id", h.GetSession)
	r.POST("/sessions/:id/method", h.SetMethod)
	r.PATCH("/sessions/:id/invoice", h.EditInvoice)
	r.POST("/sessions/:id/invoice/save", h.SaveInvoice)
	r.POST("/sessions/:id/qr", h.ShowQR)
	r.DELETE("/sessions/:id/qr", h.HideQR)
	r.POST("/sessions/:id/check", h.CheckPayment)
	r.POST("/sessions/:id/checkout", h.Checkout)
	r.DELETE("/sessions/:id", h.CloseSession)
}

type openSessionRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

func (h *CheckoutHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, session, err := h.sessions.Open(c.Request.Context(), req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": id,
		"invoice":   session.Invoice(),
		"method":    session.Method(),
	})
}

func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	gate := session.GateState()

	c.JSON(http.StatusOK, gin.H{
		"invoice":        session.Invoice(),
		"method":         session.Method(),
		"paymentStatus":  session.Status(),
		"paymentRequest": session.DisplayedRequest(),
		"gateOpen":       gate.Open,
		"gateReason":     gate.Reason,
	})
}

type setMethodRequest struct {
	Method models.PaymentMethod `json:"method" binding:"required"`
}

func (h *CheckoutHandler) SetMethod(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req setMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.SetPaymentMethod(req.Method); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"method": session.Method()})
}

type editInvoiceRequest struct {
	Begin    bool             `json:"begin"`
	Cancel   bool             `json:"cancel"`
	Discount *decimal.Decimal `json:"discount"`
	Items    []struct {
		Index    int  `json:"index"`
		Quantity int  `json:"quantity"`
		Remove   bool `json:"remove"`
	} `json:"items"`
}

func (h *CheckoutHandler) EditInvoice(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req editInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Cancel {
		session.CancelEdit()
		c.JSON(http.StatusOK, gin.H{"invoice": session.Invoice()})
		return
	}

	if req.Begin {
		session.BeginEdit()
	}

	for _, op := range req.Items {
		if op.Remove {
			session.RemoveItem(op.Index)
			continue
		}
		session.SetItemQuantity(op.Index, op.Quantity)
	}

	if req.Discount != nil {
		session.SetDiscount(*req.Discount)
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":     session.Invoice(),
		"finalAmount": session.FinalAmount(),
	})
}

func (h *CheckoutHandler) SaveInvoice(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if err := session.SaveInvoice(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": session.Invoice()})
}

func (h *CheckoutHandler) ShowQR(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	req, err := session.ShowQR(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentRequest": req})
}

func (h *CheckoutHandler) HideQR(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	session.HideQR()
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) CheckPayment(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	status, err := session.CheckNow(c.Request.Context())
	if err != nil {
		// Manual checks surface their failure, unlike automatic polls.
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentStatus": status})
}

type checkoutRequest struct {
	Note string `json:"note"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	id := c.Param("id")

	session, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	displayed := session.DisplayedRequest()

	if err := session.Checkout(c.Request.Context(), req.Note); err != nil {
		writeError(c, err)
		return
	}

	h.sendReceipt(session, displayed)
	h.sessions.Close(id)

	c.JSON(http.StatusOK, gin.H{"checkedOut": true})
}

func (h *CheckoutHandler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) sendReceipt(session *checkout.Session, displayed *models.PaymentRequest) {
	if h.receipts == nil {
		return
	}

	inv := session.Invoice()

	ref := ""
	if session.Method() == models.MethodTransfer && displayed != nil {
		ref = displayed.TransactionCode
	}

	pdfBytes, err := h.receipts.GenerateReceiptPDF(session.RoomID(), inv, session.Method(), ref)
	if err != nil {
		log.Printf("Error generating receipt for room %s: %v", session.RoomID(), err)
		return
	}

	if err := h.receipts.SendReceiptToSlack(session.RoomID(), inv, pdfBytes); err != nil {
		log.Printf("Error sending receipt for room %s: %v", session.RoomID(), err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: local validation
// failures are 400, remote failures bubble up as 502.
func writeError(c *gin.Context, err error) {
	if checkout.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if hotelapi.IsRemoteError(err) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
