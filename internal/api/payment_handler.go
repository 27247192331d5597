package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/middleware"
)

// WebhookSignatureHeader carries the gateway's HMAC over the raw body.
const WebhookSignatureHeader = "x-razorpay-signature"

// PaymentHandler handles the payment endpoints.
type PaymentHandler struct {
	paymentService core.PaymentService
	webhookService core.WebhookService
	invoiceService core.InvoiceService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService, ws core.WebhookService, is core.InvoiceService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: ps,
		webhookService: ws,
		invoiceService: is,
		logger:         logger,
	}
}

// mapPaymentErrorToStatus maps service errors to HTTP status codes.
func (h *PaymentHandler) mapPaymentErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidPlan):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid request", Details: err.Error()}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, core.ErrInvalidSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid signature"}
	case errors.Is(err, core.ErrInvalidWebhookSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid webhook signature"}
	case errors.Is(err, core.ErrPaymentNotFound), errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "Not found", Details: err.Error()}
	case errors.Is(err, core.ErrGateway):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: "Payment provider error"}
		if h.logger != nil {
			h.logger.Error("payment gateway error", zap.Error(err))
		}
	default:
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
		if h.logger != nil {
			h.logger.Error("internal error in payment handler", zap.Error(err))
		}
	}
	c.JSON(statusCode, errResponse)
}

// CreateOrder handles POST /payments/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Plan ID required", Details: err.Error()})
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		h.mapPaymentErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// VerifyPayment handles POST /payments/verify-payment.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required fields", Details: err.Error()})
		return
	}

	err := h.paymentService.VerifyPayment(c.Request.Context(), userID, core.VerifyPaymentRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		PlanID:    req.PlanID,
		UserID:    req.UserID,
	})
	if err != nil {
		h.mapPaymentErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{Success: true, PlanID: req.PlanID})
}

// HandleWebhook handles POST /payments/webhook. The endpoint is public; the
// gateway authenticates with the raw-body signature header, verified in the
// service.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	signature := c.GetHeader(WebhookSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing webhook signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}
	defer c.Request.Body.Close()

	if err := h.webhookService.Process(c.Request.Context(), payload, signature); err != nil {
		h.mapPaymentErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// History handles GET /payments/history.
func (h *PaymentHandler) History(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	payments, err := h.paymentService.History(c.Request.Context(), userID)
	if err != nil {
		h.mapPaymentErrorToStatus(c, err)
		return
	}
	if payments == nil {
		payments = []core.PaymentHistoryEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// Invoice handles POST /payments/invoice, returning the PDF as an attachment.
func (h *PaymentHandler) Invoice(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Payment ID required", Details: err.Error()})
		return
	}

	pdfBytes, filename, err := h.invoiceService.Generate(c.Request.Context(), userID, req.PaymentID)
	if err != nil {
		h.mapPaymentErrorToStatus(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
