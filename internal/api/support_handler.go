package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/middleware"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// SupportHandler handles support-form submissions.
type SupportHandler struct {
	supportService core.SupportService
	userService    core.UserService
	logger         *zap.Logger
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(ss core.SupportService, us core.UserService, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{supportService: ss, userService: us, logger: logger}
}

// SendMessage handles POST /support/send-message. The caller's plan is looked
// up to tag the outgoing email; a lookup failure degrades to the free plan
// rather than blocking the submission.
func (h *SupportHandler) SendMessage(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req SupportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "All fields are required", Details: err.Error()})
		return
	}

	plan := models.PlanFree
	if user, err := h.userService.GetByID(c.Request.Context(), userID); err == nil {
		plan = user.EffectivePlan()
	} else if h.logger != nil {
		h.logger.Warn("failed to resolve plan for support message", zap.String("uid", userID), zap.Error(err))
	}

	err := h.supportService.SendMessage(c.Request.Context(), plan, core.SupportMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		case errors.Is(err, core.ErrMailerUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Support mail is not configured"})
		default:
			if h.logger != nil {
				h.logger.Error("failed to send support message", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Message sent successfully"})
}
