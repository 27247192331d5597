package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/middleware"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// UserHandler handles profile bootstrap and account management endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// InitializeProfile handles POST /user/initialize. It upserts the user
// document from the verified token claims. Persistence failures do not block
// sign-in: the client still gets a transient free-plan profile.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	email := c.GetString(middleware.CtxUserEmail)
	displayName := c.GetString(middleware.CtxDisplayName)
	photoURL := c.GetString(middleware.CtxPhotoURL)

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, email, displayName, photoURL)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to persist user profile, continuing with transient profile",
				zap.String("uid", userID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"user": transientProfile(userID, email, displayName, photoURL)})
		return
	}

	if provider := c.GetString(middleware.CtxSignInProvider); provider != "" {
		link := &models.AccountLink{
			UserID:            userID,
			Provider:          provider,
			ProviderAccountID: userID,
		}
		if err := h.userService.LinkAccount(c.Request.Context(), link); err != nil && h.logger != nil {
			h.logger.Warn("failed to record account link",
				zap.String("uid", userID), zap.String("provider", provider), zap.Error(err))
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"user": user})
}

// UpdateProfile handles POST /user/update-profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Name required", Details: err.Error()})
		return
	}

	if err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Name); err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Profile updated successfully"})
}

// DeleteAccount handles DELETE /user/delete-account. The cascade removes
// payment records and account links before the user document itself.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Account deleted successfully"})
}

func (h *UserHandler) mapUserErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	default:
		if h.logger != nil {
			h.logger.Error("internal error in user handler", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// transientProfile is what the client sees when Firestore is unavailable
// during sign-in. Nothing is persisted; the next request retries the upsert.
func transientProfile(userID, email, displayName, photoURL string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Subscription: models.Subscription{
			PlanID:    models.PlanFree,
			Status:    models.StatusActive,
			UpdatedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
