package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys populated by the auth middleware.
const (
	CtxUserID         = "userID"
	CtxUserEmail      = "userEmail"
	CtxDisplayName    = "userDisplayName"
	CtxPhotoURL       = "userPhotoURL"
	CtxSignInProvider = "signInProvider"
)

// ErrorResponse mirrors the API error shape locally to avoid an import cycle
// with internal/api.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for Firebase ID token authentication.
type AuthMiddleware struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. A nil auth client
// is a programmer error during setup; routes cannot be secured without it.
func NewAuthMiddleware(authClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{authClient: authClient, logger: logger}
}

// VerifyToken verifies a bearer ID token from the Authorization header and
// places the verified identity claims in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("failed to verify ID token", zap.Error(err))
			}
			// Generic message to the client; details stay server-side.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(CtxUserID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(CtxUserEmail, email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set(CtxDisplayName, name)
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			c.Set(CtxPhotoURL, picture)
		}
		if token.Firebase.SignInProvider != "" {
			c.Set(CtxSignInProvider, token.Firebase.SignInProvider)
		}

		c.Next()
	}
}
