package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naveensing575/next-pay-flow/internal/ratelimit"
)

// RateLimit gates a route group with the limiter budget for the given
// category. The identity is the authenticated user id when present (the
// middleware must then run after VerifyToken) and the client IP otherwise.
// Denials carry a Retry-After header in seconds.
func RateLimit(checker ratelimit.Checker, category ratelimit.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.GetString(CtxUserID)
		if identifier == "" {
			identifier = c.ClientIP()
		}

		decision := checker.Check(c.Request.Context(), identifier, category)
		if !decision.Allowed {
			seconds := int(decision.RetryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
