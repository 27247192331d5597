package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/config"
	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/middleware"
	"github.com/naveensing575/next-pay-flow/internal/ratelimit"
)

// Services bundles the core services the routes depend on.
type Services struct {
	User    core.UserService
	Payment core.PaymentService
	Webhook core.WebhookService
	Invoice core.InvoiceService
	Support core.SupportService
}

// SetupRoutes registers all HTTP routes and their middleware chains on the
// router. The webhook route is the only unauthenticated mutation; it is
// guarded by signature verification and its own rate budget instead.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authClient *auth.Client,
	limiter ratelimit.Checker,
	services Services,
) {
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(appConfig))

	authMW := middleware.NewAuthMiddleware(authClient, logger)
	requireAuth := authMW.VerifyToken()

	paymentHandler := NewPaymentHandler(services.Payment, services.Webhook, services.Invoice, logger)
	userHandler := NewUserHandler(services.User, logger)
	supportHandler := NewSupportHandler(services.Support, services.User, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	payments := router.Group("/payments")
	{
		payments.POST("/create-order", requireAuth,
			middleware.RateLimit(limiter, ratelimit.CategoryCreateOrder),
			paymentHandler.CreateOrder)
		payments.POST("/verify-payment", requireAuth,
			middleware.RateLimit(limiter, ratelimit.CategoryVerifyPayment),
			paymentHandler.VerifyPayment)
		payments.POST("/webhook",
			middleware.RateLimit(limiter, ratelimit.CategoryWebhook),
			paymentHandler.HandleWebhook)
		payments.GET("/history", requireAuth, paymentHandler.History)
		payments.POST("/invoice", requireAuth, paymentHandler.Invoice)
	}

	user := router.Group("/user", requireAuth)
	{
		user.POST("/initialize", userHandler.InitializeProfile)
		user.POST("/update-profile", userHandler.UpdateProfile)
		user.DELETE("/delete-account", userHandler.DeleteAccount)
	}

	support := router.Group("/support", requireAuth)
	{
		support.POST("/send-message", supportHandler.SendMessage)
	}
}
