package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/api"
	"github.com/naveensing575/next-pay-flow/internal/config"
	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/gateway"
	"github.com/naveensing575/next-pay-flow/internal/mailer"
	"github.com/naveensing575/next-pay-flow/internal/ratelimit"
)

func main() {
	// Load .env in development. In production, environment variables are set
	// directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	var logger *zap.Logger
	if appConfig.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	if appConfig.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := db.InitFirestore(ctx, appConfig)
	if err != nil {
		logger.Fatal("Error initializing Firestore", zap.Error(err))
	}
	defer clients.Close()

	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	orderRepo := db.NewFirestoreOrderRepository(clients.Firestore)
	accountRepo := db.NewFirestoreAccountRepository(clients.Firestore)

	orderCreator := gateway.NewRazorpayGateway(appConfig.RazorpayKeyID, appConfig.RazorpayKeySecret)

	// Rate limiting degrades to allow-all when Redis is unreachable, so a
	// connection failure is a warning, not a startup error.
	var limiter ratelimit.Checker
	rdb, err := ratelimit.NewRedisClient(ctx, ratelimit.NewRedisClientConfig{
		Address:  appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		limiter = ratelimit.NewLimiter(nil, logger)
	} else {
		defer rdb.Close()
		limiter = ratelimit.NewLimiter(rdb, logger)
	}

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err = events.NewRabbitMQPublisher(appConfig.RabbitMQURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, billing events will be logged only", zap.Error(err))
			publisher = events.NewNoopPublisher(logger)
		}
	} else {
		publisher = events.NewNoopPublisher(logger)
	}
	defer publisher.Close()

	// The mailer is optional; without SMTP settings the support endpoint
	// reports itself unavailable instead of failing startup.
	var supportMailer *mailer.Mailer
	if appConfig.SMTPHost != "" {
		supportMailer, err = mailer.New(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			Username: appConfig.SMTPUser,
			Password: appConfig.SMTPPassword,
			From:     appConfig.MailFrom,
		})
		if err != nil {
			logger.Warn("Mailer misconfigured, support email disabled", zap.Error(err))
			supportMailer = nil
		}
	}

	services := api.Services{
		User:    core.NewUserService(userRepo, orderRepo, accountRepo, publisher, logger),
		Payment: core.NewPaymentService(orderRepo, userRepo, orderCreator, publisher, appConfig.RazorpayKeySecret, logger),
		Webhook: core.NewWebhookService(orderRepo, publisher, appConfig.RazorpayWebhookSecret, logger),
		Invoice: core.NewInvoiceService(orderRepo, userRepo),
		Support: core.NewSupportService(supportMailer, appConfig.SupportInbox),
	}

	router := gin.New()
	api.SetupRoutes(router, appConfig, logger, clients.Auth, limiter, services)

	port := appConfig.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", port), zap.String("mode", gin.Mode()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
