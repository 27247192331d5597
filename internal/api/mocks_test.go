package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/naveensing575/next-pay-flow/internal/core"
	"github.com/naveensing575/next-pay-flow/internal/gateway"
	"github.com/naveensing575/next-pay-flow/internal/middleware"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// mockUserService implements core.UserService with overridable functions.
type mockUserService struct {
	getOrCreateFn   func(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	getByIDFn       func(ctx context.Context, userID string) (*models.User, error)
	linkAccountFn   func(ctx context.Context, link *models.AccountLink) error
	updateProfileFn func(ctx context.Context, userID, name string) error
	deleteAccountFn func(ctx context.Context, userID string) error
}

func (m *mockUserService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	return m.getOrCreateFn(ctx, userID, email, displayName, photoURL)
}

func (m *mockUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return m.getByIDFn(ctx, userID)
}

func (m *mockUserService) LinkAccount(ctx context.Context, link *models.AccountLink) error {
	if m.linkAccountFn == nil {
		return nil
	}
	return m.linkAccountFn(ctx, link)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID, name string) error {
	return m.updateProfileFn(ctx, userID, name)
}

func (m *mockUserService) DeleteAccount(ctx context.Context, userID string) error {
	return m.deleteAccountFn(ctx, userID)
}

// mockPaymentService implements core.PaymentService.
type mockPaymentService struct {
	createOrderFn   func(ctx context.Context, userID, planID string) (*gateway.Order, error)
	verifyPaymentFn func(ctx context.Context, callerID string, req core.VerifyPaymentRequest) error
	historyFn       func(ctx context.Context, userID string) ([]core.PaymentHistoryEntry, error)
}

func (m *mockPaymentService) CreateOrder(ctx context.Context, userID, planID string) (*gateway.Order, error) {
	return m.createOrderFn(ctx, userID, planID)
}

func (m *mockPaymentService) VerifyPayment(ctx context.Context, callerID string, req core.VerifyPaymentRequest) error {
	return m.verifyPaymentFn(ctx, callerID, req)
}

func (m *mockPaymentService) History(ctx context.Context, userID string) ([]core.PaymentHistoryEntry, error) {
	return m.historyFn(ctx, userID)
}

// mockWebhookService implements core.WebhookService.
type mockWebhookService struct {
	processFn func(ctx context.Context, body []byte, signature string) error
}

func (m *mockWebhookService) Process(ctx context.Context, body []byte, signature string) error {
	return m.processFn(ctx, body, signature)
}

// mockInvoiceService implements core.InvoiceService.
type mockInvoiceService struct {
	generateFn func(ctx context.Context, userID, paymentRecordID string) ([]byte, string, error)
}

func (m *mockInvoiceService) Generate(ctx context.Context, userID, paymentRecordID string) ([]byte, string, error) {
	return m.generateFn(ctx, userID, paymentRecordID)
}

// mockSupportService implements core.SupportService.
type mockSupportService struct {
	sendMessageFn func(ctx context.Context, userPlan string, msg core.SupportMessage) error
}

func (m *mockSupportService) SendMessage(ctx context.Context, userPlan string, msg core.SupportMessage) error {
	return m.sendMessageFn(ctx, userPlan, msg)
}

// asUser stands in for the auth middleware by placing verified claims in the
// Gin context.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.CtxUserID, userID)
		}
		c.Next()
	}
}
