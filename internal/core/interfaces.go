package core

import (
	"context"

	"github.com/naveensing575/next-pay-flow/internal/gateway"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// UserService defines user bootstrap and account-management operations.
type UserService interface {
	// GetOrCreate loads the user for the verified identity, creating it with
	// a free-plan subscription on first sign-in. Returns whether a new
	// document was created.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// LinkAccount records the OAuth account link at most once per
	// (provider, providerAccountId) pair.
	LinkAccount(ctx context.Context, link *models.AccountLink) error
	UpdateProfile(ctx context.Context, userID, name string) error
	// DeleteAccount cascades: order records, account links, then the user.
	DeleteAccount(ctx context.Context, userID string) error
}

// VerifyPaymentRequest carries the client callback for a completed checkout.
type VerifyPaymentRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	PlanID    string
	UserID    string
}

// PaymentHistoryEntry is one row of a user's payment history.
type PaymentHistoryEntry struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId,omitempty"`
	PlanID    string `json:"planId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// PaymentService owns the order lifecycle: creation, signature verification,
// and history.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID, planID string) (*gateway.Order, error)
	// VerifyPayment validates the checkout signature and activates the
	// subscription. callerID must equal req.UserID. Safe to retry with
	// identical inputs.
	VerifyPayment(ctx context.Context, callerID string, req VerifyPaymentRequest) error
	History(ctx context.Context, userID string) ([]PaymentHistoryEntry, error)
}

// WebhookService applies gateway-pushed payment events to order records.
type WebhookService interface {
	// Process verifies the body signature and applies the event. Processing
	// the same delivery twice leaves state unchanged.
	Process(ctx context.Context, body []byte, signature string) error
}

// InvoiceService renders PDF receipts for a user's own payments.
type InvoiceService interface {
	// Generate returns the PDF bytes and a download filename. Records not
	// owned by userID are reported as not found.
	Generate(ctx context.Context, userID, paymentRecordID string) ([]byte, string, error)
}

// SupportMessage is a support-form submission.
type SupportMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SupportService dispatches support-form submissions by email.
type SupportService interface {
	SendMessage(ctx context.Context, userPlan string, msg SupportMessage) error
}
