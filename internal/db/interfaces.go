package db

import (
	"context"

	"github.com/naveensing575/next-pay-flow/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	// Create inserts a new user document keyed by the Firebase Auth UID.
	// Returns ErrAlreadyExists when the document is already present, which
	// callers use as the atomic guard against duplicate sign-in bootstraps.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// UpdateName rewrites the display name only.
	UpdateName(ctx context.Context, userID, name string) error
	// SetSubscription replaces the embedded subscription sub-record.
	SetSubscription(ctx context.Context, userID string, sub models.Subscription) error
	Delete(ctx context.Context, userID string) error
}

// OrderRepository defines the interface for payment order records. The
// gateway order id is the document id, so Upsert and the status setters are
// idempotent merge operations on a stable key.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	// Upsert merges the given fields into the record for order.OrderID,
	// creating it if the synchronous path arrives before Create did.
	Upsert(ctx context.Context, order *models.Order) error
	// SetStatusByOrderID merge-sets status/updatedAt for the given order id.
	SetStatusByOrderID(ctx context.Context, orderID, status string) error
	// SetStatusBySubscriptionID resolves records by the gateway subscription
	// id carried on periodic billing events.
	SetStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) error
	ListByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// AccountRepository defines the interface for OAuth account-link records.
type AccountRepository interface {
	// LinkOnce creates the link if absent; an existing link is not an error.
	LinkOnce(ctx context.Context, link *models.AccountLink) error
	DeleteByUserID(ctx context.Context, userID string) error
}
