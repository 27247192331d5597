package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naveensing575/next-pay-flow/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements UserRepository using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new Firestore-backed UserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		panic("Firestore client is not initialized for UserRepository")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document, using the Firebase Auth UID as the
// document ID. Firestore's Create precondition makes this the atomic
// first-sign-in guard: concurrent bootstraps for the same account collide on
// the same id and exactly one wins.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user %q: %w", user.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user %q: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %q: %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %q: %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// UpdateName rewrites the display name and bumps updatedAt.
func (r *firestoreUserRepository) UpdateName(ctx context.Context, userID, name string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdateName operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: name},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update name for user %q: %w", userID, err)
	}
	return nil
}

// SetSubscription replaces the embedded subscription sub-record as a single
// atomic field update. Re-applying the same subscription is a no-op, which is
// what both the verification path and the webhook path rely on.
func (r *firestoreUserRepository) SetSubscription(ctx context.Context, userID string, sub models.Subscription) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetSubscription operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "subscription", Value: sub},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to set subscription for user %q: %w", userID, err)
	}
	return nil
}

// Delete removes the user document.
func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user %q: %w", userID, err)
	}
	return nil
}
