package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo    db.UserRepository
	orderRepo   db.OrderRepository
	accountRepo db.AccountRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(
	userRepo db.UserRepository,
	orderRepo db.OrderRepository,
	accountRepo db.AccountRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetOrCreate bootstraps the application user for a verified identity. The
// document id is the provider UID, and the repository Create is atomic on it,
// so concurrent first sign-ins for the same account converge on exactly one
// user document: the losing writer falls through to the load path.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if email == "" {
		return nil, false, fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up user %q: %w", userID, err)
	}

	now := time.Now().UTC()
	newUser := &models.User{
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
	if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
		if errors.Is(createErr, db.ErrAlreadyExists) {
			// Lost the bootstrap race; the other writer's document wins.
			existing, getErr := s.userRepo.GetByID(ctx, userID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to load user %q after create conflict: %w", userID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user %q: %w", userID, createErr)
	}
	return newUser, true, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user %q: %w", userID, err)
	}
	return user, nil
}

// LinkAccount records the OAuth account link; repeats are no-ops.
func (s *userService) LinkAccount(ctx context.Context, link *models.AccountLink) error {
	if link == nil || link.UserID == "" || link.Provider == "" || link.ProviderAccountID == "" {
		return fmt.Errorf("%w: userId, provider and providerAccountId are required", ErrValidation)
	}
	return s.accountRepo.LinkOnce(ctx, link)
}

// UpdateProfile sets the user's display name.
func (s *userService) UpdateProfile(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to update profile for user %q: %w", userID, err)
	}
	return nil
}

// DeleteAccount removes the user and everything hanging off it: payment
// records first, then OAuth links, then the user document itself, so a
// partial failure never leaves orphaned records behind a deleted user.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if err := s.orderRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete payment records for user %q: %w", userID, err)
	}
	if err := s.accountRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account links for user %q: %w", userID, err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %q: %w", userID, err)
	}

	if err := s.publisher.Publish(events.Event{
		Type:   events.EventAccountDeleted,
		UserID: userID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish account deletion event",
			zap.String("userId", userID), zap.Error(err))
	}
	return nil
}
