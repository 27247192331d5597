package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/crypto"
	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/gateway"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

const orderCurrency = "INR"

// paymentService implements the PaymentService interface.
type paymentService struct {
	orderRepo db.OrderRepository
	userRepo  db.UserRepository
	gateway   gateway.OrderCreator
	publisher events.Publisher
	keySecret string
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService. keySecret is the gateway
// key secret used to recompute checkout signatures.
func NewPaymentService(
	orderRepo db.OrderRepository,
	userRepo db.UserRepository,
	orderCreator gateway.OrderCreator,
	publisher events.Publisher,
	keySecret string,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   orderCreator,
		publisher: publisher,
		keySecret: keySecret,
		logger:    logger,
	}
}

// CreateOrder validates the plan, mints a remote order for price x 100 minor
// units, and records it with status "created" for later reconciliation.
func (s *paymentService) CreateOrder(ctx context.Context, userID, planID string) (*gateway.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	amount, err := PlanAmountPaise(planID)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.CreateOrder(ctx, amount, orderCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:   remote.ID,
		UserID:    userID,
		PlanID:    planID,
		Status:    models.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order %q: %w", remote.ID, err)
	}

	return remote, nil
}

// VerifyPayment recomputes the checkout signature and, on a match, flips the
// order to active and the user's subscription to the purchased plan. Both
// writes are idempotent merges keyed on stable ids, so client retries with
// identical inputs are safe. The order update and the user update are two
// separate atomic document operations, not one transaction.
func (s *paymentService) VerifyPayment(ctx context.Context, callerID string, req VerifyPaymentRequest) error {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" || req.PlanID == "" || req.UserID == "" {
		return fmt.Errorf("%w: orderId, paymentId, signature, planId and userId are required", ErrValidation)
	}
	if callerID != req.UserID {
		return ErrForbidden
	}
	if _, err := PlanPrice(req.PlanID); err != nil {
		return err
	}

	// Security-critical check: a payment must never be marked active without
	// a verified signature, and a mismatch is a hard rejection.
	if !crypto.VerifyPaymentSignature(s.keySecret, req.OrderID, req.PaymentID, req.Signature) {
		return ErrInvalidSignature
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:   req.OrderID,
		UserID:    req.UserID,
		PlanID:    req.PlanID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Status:    models.StatusActive,
		UpdatedAt: now,
	}
	if err := s.orderRepo.Upsert(ctx, order); err != nil {
		return fmt.Errorf("failed to activate order %q: %w", req.OrderID, err)
	}

	sub := models.Subscription{
		PlanID:    req.PlanID,
		Status:    models.StatusActive,
		UpdatedAt: now,
	}
	if err := s.userRepo.SetSubscription(ctx, req.UserID, sub); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrUserNotFound, req.UserID)
		}
		return fmt.Errorf("failed to update subscription for user %q: %w", req.UserID, err)
	}

	if err := s.publisher.Publish(events.Event{
		Type:    events.EventPaymentActivated,
		UserID:  req.UserID,
		OrderID: req.OrderID,
		PlanID:  req.PlanID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish payment activation event",
			zap.String("orderId", req.OrderID), zap.Error(err))
	}
	return nil
}

// History returns the user's payment records, newest first, with the plan
// price and currency derived from the price table.
func (s *paymentService) History(ctx context.Context, userID string) ([]PaymentHistoryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for user %q: %w", userID, err)
	}

	entries := make([]PaymentHistoryEntry, 0, len(orders))
	for _, order := range orders {
		price, _ := PlanPrice(order.PlanID) // zero for unknown/legacy plan ids
		entry := PaymentHistoryEntry{
			ID:        order.ID,
			OrderID:   order.OrderID,
			PaymentID: order.PaymentID,
			PlanID:    order.PlanID,
			Status:    order.Status,
			Amount:    price,
			Currency:  orderCurrency,
			CreatedAt: order.CreatedAt.Format(time.RFC3339),
		}
		if !order.UpdatedAt.IsZero() {
			entry.UpdatedAt = order.UpdatedAt.Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
