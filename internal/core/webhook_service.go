package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/crypto"
	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// Gateway webhook event names this service acts on.
const (
	webhookPaymentCaptured     = "payment.captured"
	webhookPaymentFailed       = "payment.failed"
	webhookSubscriptionCharged = "subscription.charged"
)

// webhookEvent mirrors the gateway's event envelope; only the fields this
// service reads are declared.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Subscription struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// webhookService implements the WebhookService interface. It runs
// independently of the synchronous verification path and must not assume the
// order record is in any particular state: the webhook may arrive first,
// concurrently, or not at all.
type webhookService struct {
	orderRepo     db.OrderRepository
	publisher     events.Publisher
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookService creates a new WebhookService. webhookSecret is distinct
// from the checkout key secret.
func NewWebhookService(orderRepo db.OrderRepository, publisher events.Publisher, webhookSecret string, logger *zap.Logger) WebhookService {
	return &webhookService{
		orderRepo:     orderRepo,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Process verifies the raw-body signature and applies the event. Delivery is
// at-least-once upstream, so every update is an idempotent merge keyed by the
// order id or the gateway subscription id; no ordering is enforced against
// the synchronous path (last write wins on status).
func (s *webhookService) Process(ctx context.Context, body []byte, signature string) error {
	if signature == "" || !crypto.VerifyWebhookSignature(s.webhookSecret, body, signature) {
		return ErrInvalidWebhookSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook payload: %v", ErrValidation, err)
	}

	switch event.Event {
	case webhookPaymentCaptured:
		return s.setOrderStatus(ctx, event, models.StatusActive, events.EventPaymentActivated)
	case webhookPaymentFailed:
		return s.setOrderStatus(ctx, event, models.StatusFailed, events.EventPaymentFailed)
	case webhookSubscriptionCharged:
		subID := event.Payload.Subscription.Entity.ID
		if subID == "" {
			return fmt.Errorf("%w: subscription.charged event without subscription id", ErrValidation)
		}
		if err := s.orderRepo.SetStatusBySubscriptionID(ctx, subID, models.StatusActive); err != nil {
			return fmt.Errorf("failed to apply %s for subscription %q: %w", event.Event, subID, err)
		}
		if err := s.publisher.Publish(events.Event{
			Type:           events.EventPaymentActivated,
			SubscriptionID: subID,
		}); err != nil && s.logger != nil {
			s.logger.Warn("failed to publish webhook-driven event",
				zap.String("subscriptionId", subID), zap.Error(err))
		}
		return nil
	default:
		// Unrecognized events are acknowledged so the gateway stops retrying.
		if s.logger != nil {
			s.logger.Info("ignoring unhandled webhook event", zap.String("event", event.Event))
		}
		return nil
	}
}

func (s *webhookService) setOrderStatus(ctx context.Context, event webhookEvent, status, eventType string) error {
	orderID := event.Payload.Payment.Entity.OrderID
	if orderID == "" {
		return fmt.Errorf("%w: %s event without order id", ErrValidation, event.Event)
	}
	if err := s.orderRepo.SetStatusByOrderID(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to apply %s for order %q: %w", event.Event, orderID, err)
	}

	if err := s.publisher.Publish(events.Event{
		Type:    eventType,
		OrderID: orderID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish webhook-driven event",
			zap.String("orderId", orderID), zap.Error(err))
	}
	return nil
}
