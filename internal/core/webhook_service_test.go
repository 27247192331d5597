package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/crypto"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

const testWebhookSecret = "test_webhook_secret"

func signedBody(t *testing.T, body string) ([]byte, string) {
	t.Helper()
	raw := []byte(body)
	return raw, crypto.WebhookSignature(testWebhookSecret, raw)
}

func TestProcessRejectsInvalidSignature(t *testing.T) {
	orderRepo := &mockOrderRepo{
		setStatusByOrderIDFn: func(context.Context, string, string) error {
			t.Fatal("no write may happen on signature failure")
			return nil
		},
	}
	svc := NewWebhookService(orderRepo, &recordingPublisher{}, testWebhookSecret, zap.NewNop())

	body := []byte(`{"event":"payment.captured"}`)
	wrong := crypto.WebhookSignature("other_secret", body)
	if err := svc.Process(context.Background(), body, wrong); !errors.Is(err, ErrInvalidWebhookSignature) {
		t.Errorf("expected ErrInvalidWebhookSignature, got %v", err)
	}
	if err := svc.Process(context.Background(), body, ""); !errors.Is(err, ErrInvalidWebhookSignature) {
		t.Errorf("expected ErrInvalidWebhookSignature for empty signature, got %v", err)
	}
}

func TestProcessPaymentCaptured(t *testing.T) {
	var gotOrderID, gotStatus string
	orderRepo := &mockOrderRepo{
		setStatusByOrderIDFn: func(_ context.Context, orderID, status string) error {
			gotOrderID, gotStatus = orderID, status
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewWebhookService(orderRepo, pub, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "order_abc"}}}
	}`)
	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if gotOrderID != "order_abc" || gotStatus != models.StatusActive {
		t.Errorf("expected order_abc set active, got %q %q", gotOrderID, gotStatus)
	}
	published := pub.published()
	if len(published) != 1 || published[0].Type != events.EventPaymentActivated {
		t.Errorf("expected one payment.activated event, got %+v", published)
	}
}

func TestProcessPaymentFailed(t *testing.T) {
	var gotStatus string
	orderRepo := &mockOrderRepo{
		setStatusByOrderIDFn: func(_ context.Context, _, status string) error {
			gotStatus = status
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewWebhookService(orderRepo, pub, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "order_abc"}}}
	}`)
	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if gotStatus != models.StatusFailed {
		t.Errorf("expected status failed, got %q", gotStatus)
	}
	published := pub.published()
	if len(published) != 1 || published[0].Type != events.EventPaymentFailed {
		t.Errorf("expected one payment.failed event, got %+v", published)
	}
}

func TestProcessSubscriptionCharged(t *testing.T) {
	var gotSubID, gotStatus string
	orderRepo := &mockOrderRepo{
		setStatusBySubscriptionIDFn: func(_ context.Context, subscriptionID, status string) error {
			gotSubID, gotStatus = subscriptionID, status
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewWebhookService(orderRepo, pub, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{
		"event": "subscription.charged",
		"payload": {"subscription": {"entity": {"id": "sub_9"}}}
	}`)
	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if gotSubID != "sub_9" || gotStatus != models.StatusActive {
		t.Errorf("expected sub_9 set active, got %q %q", gotSubID, gotStatus)
	}
	published := pub.published()
	if len(published) != 1 || published[0].Type != events.EventPaymentActivated {
		t.Fatalf("expected one payment.activated event, got %+v", published)
	}
	if published[0].SubscriptionID != "sub_9" {
		t.Errorf("expected subscription id on the event, got %+v", published[0])
	}
}

func TestProcessSameEventTwiceLeavesStateUnchanged(t *testing.T) {
	statuses := map[string]string{}
	orderRepo := &mockOrderRepo{
		setStatusByOrderIDFn: func(_ context.Context, orderID, status string) error {
			statuses[orderID] = status
			return nil
		},
	}
	svc := NewWebhookService(orderRepo, &recordingPublisher{}, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "order_abc"}}}
	}`)
	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Fatalf("first delivery returned error: %v", err)
	}

	snapshot := map[string]string{}
	for k, v := range statuses {
		snapshot[k] = v
	}

	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Fatalf("redelivery returned error: %v", err)
	}

	if len(statuses) != len(snapshot) {
		t.Fatalf("expected redelivery to touch no new records, got %v", statuses)
	}
	for k, v := range snapshot {
		if statuses[k] != v {
			t.Errorf("expected status of %q unchanged after redelivery, got %q want %q", k, statuses[k], v)
		}
	}
	if statuses["order_abc"] != models.StatusActive {
		t.Errorf("expected order_abc active, got %q", statuses["order_abc"])
	}
}

func TestProcessAcknowledgesUnknownEvents(t *testing.T) {
	orderRepo := &mockOrderRepo{
		setStatusByOrderIDFn: func(context.Context, string, string) error {
			t.Fatal("no write may happen for an unknown event")
			return nil
		},
	}
	svc := NewWebhookService(orderRepo, &recordingPublisher{}, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{"event": "refund.processed"}`)
	if err := svc.Process(context.Background(), body, sig); err != nil {
		t.Errorf("expected unknown event to be acknowledged, got %v", err)
	}
}

func TestProcessRejectsEventWithoutOrderID(t *testing.T) {
	svc := NewWebhookService(&mockOrderRepo{}, &recordingPublisher{}, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{"event": "payment.captured", "payload": {}}`)
	if err := svc.Process(context.Background(), body, sig); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	svc := NewWebhookService(&mockOrderRepo{}, &recordingPublisher{}, testWebhookSecret, zap.NewNop())

	body, sig := signedBody(t, `{not json`)
	if err := svc.Process(context.Background(), body, sig); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
