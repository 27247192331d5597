package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naveensing575/next-pay-flow/internal/models"
)

// Payment order records live in the "subscriptions" collection, keyed by the
// gateway order id.
const ordersCollection = "subscriptions"

// firestoreOrderRepository implements OrderRepository using Firestore.
type firestoreOrderRepository struct {
	client *firestore.Client
}

// NewFirestoreOrderRepository creates a new Firestore-backed OrderRepository.
func NewFirestoreOrderRepository(client *firestore.Client) OrderRepository {
	if client == nil {
		panic("Firestore client is not initialized for OrderRepository")
	}
	return &firestoreOrderRepository{client: client}
}

// Create persists a new order record with the gateway order id as document ID.
func (r *firestoreOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" {
		return errors.New("order ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(ordersCollection).Doc(order.OrderID).Create(ctx, order)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("order %q: %w", order.OrderID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create order %q: %w", order.OrderID, err)
	}
	return nil
}

// GetByID retrieves an order record by the gateway order id.
func (r *firestoreOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, errors.New("orderID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(ordersCollection).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("order %q: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %q: %w", orderID, err)
	}

	var order models.Order
	if err := docSnap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order %q: %w", orderID, err)
	}
	order.ID = docSnap.Ref.ID

	return &order, nil
}

// Upsert merges the given record into the document for order.OrderID. Set
// with MergeAll creates the document when missing and rewrites only the
// provided fields when present, so retried verifications converge on one
// record instead of erroring or duplicating.
func (r *firestoreOrderRepository) Upsert(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" {
		return errors.New("order ID cannot be empty for Upsert operation")
	}
	fields := map[string]interface{}{
		"orderId":   order.OrderID,
		"userId":    order.UserID,
		"planId":    order.PlanID,
		"status":    order.Status,
		"updatedAt": order.UpdatedAt,
	}
	if order.PaymentID != "" {
		fields["paymentId"] = order.PaymentID
	}
	if order.Signature != "" {
		fields["signature"] = order.Signature
	}
	if order.GatewaySubscriptionID != "" {
		fields["gatewaySubscriptionId"] = order.GatewaySubscriptionID
	}
	_, err := r.client.Collection(ordersCollection).Doc(order.OrderID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to upsert order %q: %w", order.OrderID, err)
	}
	return nil
}

// SetStatusByOrderID merge-sets the status for the given order id. The write
// is a plain idempotent set keyed by a stable id: applying the same webhook
// event twice leaves the record unchanged after the first application.
func (r *firestoreOrderRepository) SetStatusByOrderID(ctx context.Context, orderID, status string) error {
	if orderID == "" {
		return errors.New("orderID cannot be empty for SetStatusByOrderID operation")
	}
	_, err := r.client.Collection(ordersCollection).Doc(orderID).Set(ctx, map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to set status for order %q: %w", orderID, err)
	}
	return nil
}

// SetStatusBySubscriptionID resolves order records carrying the given gateway
// subscription id and merge-sets their status. Periodic billing events key on
// the subscription, not an order.
func (r *firestoreOrderRepository) SetStatusBySubscriptionID(ctx context.Context, subscriptionID, orderStatus string) error {
	if subscriptionID == "" {
		return errors.New("subscriptionID cannot be empty for SetStatusBySubscriptionID operation")
	}
	iter := r.client.Collection(ordersCollection).
		Where("gatewaySubscriptionId", "==", subscriptionID).
		Documents(ctx)
	defer iter.Stop()

	now := time.Now().UTC()
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query orders by subscription %q: %w", subscriptionID, err)
		}
		if _, err := docSnap.Ref.Set(ctx, map[string]interface{}{
			"status":    orderStatus,
			"updatedAt": now,
		}, firestore.MergeAll); err != nil {
			return fmt.Errorf("failed to set status for order %q: %w", docSnap.Ref.ID, err)
		}
	}
	return nil
}

// ListByUserID returns the user's order records, newest first.
func (r *firestoreOrderRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUserID operation")
	}
	iter := r.client.Collection(ordersCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var orders []*models.Order
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for user %q: %w", userID, err)
		}
		var order models.Order
		if err := docSnap.DataTo(&order); err != nil {
			return nil, fmt.Errorf("failed to decode order %q: %w", docSnap.Ref.ID, err)
		}
		order.ID = docSnap.Ref.ID
		orders = append(orders, &order)
	}
	return orders, nil
}

// DeleteByUserID removes all order records owned by the user. Part of the
// account-deletion cascade.
func (r *firestoreOrderRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for DeleteByUserID operation")
	}
	iter := r.client.Collection(ordersCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query orders for user %q: %w", userID, err)
		}
		if _, err := bw.Delete(docSnap.Ref); err != nil {
			return fmt.Errorf("failed to queue delete for order %q: %w", docSnap.Ref.ID, err)
		}
	}
	bw.End()
	return nil
}
