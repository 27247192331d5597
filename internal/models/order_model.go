package models

import "time"

// Order is a payment order record in the subscriptions collection. The
// Razorpay order id doubles as the Firestore document ID, which makes every
// mutation an idempotent merge on a stable key.
//
// The synchronous verification path and the asynchronous webhook path both
// write these records; whichever lands last wins on the status field.
type Order struct {
	ID                    string    `json:"id" firestore:"-"`
	OrderID               string    `json:"orderId" firestore:"orderId"`
	UserID                string    `json:"userId,omitempty" firestore:"userId"`
	PlanID                string    `json:"planId" firestore:"planId"`
	Status                string    `json:"status" firestore:"status"`
	PaymentID             string    `json:"paymentId,omitempty" firestore:"paymentId"`
	Signature             string    `json:"-" firestore:"signature"`
	GatewaySubscriptionID string    `json:"gatewaySubscriptionId,omitempty" firestore:"gatewaySubscriptionId"`
	CreatedAt             time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt" firestore:"updatedAt"`
}
