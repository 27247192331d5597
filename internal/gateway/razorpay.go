// Package gateway wraps the Razorpay Orders API behind a small interface so
// the payment service can be exercised without network access.
package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the remote order descriptor returned to the client for
// checkout initiation.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderCreator mints orders on the payment gateway.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error)
}

// razorpayGateway implements OrderCreator using the Razorpay SDK.
type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates an OrderCreator backed by the Razorpay API.
func NewRazorpayGateway(keyID, keySecret string) OrderCreator {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder mints a remote order for the given amount in minor currency
// units (paise for INR). The SDK performs its own HTTP call with internal
// timeouts; ctx is accepted for interface symmetry with the repositories.
func (g *razorpayGateway) CreateOrder(_ context.Context, amount int64, currency string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  "receipt_" + uuid.New().String(),
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order create: response missing order id")
	}

	return &Order{ID: id, Amount: amount, Currency: currency}, nil
}
