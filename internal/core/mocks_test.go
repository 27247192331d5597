package core

import (
	"context"
	"sync"

	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/gateway"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

// mockUserRepo implements db.UserRepository with overridable functions.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *models.User) error
	getByIDFn         func(ctx context.Context, userID string) (*models.User, error)
	updateNameFn      func(ctx context.Context, userID, name string) error
	setSubscriptionFn func(ctx context.Context, userID string, sub models.Subscription) error
	deleteFn          func(ctx context.Context, userID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return m.getByIDFn(ctx, userID)
}

func (m *mockUserRepo) UpdateName(ctx context.Context, userID, name string) error {
	return m.updateNameFn(ctx, userID, name)
}

func (m *mockUserRepo) SetSubscription(ctx context.Context, userID string, sub models.Subscription) error {
	return m.setSubscriptionFn(ctx, userID, sub)
}

func (m *mockUserRepo) Delete(ctx context.Context, userID string) error {
	return m.deleteFn(ctx, userID)
}

// mockOrderRepo implements db.OrderRepository with overridable functions.
type mockOrderRepo struct {
	createFn                    func(ctx context.Context, order *models.Order) error
	getByIDFn                   func(ctx context.Context, orderID string) (*models.Order, error)
	upsertFn                    func(ctx context.Context, order *models.Order) error
	setStatusByOrderIDFn        func(ctx context.Context, orderID, status string) error
	setStatusBySubscriptionIDFn func(ctx context.Context, subscriptionID, status string) error
	listByUserIDFn              func(ctx context.Context, userID string) ([]*models.Order, error)
	deleteByUserIDFn            func(ctx context.Context, userID string) error
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	return m.createFn(ctx, order)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	return m.getByIDFn(ctx, orderID)
}

func (m *mockOrderRepo) Upsert(ctx context.Context, order *models.Order) error {
	return m.upsertFn(ctx, order)
}

func (m *mockOrderRepo) SetStatusByOrderID(ctx context.Context, orderID, status string) error {
	return m.setStatusByOrderIDFn(ctx, orderID, status)
}

func (m *mockOrderRepo) SetStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) error {
	return m.setStatusBySubscriptionIDFn(ctx, subscriptionID, status)
}

func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	return m.listByUserIDFn(ctx, userID)
}

func (m *mockOrderRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

// mockAccountRepo implements db.AccountRepository with overridable functions.
type mockAccountRepo struct {
	linkOnceFn       func(ctx context.Context, link *models.AccountLink) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockAccountRepo) LinkOnce(ctx context.Context, link *models.AccountLink) error {
	return m.linkOnceFn(ctx, link)
}

func (m *mockAccountRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

// mockOrderCreator implements gateway.OrderCreator.
type mockOrderCreator struct {
	createOrderFn func(ctx context.Context, amount int64, currency string) (*gateway.Order, error)
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, amount int64, currency string) (*gateway.Order, error) {
	return m.createOrderFn(ctx, amount, currency)
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}
