package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	// Create persists the order and all its items in one write.
	Create(ctx context.Context, order *Order, items []*OrderItem) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetWithItems(ctx context.Context, orderID string) (*OrderWithItems, error)
	GetItems(ctx context.Context, orderID string) ([]*OrderItem, error)

	// TransitionStatus updates status and the matching timestamp column,
	// guarded by the expected current status. Returns ErrStaleTransition
	// when another writer moved the order first.
	TransitionStatus(ctx context.Context, orderID string, from, to OrderStatus, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus, paidAt *time.Time) error
	AppendStatusHistory(ctx context.Context, entry *OrderStatusHistory) error

	ListByBuyer(ctx context.Context, buyerID string, page, limit int) ([]*OrderSummary, int64, error)
	ListByShop(ctx context.Context, shopID string, page, limit int) ([]*OrderSummary, int64, error)
}
