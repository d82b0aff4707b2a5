package domain

import (
	"context"
	"time"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, paymentID string) (*Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	// GetActiveByOrderID returns the order's PENDING or PAID payment.
	GetActiveByOrderID(ctx context.Context, orderID string) (*Payment, error)

	// TransitionStatus is guarded by the expected current status and sets
	// paid_at/failed_at depending on the target. Returns
	// ErrStaleTransition on a lost race.
	TransitionStatus(ctx context.Context, paymentID string, from, to PaymentStatus, at time.Time, failureReason string) error
	SetGatewayInfo(ctx context.Context, paymentID, transactionID, gatewayResponse string) error

	FindExpired(ctx context.Context, now time.Time, limit int) ([]*Payment, error)
}
