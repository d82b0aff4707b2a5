package domain

import (
	"context"
	"time"
)

type CashbackRepository interface {
	// Create persists a new cashback. Returns ErrAlreadyExists when a
	// cashback for the same payment is present (unique payment_id).
	Create(ctx context.Context, cashback *Cashback) error
	GetByID(ctx context.Context, cashbackID string) (*Cashback, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Cashback, error)

	// MarkProcessing moves PENDING -> PROCESSING, guarded; the durable
	// hop that makes a crash mid-submission observable.
	MarkProcessing(ctx context.Context, cashbackID string) error
	MarkCompleted(ctx context.Context, cashbackID, txHash string, blockNumber int64) error
	// MarkFailed records the failure reason and increments retry_count.
	MarkFailed(ctx context.Context, cashbackID, reason string) error
	// ResetForRetry moves FAILED back to PENDING, guarded.
	ResetForRetry(ctx context.Context, cashbackID string) error
	MarkCancelled(ctx context.Context, cashbackID string) error

	FindPendingEligible(ctx context.Context, now time.Time, limit int) ([]*Cashback, error)
	FindFailedRetryable(ctx context.Context, maxRetries, limit int) ([]*Cashback, error)
	FindExpired(ctx context.Context, now time.Time) ([]*Cashback, error)
}
