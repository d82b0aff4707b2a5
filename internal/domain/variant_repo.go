package domain

import "context"

// VariantRepository is the stock ledger plus the variant lookup needed
// to build line-item snapshots. Stock mutations are batched and must run
// inside the caller's transaction.
type VariantRepository interface {
	GetByID(ctx context.Context, variantID string) (*Variant, error)

	// DecrementStockBatch applies all decrements or none: any variant
	// with insufficient stock yields InsufficientStockError, which
	// aborts the surrounding transaction.
	DecrementStockBatch(ctx context.Context, updates []StockUpdate) error
	RestoreStockBatch(ctx context.Context, updates []StockUpdate) error
}
