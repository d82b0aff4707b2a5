package domain

import "context"

type CartRepository interface {
	FindCartWithItems(ctx context.Context, userID string) (*CartSnapshot, error)
	ClearCart(ctx context.Context, cartID string) error
}
