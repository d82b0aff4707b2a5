package domain

import "context"

// RepoProvider bundles repository handles bound to one transaction
// context. Components receive it from UnitOfWork.Execute and pass it
// down the call chain instead of opening their own transactions.
type RepoProvider interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Cashbacks() CashbackRepository
	Variants() VariantRepository
	Carts() CartRepository
}

// UnitOfWork runs fn inside a database transaction and hands it
// transactionally-scoped repositories. A nested Execute on a provider
// that is already transactional reuses the outer transaction.
type UnitOfWork interface {
	RepoProvider
	Execute(ctx context.Context, fn func(ctx context.Context, repos RepoProvider) error) error
}
