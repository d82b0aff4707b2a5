package repository

import (
	"context"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"gorm.io/gorm"
)

// GormUnitOfWork implements domain.UnitOfWork over gorm transactions.
// One instance per logical operation; nested Execute calls on a
// transactional instance reuse the outer transaction instead of opening
// a new one.
type GormUnitOfWork struct {
	db   *gorm.DB
	inTx bool
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos domain.RepoProvider) error) error {
	if u.inTx {
		return fn(ctx, u)
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormUnitOfWork{db: tx, inTx: true}
		return fn(ctx, scoped)
	})
}

func (u *GormUnitOfWork) Orders() domain.OrderRepository {
	return NewDefaultOrderRepository(u.db)
}

func (u *GormUnitOfWork) Payments() domain.PaymentRepository {
	return NewDefaultPaymentRepository(u.db)
}

func (u *GormUnitOfWork) Cashbacks() domain.CashbackRepository {
	return NewDefaultCashbackRepository(u.db)
}

func (u *GormUnitOfWork) Variants() domain.VariantRepository {
	return NewDefaultVariantRepository(u.db)
}

func (u *GormUnitOfWork) Carts() domain.CartRepository {
	return NewDefaultCartRepository(u.db)
}
