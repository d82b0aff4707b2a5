package repository

import (
	"context"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/mappers"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCashbackRepository struct {
	DB *gorm.DB
}

func NewDefaultCashbackRepository(db *gorm.DB) *DefaultCashbackRepository {
	return &DefaultCashbackRepository{DB: db}
}

func (r *DefaultCashbackRepository) Create(ctx context.Context, cashback *domain.Cashback) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMCashback(cashback)).Error; err != nil {
		return translate("create cashback", err)
	}
	return nil
}

func (r *DefaultCashbackRepository) GetByID(ctx context.Context, cashbackID string) (*domain.Cashback, error) {
	var cashbackModel models.CashbackModel
	if err := r.DB.WithContext(ctx).First(&cashbackModel, "id = ?", cashbackID).Error; err != nil {
		return nil, notFoundOr("get cashback", "cashback", cashbackID, err)
	}
	return mappers.ToDomainCashback(&cashbackModel), nil
}

func (r *DefaultCashbackRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Cashback, error) {
	var cashbackModel models.CashbackModel
	if err := r.DB.WithContext(ctx).First(&cashbackModel, "payment_id = ?", paymentID).Error; err != nil {
		return nil, notFoundOr("get cashback by payment", "cashback", paymentID, err)
	}
	return mappers.ToDomainCashback(&cashbackModel), nil
}

// guardedUpdate applies updates to a cashback only when it is in one of
// the expected statuses.
func (r *DefaultCashbackRepository) guardedUpdate(ctx context.Context, op, cashbackID string, expected []domain.CashbackStatus, updates map[string]interface{}) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CashbackModel{}).
		Where("id = ? AND status IN ?", cashbackID, expected).
		Updates(updates)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleTransition
	}
	return nil
}

func (r *DefaultCashbackRepository) MarkProcessing(ctx context.Context, cashbackID string) error {
	return r.guardedUpdate(ctx, "mark cashback processing", cashbackID,
		[]domain.CashbackStatus{domain.CashbackStatusPending},
		map[string]interface{}{
			"status":     domain.CashbackStatusProcessing,
			"updated_at": time.Now(),
		})
}

func (r *DefaultCashbackRepository) MarkCompleted(ctx context.Context, cashbackID, txHash string, blockNumber int64) error {
	return r.guardedUpdate(ctx, "mark cashback completed", cashbackID,
		[]domain.CashbackStatus{domain.CashbackStatusProcessing},
		map[string]interface{}{
			"status":       domain.CashbackStatusCompleted,
			"tx_hash":      txHash,
			"block_number": blockNumber,
			"updated_at":   time.Now(),
		})
}

func (r *DefaultCashbackRepository) MarkFailed(ctx context.Context, cashbackID, reason string) error {
	return r.guardedUpdate(ctx, "mark cashback failed", cashbackID,
		[]domain.CashbackStatus{domain.CashbackStatusProcessing, domain.CashbackStatusPending},
		map[string]interface{}{
			"status":         domain.CashbackStatusFailed,
			"failure_reason": reason,
			"retry_count":    gorm.Expr("retry_count + 1"),
			"updated_at":     time.Now(),
		})
}

func (r *DefaultCashbackRepository) ResetForRetry(ctx context.Context, cashbackID string) error {
	return r.guardedUpdate(ctx, "reset cashback for retry", cashbackID,
		[]domain.CashbackStatus{domain.CashbackStatusFailed},
		map[string]interface{}{
			"status":         domain.CashbackStatusPending,
			"failure_reason": "",
			"updated_at":     time.Now(),
		})
}

func (r *DefaultCashbackRepository) MarkCancelled(ctx context.Context, cashbackID string) error {
	return r.guardedUpdate(ctx, "mark cashback cancelled", cashbackID,
		[]domain.CashbackStatus{domain.CashbackStatusPending, domain.CashbackStatusProcessing},
		map[string]interface{}{
			"status":     domain.CashbackStatusCancelled,
			"updated_at": time.Now(),
		})
}

func (r *DefaultCashbackRepository) FindPendingEligible(ctx context.Context, now time.Time, limit int) ([]*domain.Cashback, error) {
	var cashbackModels []models.CashbackModel
	query := r.DB.WithContext(ctx).
		Where("status = ?", domain.CashbackStatusPending).
		Where("eligible_at <= ?", now).
		Where("expires_at > ?", now).
		Order("eligible_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cashbackModels).Error; err != nil {
		return nil, translate("find pending cashbacks", err)
	}
	return toDomainCashbacks(cashbackModels), nil
}

func (r *DefaultCashbackRepository) FindFailedRetryable(ctx context.Context, maxRetries, limit int) ([]*domain.Cashback, error) {
	var cashbackModels []models.CashbackModel
	query := r.DB.WithContext(ctx).
		Where("status = ?", domain.CashbackStatusFailed).
		Where("retry_count < ?", maxRetries).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cashbackModels).Error; err != nil {
		return nil, translate("find retryable cashbacks", err)
	}
	return toDomainCashbacks(cashbackModels), nil
}

func (r *DefaultCashbackRepository) FindExpired(ctx context.Context, now time.Time) ([]*domain.Cashback, error) {
	var cashbackModels []models.CashbackModel
	if err := r.DB.WithContext(ctx).
		Where("status IN ?", []domain.CashbackStatus{domain.CashbackStatusPending, domain.CashbackStatusProcessing}).
		Where("expires_at < ?", now).
		Find(&cashbackModels).Error; err != nil {
		return nil, translate("find expired cashbacks", err)
	}
	return toDomainCashbacks(cashbackModels), nil
}

func toDomainCashbacks(cashbackModels []models.CashbackModel) []*domain.Cashback {
	cashbacks := make([]*domain.Cashback, len(cashbackModels))
	for i := range cashbackModels {
		cashbacks[i] = mappers.ToDomainCashback(&cashbackModels[i])
	}
	return cashbacks
}
