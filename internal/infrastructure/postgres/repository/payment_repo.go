package repository

import (
	"context"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/mappers"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMPayment(payment)).Error; err != nil {
		return translate("create payment", err)
	}
	return nil
}

func (r *DefaultPaymentRepository) GetByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var paymentModel models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&paymentModel, "id = ?", paymentID).Error; err != nil {
		return nil, notFoundOr("get payment", "payment", paymentID, err)
	}
	return mappers.ToDomainPayment(&paymentModel), nil
}

func (r *DefaultPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var paymentModel models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&paymentModel, "transaction_id = ?", transactionID).Error; err != nil {
		return nil, notFoundOr("get payment by transaction", "payment", transactionID, err)
	}
	return mappers.ToDomainPayment(&paymentModel), nil
}

func (r *DefaultPaymentRepository) GetActiveByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var paymentModel models.PaymentModel
	err := r.DB.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []domain.PaymentStatus{domain.PaymentStatusPending, domain.PaymentStatusPaid}).
		First(&paymentModel).Error
	if err != nil {
		return nil, notFoundOr("get active payment", "payment", orderID, err)
	}
	return mappers.ToDomainPayment(&paymentModel), nil
}

func (r *DefaultPaymentRepository) TransitionStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, at time.Time, failureReason string) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case domain.PaymentStatusPaid:
		updates["paid_at"] = at
	case domain.PaymentStatusFailed:
		updates["failed_at"] = at
		updates["failure_reason"] = failureReason
	}

	res := r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID, from).
		Updates(updates)
	if res.Error != nil {
		return translate("transition payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleTransition
	}
	return nil
}

func (r *DefaultPaymentRepository) SetGatewayInfo(ctx context.Context, paymentID, transactionID, gatewayResponse string) error {
	updates := map[string]interface{}{
		"gateway_response": gatewayResponse,
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	if err := r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Updates(updates).Error; err != nil {
		return translate("set gateway info", err)
	}
	return nil
}

func (r *DefaultPaymentRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	query := r.DB.WithContext(ctx).
		Where("status = ?", domain.PaymentStatusPending).
		Where("expired_at IS NOT NULL AND expired_at < ?", now)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, translate("find expired payments", err)
	}

	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, nil
}
