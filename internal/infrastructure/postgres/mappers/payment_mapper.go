package mappers

import (
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
)

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	var transactionID *string
	if payment.TransactionID != "" {
		transactionID = &payment.TransactionID
	}
	return &models.PaymentModel{
		ID:              payment.ID,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Method:          payment.Method,
		Status:          payment.Status,
		TransactionID:   transactionID,
		GatewayResponse: payment.GatewayResponse,
		ExpiredAt:       payment.ExpiredAt,
		PaidAt:          payment.PaidAt,
		FailedAt:        payment.FailedAt,
		FailureReason:   payment.FailureReason,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	var transactionID string
	if model.TransactionID != nil {
		transactionID = *model.TransactionID
	}
	return &domain.Payment{
		ID:              model.ID,
		OrderID:         model.OrderID,
		Amount:          model.Amount,
		Currency:        model.Currency,
		Method:          model.Method,
		Status:          model.Status,
		TransactionID:   transactionID,
		GatewayResponse: model.GatewayResponse,
		ExpiredAt:       model.ExpiredAt,
		PaidAt:          model.PaidAt,
		FailedAt:        model.FailedAt,
		FailureReason:   model.FailureReason,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
