package models

import (
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

type PaymentModel struct {
	ID              string               `gorm:"primaryKey;type:uuid"`
	OrderID         string               `gorm:"type:uuid;index:idx_payments_order"`
	Amount          float64              `gorm:"not null"`
	Currency        string               `gorm:"not null"`
	Method          domain.PaymentMethod `gorm:"not null"`
	Status          domain.PaymentStatus `gorm:"index:idx_payments_status_expired"`
	TransactionID   *string              `gorm:"uniqueIndex:idx_payments_transaction_id"`
	GatewayResponse string               `gorm:"type:text"`
	ExpiredAt       *time.Time           `gorm:"index:idx_payments_status_expired"`
	PaidAt          *time.Time
	FailedAt        *time.Time
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
