package models

import (
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

type CashbackModel struct {
	ID            string                `gorm:"primaryKey;type:uuid"`
	PaymentID     string                `gorm:"type:uuid;uniqueIndex:idx_cashbacks_payment"`
	UserID        string                `gorm:"type:uuid;index:idx_cashbacks_user"`
	OrderID       string                `gorm:"type:uuid"`
	Amount        float64               `gorm:"not null"`
	Percentage    float64               `gorm:"not null"`
	Currency      string                `gorm:"not null"`
	WalletAddress string                `gorm:"not null"`
	Status        domain.CashbackStatus `gorm:"index:idx_cashbacks_status_expires"`
	EligibleAt    time.Time
	ExpiresAt     time.Time `gorm:"index:idx_cashbacks_status_expires"`
	RetryCount    int       `gorm:"default:0"`
	TxHash        string
	BlockNumber   int64
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (CashbackModel) TableName() string {
	return "cashbacks"
}
