package domain

import "time"

type CashbackStatus string

const (
	CashbackStatusPending    CashbackStatus = "PENDING"
	CashbackStatusProcessing CashbackStatus = "PROCESSING"
	CashbackStatusCompleted  CashbackStatus = "COMPLETED"
	CashbackStatusFailed     CashbackStatus = "FAILED"
	CashbackStatusCancelled  CashbackStatus = "CANCELLED"
)

// Cashback is a blockchain-settled reward tied 1:1 to a successful
// payment. The settlement window is [EligibleAt, ExpiresAt].
type Cashback struct {
	ID            string
	PaymentID     string
	UserID        string
	OrderID       string
	Amount        float64
	Percentage    float64
	Currency      string
	WalletAddress string
	Status        CashbackStatus
	EligibleAt    time.Time
	ExpiresAt     time.Time
	RetryCount    int
	TxHash        string
	BlockNumber   int64
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Cashback) Eligible(now time.Time) bool {
	return !now.Before(c.EligibleAt)
}

func (c *Cashback) WindowClosed(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
