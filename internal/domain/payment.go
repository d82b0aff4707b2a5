package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodEWallet, PaymentMethodCreditCard:
		return true
	}
	return false
}

// PaymentExpiry returns the expiry deadline for a freshly created payment.
// COD never expires.
func PaymentExpiry(method PaymentMethod, now time.Time) *time.Time {
	var ttl time.Duration
	switch method {
	case PaymentMethodCOD:
		return nil
	case PaymentMethodBankTransfer:
		ttl = 60 * time.Minute
	default:
		ttl = 15 * time.Minute
	}
	at := now.Add(ttl)
	return &at
}

// Payment tracks money movement for one order. An order may accumulate
// several payment rows over failed attempts, but at most one of them is
// PENDING or PAID at a time.
type Payment struct {
	ID              string
	OrderID         string
	Amount          float64
	Currency        string
	Method          PaymentMethod
	Status          PaymentStatus
	TransactionID   string
	GatewayResponse string
	ExpiredAt       *time.Time
	PaidAt          *time.Time
	FailedAt        *time.Time
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Payment) Expired(now time.Time) bool {
	return p.ExpiredAt != nil && p.ExpiredAt.Before(now)
}
