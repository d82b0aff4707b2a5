package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/metrics"
	cashbackdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/cashback"
	"github.com/google/uuid"
)

type CashbackUsecase interface {
	// CreateForPayment creates the pending reward for a freshly paid
	// payment. Runs inside the caller's transaction via repos.
	CreateForPayment(ctx context.Context, repos domain.RepoProvider, payment *domain.Payment) error

	ProcessCashback(ctx context.Context, cashbackID string) (*cashbackdto.SubmissionResult, error)
	ProcessPendingCashbacks(ctx context.Context, limit int) (*cashbackdto.BatchResult, error)
	RetryFailedCashbacks(ctx context.Context, maxRetries int) (*cashbackdto.BatchResult, error)
	HandleExpiredCashbacks(ctx context.Context) (int, error)

	ClaimCashback(ctx context.Context, actor domain.Actor, cashbackID string) (string, error)
	GetCashbackByID(ctx context.Context, cashbackID string) (*domain.Cashback, error)
}

// Policy bounds reward computation and the settlement window.
type Policy struct {
	Percentage    float64
	EligibleDelay time.Duration
	ClaimWindow   time.Duration
	Currency      string
}

type DefaultCashbackUsecase struct {
	Uow       domain.UnitOfWork
	Identity  domain.IdentityProvider
	Ledger    domain.LedgerClient
	Publisher domain.EventPublisher
	Metrics   *metrics.OrderMetrics
	Policy    Policy
}

func NewDefaultCashbackUsecase(
	uow domain.UnitOfWork,
	identity domain.IdentityProvider,
	ledger domain.LedgerClient,
	publisher domain.EventPublisher,
	orderMetrics *metrics.OrderMetrics,
	policy Policy,
) *DefaultCashbackUsecase {
	return &DefaultCashbackUsecase{
		Uow:       uow,
		Identity:  identity,
		Ledger:    ledger,
		Publisher: publisher,
		Metrics:   orderMetrics,
		Policy:    policy,
	}
}

// CreateForPayment creates at most one cashback per payment. Users
// without a registered wallet are skipped silently. A cashback that
// already exists for the payment makes this a no-op, so a duplicate
// PENDING->PAID race cannot double-create.
func (uc *DefaultCashbackUsecase) CreateForPayment(ctx context.Context, repos domain.RepoProvider, payment *domain.Payment) error {
	order, err := repos.Orders().GetByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	user, err := uc.Identity.GetUser(ctx, order.BuyerID)
	if err != nil {
		return err
	}
	if user.WalletAddress == "" {
		slog.Info("cashback skipped: no wallet registered", "user_id", order.BuyerID, "payment_id", payment.ID)
		return nil
	}

	if _, err := repos.Cashbacks().GetByPaymentID(ctx, payment.ID); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return err
	}

	now := time.Now()
	cashback := &domain.Cashback{
		ID:            uuid.NewString(),
		PaymentID:     payment.ID,
		UserID:        order.BuyerID,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount * uc.Policy.Percentage / 100,
		Percentage:    uc.Policy.Percentage,
		Currency:      uc.Policy.Currency,
		WalletAddress: user.WalletAddress,
		Status:        domain.CashbackStatusPending,
		EligibleAt:    now.Add(uc.Policy.EligibleDelay),
		ExpiresAt:     now.Add(uc.Policy.ClaimWindow),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := repos.Cashbacks().Create(ctx, cashback); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	uc.publishEvent(cashback)
	return nil
}

func (uc *DefaultCashbackUsecase) GetCashbackByID(ctx context.Context, cashbackID string) (*domain.Cashback, error) {
	return uc.Uow.Cashbacks().GetByID(ctx, cashbackID)
}

func (uc *DefaultCashbackUsecase) publishEvent(cashback *domain.Cashback) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.CashbackEvent) {
		value, err := json.Marshal(event)
		if err != nil {
			return
		}
		msg := domain.Message{Key: []byte(event.UserID), Value: value}
		if err := uc.Publisher.Publish(domain.TopicCashbackEvents, msg); err != nil {
			slog.Error("failed to publish cashback event", "cashback_id", event.CashbackID, "error", err.Error())
		}
	}(domain.CashbackEvent{
		CashbackID: cashback.ID,
		PaymentID:  cashback.PaymentID,
		UserID:     cashback.UserID,
		Status:     string(cashback.Status),
		Amount:     cashback.Amount,
		TxHash:     cashback.TxHash,
	})
}
