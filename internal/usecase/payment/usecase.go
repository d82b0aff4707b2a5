package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/metrics"
	paymentdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/payment"
	"github.com/google/uuid"
)

// CashbackCreator is the slice of the cashback engine the payment flow
// needs. Declared here so the dependency points from cashback to
// payment, not the other way around.
type CashbackCreator interface {
	CreateForPayment(ctx context.Context, repos domain.RepoProvider, payment *domain.Payment) error
}

type PaymentUsecase interface {
	CreatePaymentIn(ctx context.Context, repos domain.RepoProvider, order *domain.Order, method domain.PaymentMethod) (*domain.Payment, error)
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	UpdatePaymentStatus(ctx context.Context, paymentID string, to domain.PaymentStatus, failureReason string) error
	// UpdatePaymentStatusIn performs the transition with the caller's
	// repositories so order-side flows can drive it inside their own
	// transaction.
	UpdatePaymentStatusIn(ctx context.Context, repos domain.RepoProvider, payment *domain.Payment, to domain.PaymentStatus, failureReason string) error
	// FailActivePayment fails the order's PENDING payment if one exists.
	FailActivePayment(ctx context.Context, repos domain.RepoProvider, orderID, reason string) error

	HandleGatewayWebhook(ctx context.Context, notification *paymentdto.GatewayNotification) error
	ExpirePendingPayments(ctx context.Context, limit int) (*paymentdto.SweepResult, error)
}

type DefaultPaymentUsecase struct {
	Uow       domain.UnitOfWork
	Cashback  CashbackCreator
	Gateway   domain.PaymentGateway
	Publisher domain.EventPublisher
	Metrics   *metrics.OrderMetrics
}

func NewDefaultPaymentUsecase(
	uow domain.UnitOfWork,
	cashback CashbackCreator,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	orderMetrics *metrics.OrderMetrics,
) *DefaultPaymentUsecase {
	return &DefaultPaymentUsecase{
		Uow:       uow,
		Cashback:  cashback,
		Gateway:   gateway,
		Publisher: publisher,
		Metrics:   orderMetrics,
	}
}

// CreatePaymentIn persists the PENDING payment for a freshly placed
// order, with an expiry deadline derived from the method.
func (uc *DefaultPaymentUsecase) CreatePaymentIn(ctx context.Context, repos domain.RepoProvider, order *domain.Order, method domain.PaymentMethod) (*domain.Payment, error) {
	now := time.Now()
	payment := &domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		Currency:  "VND",
		Method:    method,
		Status:    domain.PaymentStatusPending,
		ExpiredAt: domain.PaymentExpiry(method, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (uc *DefaultPaymentUsecase) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return uc.Uow.Payments().GetByID(ctx, paymentID)
}

func (uc *DefaultPaymentUsecase) UpdatePaymentStatus(ctx context.Context, paymentID string, to domain.PaymentStatus, failureReason string) error {
	return uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
		payment, err := repos.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		return uc.UpdatePaymentStatusIn(ctx, repos, payment, to, failureReason)
	})
}

// UpdatePaymentStatusIn validates and performs one payment transition.
// On PENDING->PAID it also mirrors the paid state onto the order row and
// creates the cashback; a cashback failure is logged, never propagated,
// so a missing wallet or an identity outage cannot undo a payment.
func (uc *DefaultPaymentUsecase) UpdatePaymentStatusIn(ctx context.Context, repos domain.RepoProvider, payment *domain.Payment, to domain.PaymentStatus, failureReason string) error {
	if !payment.Status.CanTransitionTo(to) {
		return domain.NewValidationError("payment %s cannot go %s -> %s", payment.ID, payment.Status, to)
	}

	now := time.Now()
	if err := repos.Payments().TransitionStatus(ctx, payment.ID, payment.Status, to, now, failureReason); err != nil {
		return err
	}

	if to == domain.PaymentStatusPaid {
		if err := repos.Orders().UpdatePaymentStatus(ctx, payment.OrderID, domain.PaymentStatusPaid, &now); err != nil {
			return err
		}
		paid := *payment
		paid.Status = domain.PaymentStatusPaid
		paid.PaidAt = &now
		if uc.Cashback != nil {
			if err := uc.Cashback.CreateForPayment(ctx, repos, &paid); err != nil {
				slog.Error("failed to create cashback for payment", "payment_id", payment.ID, "error", err.Error())
			}
		}
	}

	if uc.Metrics != nil {
		uc.Metrics.PaymentTransitionsTotal.WithLabelValues(string(to), string(payment.Method)).Inc()
	}
	uc.publishEvent(payment, to)
	return nil
}

// FailActivePayment fails the order's PENDING payment, if any. A PAID
// payment is left alone; refunds are a separate flow.
func (uc *DefaultPaymentUsecase) FailActivePayment(ctx context.Context, repos domain.RepoProvider, orderID, reason string) error {
	payment, err := repos.Payments().GetActiveByOrderID(ctx, orderID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil
	}
	return uc.UpdatePaymentStatusIn(ctx, repos, payment, domain.PaymentStatusFailed, reason)
}

func (uc *DefaultPaymentUsecase) publishEvent(payment *domain.Payment, status domain.PaymentStatus) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.PaymentEvent) {
		value, err := json.Marshal(event)
		if err != nil {
			return
		}
		msg := domain.Message{Key: []byte(event.OrderID), Value: value}
		if err := uc.Publisher.Publish(domain.TopicPaymentEvents, msg); err != nil {
			slog.Error("failed to publish payment event", "payment_id", event.PaymentID, "error", err.Error())
		}
	}(domain.PaymentEvent{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Status:    string(status),
		Method:    string(payment.Method),
		Amount:    payment.Amount,
	})
}
