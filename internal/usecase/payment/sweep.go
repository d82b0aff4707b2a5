package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	paymentdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/payment"
)

// ExpirePendingPayments fails PENDING payments past their deadline.
// Each payment moves in its own transaction so one bad row cannot hold
// up the sweep. Guarded transitions make a concurrent webhook win
// harmless.
func (uc *DefaultPaymentUsecase) ExpirePendingPayments(ctx context.Context, limit int) (*paymentdto.SweepResult, error) {
	expired, err := uc.Uow.Payments().FindExpired(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}

	result := &paymentdto.SweepResult{Scanned: len(expired)}
	for _, payment := range expired {
		err := uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
			return uc.UpdatePaymentStatusIn(ctx, repos, payment, domain.PaymentStatusFailed, "payment expired")
		})
		if err != nil {
			// A webhook settling the payment between the read and the
			// guarded write is not a sweep failure.
			if errors.Is(err, domain.ErrStaleTransition) {
				continue
			}
			result.Errors = append(result.Errors, payment.ID+": "+err.Error())
			continue
		}
		result.Expired++
	}
	return result, nil
}
