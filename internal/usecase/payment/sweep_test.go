package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirePendingPayments(t *testing.T) {
	f := newFixture(t)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	f.store.Orders["order-1"] = &domain.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: domain.PaymentStatusPending}
	f.store.Payments["expired-1"] = &domain.Payment{
		ID: "expired-1", OrderID: "order-1", Amount: 1000,
		Method: domain.PaymentMethodEWallet, Status: domain.PaymentStatusPending, ExpiredAt: &past,
	}
	f.store.Payments["alive-1"] = &domain.Payment{
		ID: "alive-1", OrderID: "order-2", Amount: 1000,
		Method: domain.PaymentMethodEWallet, Status: domain.PaymentStatusPending, ExpiredAt: &future,
	}
	f.store.Payments["cod-1"] = &domain.Payment{
		ID: "cod-1", OrderID: "order-3", Amount: 1000,
		Method: domain.PaymentMethodCOD, Status: domain.PaymentStatusPending,
	}

	result, err := f.payments.ExpirePendingPayments(context.Background(), 50)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Expired)
	assert.Empty(t, result.Errors)

	assert.Equal(t, domain.PaymentStatusFailed, f.store.Payments["expired-1"].Status)
	assert.Equal(t, "payment expired", f.store.Payments["expired-1"].FailureReason)
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments["alive-1"].Status)
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments["cod-1"].Status, "COD never expires")
}

func TestGuardedTransitionRejectsStaleWriter(t *testing.T) {
	f := newFixture(t)

	paidAt := time.Now()
	f.store.Orders["order-1"] = &domain.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: domain.PaymentStatusPaid}
	f.store.Payments["payment-1"] = &domain.Payment{
		ID: "payment-1", OrderID: "order-1", Amount: 1000,
		Method: domain.PaymentMethodEWallet, Status: domain.PaymentStatusPaid, PaidAt: &paidAt,
	}

	// A sweep worker still holding the PENDING snapshot after a webhook
	// settled the payment.
	stale := &domain.Payment{
		ID: "payment-1", OrderID: "order-1", Amount: 1000,
		Method: domain.PaymentMethodEWallet, Status: domain.PaymentStatusPending,
	}
	err := f.uow.Execute(context.Background(), func(ctx context.Context, repos domain.RepoProvider) error {
		return f.payments.UpdatePaymentStatusIn(ctx, repos, stale, domain.PaymentStatusFailed, "payment expired")
	})
	require.ErrorIs(t, err, domain.ErrStaleTransition)
	assert.Equal(t, domain.PaymentStatusPaid, f.store.Payments["payment-1"].Status)
}
