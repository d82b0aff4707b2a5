package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *mocks.Store
	uow       *mocks.FakeUnitOfWork
	identity  *mocks.FakeIdentity
	ledger    *mocks.FakeLedger
	cashbacks *DefaultCashbackUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	uow := mocks.NewFakeUnitOfWork(store)
	identity := &mocks.FakeIdentity{
		Users: map[string]*domain.User{
			"buyer-1":   {ID: "buyer-1", Role: domain.RoleBuyer, WalletAddress: "0xbuyerwallet"},
			"no-wallet": {ID: "no-wallet", Role: domain.RoleBuyer},
		},
	}
	ledger := &mocks.FakeLedger{}

	cashbacks := NewDefaultCashbackUsecase(uow, identity, ledger, nil, nil, Policy{
		Percentage:  1.0,
		ClaimWindow: 30 * 24 * time.Hour,
		Currency:    "VND",
	})
	return &fixture{store: store, uow: uow, identity: identity, ledger: ledger, cashbacks: cashbacks}
}

func (f *fixture) seedPaidOrder(buyer string) *domain.Payment {
	order := &domain.Order{ID: "order-1", BuyerID: buyer, ShopID: "shop-1", TotalAmount: 310000}
	paidAt := time.Now()
	payment := &domain.Payment{
		ID: "payment-1", OrderID: order.ID, Amount: 310000, Currency: "VND",
		Method: domain.PaymentMethodEWallet, Status: domain.PaymentStatusPaid, PaidAt: &paidAt,
	}
	f.store.Orders[order.ID] = order
	f.store.Payments[payment.ID] = payment
	return payment
}

func (f *fixture) seedCashback(status domain.CashbackStatus, eligibleAt, expiresAt time.Time) *domain.Cashback {
	cashback := &domain.Cashback{
		ID: "cashback-1", PaymentID: "payment-1", UserID: "buyer-1", OrderID: "order-1",
		Amount: 3100, Percentage: 1.0, Currency: "VND", WalletAddress: "0xbuyerwallet",
		Status: status, EligibleAt: eligibleAt, ExpiresAt: expiresAt,
	}
	f.store.Cashbacks[cashback.ID] = cashback
	return cashback
}

func TestCreateForPaymentExactlyOnce(t *testing.T) {
	f := newFixture(t)
	payment := f.seedPaidOrder("buyer-1")
	ctx := context.Background()

	require.NoError(t, f.cashbacks.CreateForPayment(ctx, f.uow, payment))
	require.Len(t, f.store.Cashbacks, 1)
	for _, cashback := range f.store.Cashbacks {
		assert.Equal(t, 3100.0, cashback.Amount)
		assert.Equal(t, domain.CashbackStatusPending, cashback.Status)
		assert.Equal(t, "0xbuyerwallet", cashback.WalletAddress)
	}

	require.NoError(t, f.cashbacks.CreateForPayment(ctx, f.uow, payment),
		"second creation for the same payment is a no-op")
	assert.Len(t, f.store.Cashbacks, 1)
}

func TestCreateForPaymentSkipsUsersWithoutWallet(t *testing.T) {
	f := newFixture(t)
	payment := f.seedPaidOrder("no-wallet")

	require.NoError(t, f.cashbacks.CreateForPayment(context.Background(), f.uow, payment))
	assert.Empty(t, f.store.Cashbacks)
}

func TestProcessCashbackSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusPending, time.Now().Add(-time.Minute), time.Now().Add(time.Hour))

	result, err := f.cashbacks.ProcessCashback(context.Background(), cashback.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0xabc", result.TxHash)
	assert.Equal(t, int64(1), result.BlockNumber)

	stored := f.store.Cashbacks[cashback.ID]
	assert.Equal(t, domain.CashbackStatusCompleted, stored.Status)
	assert.Equal(t, "0xabc", stored.TxHash)
	assert.Equal(t, 1, f.ledger.Submissions)
	assert.Equal(t, 1, f.ledger.Claims, "auto-claim after settlement")
}

func TestProcessCashbackLedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusPending, time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	f.ledger.SubmitFn = func(wallet string, amount float64) (*domain.LedgerTx, error) {
		return nil, errors.New("ledger down")
	}

	result, err := f.cashbacks.ProcessCashback(context.Background(), cashback.ID)
	require.NoError(t, err, "submission failure is a result, not an error")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "ledger down")

	stored := f.store.Cashbacks[cashback.ID]
	assert.Equal(t, domain.CashbackStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.FailureReason, "ledger down")
}

func TestProcessCashbackUnconfirmedTransaction(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusPending, time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	f.ledger.SubmitFn = func(wallet string, amount float64) (*domain.LedgerTx, error) {
		return &domain.LedgerTx{TxHash: "0xpending", Confirmed: false}, nil
	}
	f.ledger.ValidateFn = func(txHash string) (*domain.LedgerTxStatus, error) {
		return &domain.LedgerTxStatus{Confirmed: false, Status: "pending"}, nil
	}

	result, err := f.cashbacks.ProcessCashback(context.Background(), cashback.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.CashbackStatusFailed, f.store.Cashbacks[cashback.ID].Status)
}

func TestProcessCashbackNotEligibleYet(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusPending, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	_, err := f.cashbacks.ProcessCashback(context.Background(), cashback.ID)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.CashbackStatusPending, f.store.Cashbacks[cashback.ID].Status,
		"validation failure rolls the PROCESSING hop back")
	assert.Equal(t, 0, f.ledger.Submissions)
}

func TestRetryFailedCashbacksRespectsBound(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")

	now := time.Now()
	retryable := f.seedCashback(domain.CashbackStatusFailed, now.Add(-time.Hour), now.Add(time.Hour))
	retryable.RetryCount = 2

	exhausted := &domain.Cashback{
		ID: "cashback-2", PaymentID: "payment-2", UserID: "buyer-1", OrderID: "order-1",
		Amount: 100, Currency: "VND", WalletAddress: "0xbuyerwallet",
		Status: domain.CashbackStatusFailed, RetryCount: 3,
		EligibleAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour),
	}
	f.store.Cashbacks[exhausted.ID] = exhausted

	batch, err := f.cashbacks.RetryFailedCashbacks(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.TotalProcessed)
	assert.Equal(t, 1, batch.Successful)

	assert.Equal(t, domain.CashbackStatusCompleted, f.store.Cashbacks[retryable.ID].Status)
	assert.Equal(t, domain.CashbackStatusFailed, f.store.Cashbacks[exhausted.ID].Status,
		"retry_count at the bound is never retried")
}

func TestProcessPendingCashbacksBatch(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")

	now := time.Now()
	f.seedCashback(domain.CashbackStatusPending, now.Add(-time.Minute), now.Add(time.Hour))
	notYet := &domain.Cashback{
		ID: "cashback-2", PaymentID: "payment-2", UserID: "buyer-1", OrderID: "order-1",
		Amount: 100, Currency: "VND", WalletAddress: "0xbuyerwallet",
		Status: domain.CashbackStatusPending,
		EligibleAt: now.Add(time.Hour), ExpiresAt: now.Add(2 * time.Hour),
	}
	f.store.Cashbacks[notYet.ID] = notYet

	batch, err := f.cashbacks.ProcessPendingCashbacks(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.TotalProcessed)
	assert.Equal(t, 1, batch.Successful)
	assert.Equal(t, domain.CashbackStatusPending, f.store.Cashbacks[notYet.ID].Status)
}

func TestHandleExpiredCashbacks(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")

	now := time.Now()
	f.seedCashback(domain.CashbackStatusPending, now.Add(-2*time.Hour), now.Add(-time.Hour))
	alive := &domain.Cashback{
		ID: "cashback-2", PaymentID: "payment-2", UserID: "buyer-1", OrderID: "order-1",
		Amount: 100, Currency: "VND", WalletAddress: "0xbuyerwallet",
		Status: domain.CashbackStatusPending,
		EligibleAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour),
	}
	f.store.Cashbacks[alive.ID] = alive

	cancelled, err := f.cashbacks.HandleExpiredCashbacks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, domain.CashbackStatusCancelled, f.store.Cashbacks["cashback-1"].Status)
	assert.Equal(t, domain.CashbackStatusPending, f.store.Cashbacks[alive.ID].Status)
}

func TestClaimCashbackAuthorization(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusCompleted, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	cashback.TxHash = "0xabc"
	ctx := context.Background()

	owner := domain.Actor{UserID: "buyer-1", Role: domain.RoleBuyer}
	txHash, err := f.cashbacks.ClaimCashback(ctx, owner, cashback.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xclaim", txHash)

	stranger := domain.Actor{UserID: "someone-else", Role: domain.RoleBuyer}
	_, err = f.cashbacks.ClaimCashback(ctx, stranger, cashback.ID)
	assert.True(t, domain.IsForbidden(err))

	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleSystemAdmin}
	_, err = f.cashbacks.ClaimCashback(ctx, admin, cashback.ID)
	assert.NoError(t, err)
}

func TestClaimCashbackRequiresCompleted(t *testing.T) {
	f := newFixture(t)
	f.seedPaidOrder("buyer-1")
	cashback := f.seedCashback(domain.CashbackStatusPending, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	owner := domain.Actor{UserID: "buyer-1", Role: domain.RoleBuyer}
	_, err := f.cashbacks.ClaimCashback(context.Background(), owner, cashback.ID)
	assert.True(t, domain.IsValidation(err))
}
