package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/mocks"
	cashbackuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/cashback"
	paymentdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *mocks.Store
	uow      *mocks.FakeUnitOfWork
	ledger   *mocks.FakeLedger
	gateway  *mocks.FakeGateway
	payments *DefaultPaymentUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	uow := mocks.NewFakeUnitOfWork(store)
	identity := &mocks.FakeIdentity{
		Users: map[string]*domain.User{
			"buyer-1": {ID: "buyer-1", Role: domain.RoleBuyer, WalletAddress: "0xbuyerwallet"},
		},
	}
	ledger := &mocks.FakeLedger{}
	gateway := &mocks.FakeGateway{}

	cashbacks := cashbackuc.NewDefaultCashbackUsecase(uow, identity, ledger, nil, nil, cashbackuc.Policy{
		Percentage:  1.0,
		ClaimWindow: 30 * 24 * time.Hour,
		Currency:    "VND",
	})
	payments := NewDefaultPaymentUsecase(uow, cashbacks, gateway, nil, nil)

	return &fixture{store: store, uow: uow, ledger: ledger, gateway: gateway, payments: payments}
}

// seedPayment stores an order and a PENDING payment for it, already
// bound to gateway transaction tx-1.
func (f *fixture) seedPayment(expiredAt *time.Time) (*domain.Order, *domain.Payment) {
	order := &domain.Order{
		ID:            "order-1",
		OrderNumber:   "ORD-20260829-TEST0001",
		BuyerID:       "buyer-1",
		ShopID:        "shop-1",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   310000,
		CreatedAt:     time.Now(),
	}
	payment := &domain.Payment{
		ID:            "payment-1",
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Currency:      "VND",
		Method:        domain.PaymentMethodEWallet,
		Status:        domain.PaymentStatusPending,
		TransactionID: "tx-1",
		ExpiredAt:     expiredAt,
		CreatedAt:     time.Now(),
	}
	f.store.Orders[order.ID] = order
	f.store.Payments[payment.ID] = payment
	return order, payment
}

func notification(status string) *paymentdto.GatewayNotification {
	return &paymentdto.GatewayNotification{
		TransactionID:     "tx-1",
		OrderID:           "ORD-20260829-TEST0001",
		TransactionStatus: status,
		StatusCode:        "200",
		GrossAmount:       "310000.00",
		SignatureKey:      "valid",
	}
}

func TestWebhookSettlementMarksPaid(t *testing.T) {
	f := newFixture(t)
	order, payment := f.seedPayment(nil)

	err := f.payments.HandleGatewayWebhook(context.Background(), notification("settlement"))
	require.NoError(t, err)

	stored := f.store.Payments[payment.ID]
	assert.Equal(t, domain.PaymentStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, domain.PaymentStatusPaid, f.store.Orders[order.ID].PaymentStatus)
	assert.NotEmpty(t, stored.GatewayResponse)

	require.Len(t, f.store.Cashbacks, 1)
	for _, cashback := range f.store.Cashbacks {
		assert.Equal(t, domain.CashbackStatusPending, cashback.Status)
		assert.Equal(t, payment.ID, cashback.PaymentID)
	}
}

func TestWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, payment := f.seedPayment(nil)
	ctx := context.Background()

	require.NoError(t, f.payments.HandleGatewayWebhook(ctx, notification("settlement")))
	firstPaidAt := *f.store.Payments[payment.ID].PaidAt

	require.NoError(t, f.payments.HandleGatewayWebhook(ctx, notification("settlement")),
		"redelivered success webhook must be acknowledged")

	assert.Equal(t, firstPaidAt, *f.store.Payments[payment.ID].PaidAt)
	assert.Len(t, f.store.Cashbacks, 1, "no second cashback")
}

func TestWebhookInvalidSignature(t *testing.T) {
	f := newFixture(t)
	f.seedPayment(nil)

	n := notification("settlement")
	n.SignatureKey = "forged"
	err := f.payments.HandleGatewayWebhook(context.Background(), n)
	assert.True(t, domain.IsForbidden(err))
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments["payment-1"].Status)
}

func TestWebhookUnknownTransaction(t *testing.T) {
	f := newFixture(t)
	f.seedPayment(nil)

	n := notification("settlement")
	n.TransactionID = "tx-unknown"
	err := f.payments.HandleGatewayWebhook(context.Background(), n)
	assert.True(t, domain.IsNotFound(err))
}

func TestWebhookExpireFailsPendingPayment(t *testing.T) {
	f := newFixture(t)
	_, payment := f.seedPayment(nil)

	require.NoError(t, f.payments.HandleGatewayWebhook(context.Background(), notification("expire")))

	stored := f.store.Payments[payment.ID]
	assert.Equal(t, domain.PaymentStatusFailed, stored.Status)
	assert.Equal(t, "gateway: expire", stored.FailureReason)
	require.NotNil(t, stored.FailedAt)
	assert.Empty(t, f.store.Cashbacks)
}

func TestWebhookExpireAfterPaidIgnored(t *testing.T) {
	f := newFixture(t)
	_, payment := f.seedPayment(nil)
	ctx := context.Background()

	require.NoError(t, f.payments.HandleGatewayWebhook(ctx, notification("settlement")))
	require.NoError(t, f.payments.HandleGatewayWebhook(ctx, notification("expire")),
		"late expire on a settled payment is acknowledged, not applied")

	assert.Equal(t, domain.PaymentStatusPaid, f.store.Payments[payment.ID].Status)
}

func TestWebhookPendingStatusIsNoOp(t *testing.T) {
	f := newFixture(t)
	_, payment := f.seedPayment(nil)

	require.NoError(t, f.payments.HandleGatewayWebhook(context.Background(), notification("pending")))
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments[payment.ID].Status)
}

func TestWebhookCaptureChallengeHeld(t *testing.T) {
	f := newFixture(t)
	_, payment := f.seedPayment(nil)

	n := notification("capture")
	n.FraudStatus = "challenge"
	require.NoError(t, f.payments.HandleGatewayWebhook(context.Background(), n))
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments[payment.ID].Status)
}
