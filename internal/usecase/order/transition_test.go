package usecase

import (
	"context"
	"testing"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeCOD(t *testing.T, f *fixture) (string, string) {
	t.Helper()
	out, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	require.NoError(t, err)
	return out.Order.ID, out.Payment.ID
}

func TestCODOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, paymentID := placeCOD(t, f)

	ctx := context.Background()
	owner := domain.Actor{UserID: ownerID, Role: domain.RoleShopOwner}
	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleBuyer}

	require.NoError(t, f.orders.TransitionOrderStatus(ctx, owner, orderID, domain.OrderStatusConfirmed, ""))
	require.NoError(t, f.orders.TransitionOrderStatus(ctx, owner, orderID, domain.OrderStatusProcessing, ""))
	require.NoError(t, f.orders.TransitionOrderStatus(ctx, owner, orderID, domain.OrderStatusShipping, ""))
	require.NoError(t, f.orders.TransitionOrderStatus(ctx, owner, orderID, domain.OrderStatusDelivered, ""))

	// Delivery settles the COD payment and spawns the cashback.
	payment := f.store.Payments[paymentID]
	assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, domain.PaymentStatusPaid, f.store.Orders[orderID].PaymentStatus)

	require.Len(t, f.store.Cashbacks, 1)
	for _, cashback := range f.store.Cashbacks {
		assert.Equal(t, domain.CashbackStatusPending, cashback.Status)
		assert.Equal(t, paymentID, cashback.PaymentID)
		assert.Equal(t, payment.Amount*1.0/100, cashback.Amount)
		assert.Equal(t, "0xbuyerwallet", cashback.WalletAddress)
	}

	require.NoError(t, f.orders.TransitionOrderStatus(ctx, buyer, orderID, domain.OrderStatusCompleted, ""))
	assert.Equal(t, domain.OrderStatusCompleted, f.store.Orders[orderID].Status)
	require.NotNil(t, f.store.Orders[orderID].CompletedAt)

	// Every hop is logged.
	assert.Len(t, f.store.History, 5)
}

func TestIllegalTransitionRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, _ := placeCOD(t, f)

	owner := domain.Actor{UserID: ownerID, Role: domain.RoleShopOwner}
	err := f.orders.TransitionOrderStatus(context.Background(), owner, orderID, domain.OrderStatusShipping, "")
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.OrderStatusPending, f.store.Orders[orderID].Status)
	assert.Empty(t, f.store.History)
}

func TestCancelRestoresStockAndFailsPayment(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, paymentID := placeCOD(t, f)

	assert.Equal(t, 3, f.store.Variants[variant1].Stock)

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleBuyer}
	require.NoError(t, f.orders.CancelOrder(context.Background(), buyer, orderID, "changed my mind"))

	assert.Equal(t, domain.OrderStatusCancelled, f.store.Orders[orderID].Status)
	assert.Equal(t, 5, f.store.Variants[variant1].Stock)
	assert.Equal(t, 3, f.store.Variants[variant2].Stock)

	payment := f.store.Payments[paymentID]
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Equal(t, "changed my mind", payment.FailureReason)
}

func TestCancelSurvivesMissingVariant(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, _ := placeCOD(t, f)

	delete(f.store.Variants, variant1)

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleBuyer}
	require.NoError(t, f.orders.CancelOrder(context.Background(), buyer, orderID, ""),
		"a deleted variant must not block cancellation")

	assert.Equal(t, domain.OrderStatusCancelled, f.store.Orders[orderID].Status)
	assert.Equal(t, 3, f.store.Variants[variant2].Stock, "surviving variant restored")
}

func TestTransitionAuthorization(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, _ := placeCOD(t, f)
	ctx := context.Background()

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleBuyer}
	err := f.orders.TransitionOrderStatus(ctx, buyer, orderID, domain.OrderStatusConfirmed, "")
	assert.True(t, domain.IsForbidden(err), "buyer may not confirm")

	stranger := domain.Actor{UserID: "someone-else", Role: domain.RoleBuyer}
	err = f.orders.TransitionOrderStatus(ctx, stranger, orderID, domain.OrderStatusCancelled, "")
	assert.True(t, domain.IsForbidden(err))

	admin := domain.Actor{UserID: adminID, Role: domain.RoleSystemAdmin}
	assert.NoError(t, f.orders.TransitionOrderStatus(ctx, admin, orderID, domain.OrderStatusConfirmed, "manual"))
}

func TestGetOrderAuthorization(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	orderID, _ := placeCOD(t, f)
	ctx := context.Background()

	buyer := domain.Actor{UserID: buyerID, Role: domain.RoleBuyer}
	got, err := f.orders.GetOrderByID(ctx, buyer, orderID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	owner := domain.Actor{UserID: ownerID, Role: domain.RoleShopOwner}
	_, err = f.orders.GetOrderByID(ctx, owner, orderID)
	assert.NoError(t, err)

	stranger := domain.Actor{UserID: "someone-else", Role: domain.RoleBuyer}
	_, err = f.orders.GetOrderByID(ctx, stranger, orderID)
	assert.True(t, domain.IsForbidden(err))
}

func TestListBuyerOrders(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	placeCOD(t, f)

	out, err := f.orders.ListBuyerOrders(context.Background(), buyerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, buyerID, out.Orders[0].BuyerID)

	empty, err := f.orders.ListBuyerOrders(context.Background(), "someone-else", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
	assert.Empty(t, empty.Orders)
}
