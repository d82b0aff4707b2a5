package usecase

import (
	"context"
	"testing"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderTotalsAndStock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	out, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	require.NoError(t, err)

	// 2 x 120000 + 1 x 50000 = 290000 subtotal, +20000 shipping
	assert.Equal(t, 240000.0+50000.0, out.Order.Subtotal)
	assert.Equal(t, 310000.0, out.Order.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, out.Order.Status)
	assert.Equal(t, shopID, out.Order.ShopID)
	assert.Len(t, out.Order.Items, 2)
	assert.Contains(t, out.Order.OrderNumber, "ORD-")

	assert.Equal(t, 3, f.store.Variants[variant1].Stock)
	assert.Equal(t, 2, f.store.Variants[variant2].Stock)

	require.NotNil(t, out.Payment)
	assert.Equal(t, domain.PaymentStatusPending, out.Payment.Status)
	assert.Equal(t, out.Order.TotalAmount, out.Payment.Amount)
	assert.Nil(t, out.Payment.ExpiredAt, "COD payments never expire")

	assert.Empty(t, f.store.Carts[buyerID].Items, "cart cleared after placement")
	assert.Contains(t, f.invalidator.Keys, "orders:buyer:"+buyerID)
	assert.Contains(t, f.invalidator.Keys, "carts:user:"+buyerID)
}

func TestPlaceOrderNonCODChargesGateway(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	out, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodEWallet))
	require.NoError(t, err)

	assert.Equal(t, 1, f.gateway.Charges)
	assert.Equal(t, "mid-"+out.Order.OrderNumber, out.Payment.TransactionID)
	require.NotNil(t, out.Payment.ExpiredAt)

	stored := f.store.Payments[out.Payment.ID]
	assert.Equal(t, "mid-"+out.Order.OrderNumber, stored.TransactionID)
}

func TestPlaceOrderGatewayFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.gateway.ChargeFn = func(input domain.ChargeInput) (*domain.ChargeResult, error) {
		return nil, &domain.ExternalServiceError{Service: "midtrans", Err: assert.AnError}
	}

	out, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodEWallet))
	require.NoError(t, err, "a gateway outage must not lose the order")

	assert.Equal(t, "", out.Payment.TransactionID)
	assert.Equal(t, domain.PaymentStatusPending, f.store.Payments[out.Payment.ID].Status)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.store.Carts[buyerID].Items = nil

	_, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	assert.True(t, domain.IsValidation(err))
}

func TestPlaceOrderMissingShipping(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	input := validInput(domain.PaymentMethodCOD)
	input.ShippingAddress = ""
	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, domain.IsValidation(err))
}

func TestPlaceOrderUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	input := validInput("BARTER")
	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, domain.IsValidation(err))
}

func TestPlaceOrderCrossShopCart(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.store.Variants["variant-3"] = &domain.Variant{
		ID:        "variant-3",
		ProductID: "product-3",
		ShopID:    "shop-2",
		Price:     10000,
		Stock:     10,
	}
	f.store.Carts[buyerID].Items = append(f.store.Carts[buyerID].Items,
		domain.CartItem{ProductID: "product-3", VariantID: "variant-3", Quantity: 1})

	_, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, f.store.Orders)
}

func TestPlaceOrderInsufficientStockAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	// variant-2 has stock 3; ask for 4 so the second line fails after the
	// first line already decremented.
	f.store.Carts[buyerID].Items[1].Quantity = 4

	_, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	assert.True(t, domain.IsInsufficientStock(err))

	assert.Equal(t, 5, f.store.Variants[variant1].Stock, "first decrement rolled back")
	assert.Equal(t, 3, f.store.Variants[variant2].Stock)
	assert.Empty(t, f.store.Orders)
	assert.Empty(t, f.store.Payments)
	assert.Len(t, f.store.Carts[buyerID].Items, 2, "cart untouched")
}

func TestPlaceOrderExactStock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	// Ordering exactly the remaining stock must succeed and leave zero.
	f.store.Carts[buyerID].Items[0].Quantity = 5
	f.store.Carts[buyerID].Items[1].Quantity = 3

	out, err := f.orders.PlaceOrder(context.Background(), validInput(domain.PaymentMethodCOD))
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Variants[variant1].Stock)
	assert.Equal(t, 0, f.store.Variants[variant2].Stock)
	assert.Equal(t, 5*120000.0+3*50000.0, out.Order.Subtotal)
}
