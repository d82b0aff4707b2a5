package usecase

import (
	"testing"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/mocks"
	cashbackuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/cashback"
	orderdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/order"
	paymentuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/payment"
	"github.com/stretchr/testify/require"
)

const (
	buyerID  = "buyer-1"
	ownerID  = "owner-1"
	shopID   = "shop-1"
	adminID  = "admin-1"
	variant1 = "variant-1"
	variant2 = "variant-2"
)

type fixture struct {
	store       *mocks.Store
	uow         *mocks.FakeUnitOfWork
	ledger      *mocks.FakeLedger
	gateway     *mocks.FakeGateway
	invalidator *mocks.RecordingInvalidator
	cashbacks   *cashbackuc.DefaultCashbackUsecase
	payments    *paymentuc.DefaultPaymentUsecase
	orders      *DefaultOrderUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	uow := mocks.NewFakeUnitOfWork(store)
	identity := &mocks.FakeIdentity{
		Users: map[string]*domain.User{
			buyerID: {ID: buyerID, Role: domain.RoleBuyer, WalletAddress: "0xbuyerwallet"},
		},
		Owners: map[string]string{shopID: ownerID},
	}
	ledger := &mocks.FakeLedger{}
	gateway := &mocks.FakeGateway{}
	invalidator := &mocks.RecordingInvalidator{}

	cashbacks := cashbackuc.NewDefaultCashbackUsecase(uow, identity, ledger, nil, nil, cashbackuc.Policy{
		Percentage:  1.0,
		ClaimWindow: 30 * 24 * time.Hour,
		Currency:    "VND",
	})
	payments := paymentuc.NewDefaultPaymentUsecase(uow, cashbacks, gateway, nil, nil)
	orders, err := NewDefaultOrderUsecase(uow, identity, payments, gateway, nil, invalidator, nil, nil)
	require.NoError(t, err)

	return &fixture{
		store:       store,
		uow:         uow,
		ledger:      ledger,
		gateway:     gateway,
		invalidator: invalidator,
		cashbacks:   cashbacks,
		payments:    payments,
		orders:      orders,
	}
}

// seedCatalog adds two variants in shop-1 and a cart holding
// 2 x variant-1 (120000 each) and 1 x variant-2 (50000).
func (f *fixture) seedCatalog() {
	f.store.Variants[variant1] = &domain.Variant{
		ID:          variant1,
		ProductID:   "product-1",
		ShopID:      shopID,
		Name:        "Black / L",
		ProductName: "Basic Tee",
		SKU:         "TEE-BL-L",
		Price:       120000,
		Stock:       5,
	}
	f.store.Variants[variant2] = &domain.Variant{
		ID:          variant2,
		ProductID:   "product-2",
		ShopID:      shopID,
		Name:        "500ml",
		ProductName: "Water Bottle",
		SKU:         "BTL-500",
		Price:       50000,
		Stock:       3,
	}
	f.store.Carts[buyerID] = &domain.CartSnapshot{
		ID:     "cart-1",
		UserID: buyerID,
		Items: []domain.CartItem{
			{ProductID: "product-1", VariantID: variant1, Quantity: 2},
			{ProductID: "product-2", VariantID: variant2, Quantity: 1},
		},
	}
}

func validInput(method domain.PaymentMethod) *orderdto.PlaceOrderInput {
	return &orderdto.PlaceOrderInput{
		BuyerID:         buyerID,
		PaymentMethod:   method,
		ShippingAddress: "12 Nguyen Trai, Hanoi",
		ReceiverName:    "Nguyen Van A",
		ReceiverPhone:   "0900000001",
		ShippingFee:     20000,
	}
}
