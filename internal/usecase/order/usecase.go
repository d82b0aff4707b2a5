package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/metrics"
	orderdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/order"
	paymentuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/payment"
	"github.com/jaevor/go-nanoid"
)

type OrderUsecase interface {
	PlaceOrder(ctx context.Context, input *orderdto.PlaceOrderInput) (*orderdto.PlaceOrderOutput, error)

	TransitionOrderStatus(ctx context.Context, actor domain.Actor, orderID string, to domain.OrderStatus, note string) error
	CancelOrder(ctx context.Context, actor domain.Actor, orderID, reason string) error

	GetOrderByID(ctx context.Context, actor domain.Actor, orderID string) (*domain.OrderWithItems, error)
	ListBuyerOrders(ctx context.Context, buyerID string, page, limit int) (*orderdto.OrderListOutput, error)
	ListShopOrders(ctx context.Context, shopID string, page, limit int) (*orderdto.OrderListOutput, error)
}

type DefaultOrderUsecase struct {
	Uow         domain.UnitOfWork
	Identity    domain.IdentityProvider
	Payments    paymentuc.PaymentUsecase
	Gateway     domain.PaymentGateway
	Cache       domain.Cache
	Invalidator domain.CacheInvalidator
	Publisher   domain.EventPublisher
	Metrics     *metrics.OrderMetrics

	orderSuffix func() string
}

func NewDefaultOrderUsecase(
	uow domain.UnitOfWork,
	identity domain.IdentityProvider,
	payments paymentuc.PaymentUsecase,
	gateway domain.PaymentGateway,
	cache domain.Cache,
	invalidator domain.CacheInvalidator,
	publisher domain.EventPublisher,
	orderMetrics *metrics.OrderMetrics,
) (*DefaultOrderUsecase, error) {
	suffix, err := nanoid.CustomASCII("0123456789ABCDEFGHIJKLMNPQRSTUVWXYZ", 8)
	if err != nil {
		return nil, err
	}
	return &DefaultOrderUsecase{
		Uow:         uow,
		Identity:    identity,
		Payments:    payments,
		Gateway:     gateway,
		Cache:       cache,
		Invalidator: invalidator,
		Publisher:   publisher,
		Metrics:     orderMetrics,
		orderSuffix: suffix,
	}, nil
}

func (uc *DefaultOrderUsecase) publishEvent(order *domain.Order, status domain.OrderStatus) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.OrderEvent) {
		value, err := json.Marshal(event)
		if err != nil {
			return
		}
		msg := domain.Message{Key: []byte(event.OrderID), Value: value}
		if err := uc.Publisher.Publish(domain.TopicOrderEvents, msg); err != nil {
			slog.Error("failed to publish order event", "order_id", event.OrderID, "error", err.Error())
		}
	}(domain.OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		ShopID:      order.ShopID,
		Status:      string(status),
		TotalAmount: order.TotalAmount,
	})
}

func (uc *DefaultOrderUsecase) invalidate(order *domain.Order) {
	if uc.Invalidator == nil {
		return
	}
	uc.Invalidator.InvalidateOrder(order.ID)
	uc.Invalidator.InvalidateBuyerOrders(order.BuyerID)
	uc.Invalidator.InvalidateShopOrders(order.ShopID)
}
