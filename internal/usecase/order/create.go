package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	orderdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/order"
	"github.com/google/uuid"
)

// PlaceOrder converts the buyer's cart into an order with a PENDING
// payment, atomically with the stock decrement and the cart clear.
// The gateway charge for non-COD methods happens after commit: a
// gateway outage must not lose a placed order, and the expiry sweep
// cleans up payments that never get charged.
func (uc *DefaultOrderUsecase) PlaceOrder(ctx context.Context, input *orderdto.PlaceOrderInput) (*orderdto.PlaceOrderOutput, error) {
	if input.ShippingAddress == "" || input.ReceiverName == "" || input.ReceiverPhone == "" {
		return nil, domain.NewValidationError("shipping address, receiver name and phone are required")
	}
	if !input.PaymentMethod.Valid() {
		return nil, domain.NewValidationError("unknown payment method %q", input.PaymentMethod)
	}

	var (
		order   *domain.Order
		items   []*domain.OrderItem
		payment *domain.Payment
		cartID  string
	)

	err := uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
		cart, err := repos.Carts().FindCartWithItems(ctx, input.BuyerID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return domain.NewValidationError("cart is empty")
		}
		cartID = cart.ID

		order, items, err = uc.buildAggregate(ctx, repos, input, cart)
		if err != nil {
			return err
		}

		if err := repos.Orders().Create(ctx, order, items); err != nil {
			return err
		}

		updates := make([]domain.StockUpdate, 0, len(items))
		for _, item := range items {
			updates = append(updates, domain.StockUpdate{VariantID: item.VariantID, Quantity: item.Quantity})
		}
		if err := repos.Variants().DecrementStockBatch(ctx, updates); err != nil {
			return err
		}

		payment, err = uc.Payments.CreatePaymentIn(ctx, repos, order, input.PaymentMethod)
		if err != nil {
			return err
		}

		return repos.Carts().ClearCart(ctx, cartID)
	})
	if err != nil {
		return nil, err
	}

	uc.chargeGateway(ctx, order, items, payment)

	uc.invalidate(order)
	if uc.Invalidator != nil {
		uc.Invalidator.InvalidateCart(input.BuyerID)
	}
	if uc.Metrics != nil {
		uc.Metrics.OrdersCreatedTotal.WithLabelValues(order.ShopID, string(input.PaymentMethod)).Inc()
		uc.Metrics.OrderAmountTotal.WithLabelValues(order.ShopID).Add(order.TotalAmount)
	}
	uc.publishEvent(order, domain.OrderStatusPending)

	return &orderdto.PlaceOrderOutput{
		Order:   &domain.OrderWithItems{Order: *order, Items: items},
		Payment: payment,
	}, nil
}

// buildAggregate snapshots cart lines against live variants and prices
// the order. All items must belong to one shop.
func (uc *DefaultOrderUsecase) buildAggregate(ctx context.Context, repos domain.RepoProvider, input *orderdto.PlaceOrderInput, cart *domain.CartSnapshot) (*domain.Order, []*domain.OrderItem, error) {
	now := time.Now()
	orderID := uuid.NewString()

	shopID := ""
	subtotal := 0.0
	items := make([]*domain.OrderItem, 0, len(cart.Items))

	for _, line := range cart.Items {
		if line.Quantity <= 0 {
			return nil, nil, domain.NewValidationError("invalid quantity %d for variant %s", line.Quantity, line.VariantID)
		}

		variant, err := repos.Variants().GetByID(ctx, line.VariantID)
		if err != nil {
			return nil, nil, err
		}
		if shopID == "" {
			shopID = variant.ShopID
		} else if variant.ShopID != shopID {
			return nil, nil, domain.NewValidationError("cart spans multiple shops, one order per shop")
		}
		if variant.Stock < line.Quantity {
			return nil, nil, &domain.InsufficientStockError{
				VariantID: variant.ID,
				Requested: line.Quantity,
				Available: variant.Stock,
			}
		}

		lineTotal := variant.Price * float64(line.Quantity)
		subtotal += lineTotal
		items = append(items, &domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			ProductID:   variant.ProductID,
			VariantID:   variant.ID,
			Quantity:    line.Quantity,
			UnitPrice:   variant.Price,
			TotalPrice:  lineTotal,
			ProductName: variant.ProductName,
			VariantName: variant.Name,
			ImageURL:    variant.ImageURL,
			SKU:         variant.SKU,
		})
	}

	order := &domain.Order{
		ID:              orderID,
		OrderNumber:     "ORD-" + now.Format("20060102") + "-" + uc.orderSuffix(),
		BuyerID:         input.BuyerID,
		ShopID:          shopID,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		Subtotal:        subtotal,
		ShippingFee:     input.ShippingFee,
		Discount:        input.Discount,
		TotalAmount:     subtotal + input.ShippingFee - input.Discount,
		ShippingAddress: input.ShippingAddress,
		ReceiverName:    input.ReceiverName,
		ReceiverPhone:   input.ReceiverPhone,
		Note:            input.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return order, items, nil
}

// chargeGateway creates the gateway charge for non-COD payments after
// the order has committed. Best-effort: a failure leaves the payment
// PENDING for the buyer to retry or the expiry sweep to fail.
func (uc *DefaultOrderUsecase) chargeGateway(ctx context.Context, order *domain.Order, items []*domain.OrderItem, payment *domain.Payment) {
	if uc.Gateway == nil || payment.Method == domain.PaymentMethodCOD {
		return
	}

	charge, err := uc.Gateway.CreateCharge(ctx, domain.ChargeInput{
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		Method:      payment.Method,
		Items:       items,
	})
	if err != nil {
		slog.Error("gateway charge failed", "order_id", order.ID, "payment_id", payment.ID, "error", err.Error())
		return
	}

	if err := uc.Uow.Payments().SetGatewayInfo(ctx, payment.ID, charge.TransactionID, charge.RawResponse); err != nil {
		slog.Error("failed to store gateway info", "payment_id", payment.ID, "error", err.Error())
		return
	}
	payment.TransactionID = charge.TransactionID
}
