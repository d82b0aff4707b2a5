package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/google/uuid"
)

// TransitionOrderStatus moves an order along the lifecycle, with
// authorization, the guarded status update, a history row and the
// target-specific side effects, all in one transaction.
func (uc *DefaultOrderUsecase) TransitionOrderStatus(ctx context.Context, actor domain.Actor, orderID string, to domain.OrderStatus, note string) error {
	var order *domain.Order

	err := uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
		loaded, err := repos.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := uc.authorizeTransition(ctx, actor, loaded, to); err != nil {
			return err
		}
		if !loaded.Status.CanTransitionTo(to) {
			return domain.NewValidationError("order %s cannot go %s -> %s", orderID, loaded.Status, to)
		}

		now := time.Now()
		if err := repos.Orders().TransitionStatus(ctx, orderID, loaded.Status, to, now); err != nil {
			return err
		}
		if err := repos.Orders().AppendStatusHistory(ctx, &domain.OrderStatusHistory{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			FromStatus: loaded.Status,
			ToStatus:   to,
			Note:       note,
			ChangedBy:  actor.UserID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		switch to {
		case domain.OrderStatusCancelled:
			if err := uc.onCancelled(ctx, repos, loaded, note); err != nil {
				return err
			}
		case domain.OrderStatusDelivered:
			if err := uc.onDelivered(ctx, repos, loaded); err != nil {
				return err
			}
		}

		order = loaded
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidate(order)
	if uc.Metrics != nil {
		switch to {
		case domain.OrderStatusCompleted:
			uc.Metrics.OrdersCompletedTotal.WithLabelValues(order.ShopID).Inc()
		case domain.OrderStatusCancelled:
			uc.Metrics.OrdersCancelledTotal.WithLabelValues(order.ShopID).Inc()
		}
	}
	uc.publishEvent(order, to)
	return nil
}

func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, actor domain.Actor, orderID, reason string) error {
	return uc.TransitionOrderStatus(ctx, actor, orderID, domain.OrderStatusCancelled, reason)
}

// authorizeTransition enforces who may drive which hop. Admins bypass
// ownership; buyers act on their own orders, shop owners on their
// shop's.
func (uc *DefaultOrderUsecase) authorizeTransition(ctx context.Context, actor domain.Actor, order *domain.Order, to domain.OrderStatus) error {
	if actor.IsAdmin() {
		return nil
	}

	if actor.UserID == order.BuyerID {
		switch to {
		case domain.OrderStatusCancelled, domain.OrderStatusCompleted:
			return nil
		}
		return domain.NewForbiddenError("buyer may not move order %s to %s", order.ID, to)
	}

	ownerID, err := uc.Identity.GetShopOwnerID(ctx, order.ShopID)
	if err != nil {
		return err
	}
	if actor.UserID != ownerID {
		return domain.NewForbiddenError("user %s has no access to order %s", actor.UserID, order.ID)
	}
	switch to {
	case domain.OrderStatusConfirmed, domain.OrderStatusProcessing,
		domain.OrderStatusShipping, domain.OrderStatusDelivered,
		domain.OrderStatusCancelled:
		return nil
	}
	return domain.NewForbiddenError("shop owner may not move order %s to %s", order.ID, to)
}

// onCancelled returns line-item stock and fails the pending payment.
// Stock restore is per item and best-effort: a variant deleted since
// the order was placed must not block cancellation.
func (uc *DefaultOrderUsecase) onCancelled(ctx context.Context, repos domain.RepoProvider, order *domain.Order, reason string) error {
	items, err := repos.Orders().GetItems(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		restore := []domain.StockUpdate{{VariantID: item.VariantID, Quantity: item.Quantity}}
		if err := repos.Variants().RestoreStockBatch(ctx, restore); err != nil {
			slog.Warn("stock restore skipped", "order_id", order.ID, "variant_id", item.VariantID, "error", err.Error())
		}
	}

	if reason == "" {
		reason = "order cancelled"
	}
	return uc.Payments.FailActivePayment(ctx, repos, order.ID, reason)
}

// onDelivered settles a cash-on-delivery payment: the courier handing
// over the package is the moment the money moves.
func (uc *DefaultOrderUsecase) onDelivered(ctx context.Context, repos domain.RepoProvider, order *domain.Order) error {
	payment, err := repos.Payments().GetActiveByOrderID(ctx, order.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if payment.Method != domain.PaymentMethodCOD || payment.Status != domain.PaymentStatusPending {
		return nil
	}
	return uc.Payments.UpdatePaymentStatusIn(ctx, repos, payment, domain.PaymentStatusPaid, "")
}
