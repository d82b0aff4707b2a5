package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	orderdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/order"
)

// Cache keys mirror the invalidator's layout. List pages beyond the
// first are rare enough to skip caching.
const (
	orderCacheTTL   = 300
	defaultPageSize = 20
)

func orderCacheKey(orderID string) string { return "orders:id:" + orderID }
func buyerListKey(buyerID string) string  { return "orders:buyer:" + buyerID }
func shopListKey(shopID string) string    { return "orders:shop:" + shopID }

// GetOrderByID returns the full aggregate, read-through cached. Buyers
// see their own orders, shop owners their shop's, admins everything.
func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, actor domain.Actor, orderID string) (*domain.OrderWithItems, error) {
	if cached := uc.cachedOrder(ctx, orderID); cached != nil {
		if err := uc.authorizeRead(ctx, actor, &cached.Order); err != nil {
			return nil, err
		}
		return cached, nil
	}

	order, err := uc.Uow.Orders().GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeRead(ctx, actor, &order.Order); err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, orderCacheKey(orderID), order)
	return order, nil
}

func (uc *DefaultOrderUsecase) ListBuyerOrders(ctx context.Context, buyerID string, page, limit int) (*orderdto.OrderListOutput, error) {
	return uc.list(ctx, buyerListKey(buyerID), page, limit, func(ctx context.Context, page, limit int) ([]*domain.OrderSummary, int64, error) {
		return uc.Uow.Orders().ListByBuyer(ctx, buyerID, page, limit)
	})
}

func (uc *DefaultOrderUsecase) ListShopOrders(ctx context.Context, shopID string, page, limit int) (*orderdto.OrderListOutput, error) {
	return uc.list(ctx, shopListKey(shopID), page, limit, func(ctx context.Context, page, limit int) ([]*domain.OrderSummary, int64, error) {
		return uc.Uow.Orders().ListByShop(ctx, shopID, page, limit)
	})
}

func (uc *DefaultOrderUsecase) list(ctx context.Context, cacheKey string, page, limit int, fetch func(ctx context.Context, page, limit int) ([]*domain.OrderSummary, int64, error)) (*orderdto.OrderListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}
	firstPage := page == 1 && limit == defaultPageSize

	if firstPage && uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var output orderdto.OrderListOutput
			if json.Unmarshal([]byte(raw), &output) == nil {
				return &output, nil
			}
		}
	}

	orders, total, err := fetch(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	output := &orderdto.OrderListOutput{Orders: orders, Total: total, Page: page, Limit: limit}

	if firstPage {
		uc.cacheSet(ctx, cacheKey, output)
	}
	return output, nil
}

func (uc *DefaultOrderUsecase) authorizeRead(ctx context.Context, actor domain.Actor, order *domain.Order) error {
	if actor.IsAdmin() || actor.UserID == order.BuyerID {
		return nil
	}
	ownerID, err := uc.Identity.GetShopOwnerID(ctx, order.ShopID)
	if err != nil {
		return err
	}
	if actor.UserID != ownerID {
		return domain.NewForbiddenError("user %s has no access to order %s", actor.UserID, order.ID)
	}
	return nil
}

func (uc *DefaultOrderUsecase) cachedOrder(ctx context.Context, orderID string) *domain.OrderWithItems {
	if uc.Cache == nil {
		return nil
	}
	raw, err := uc.Cache.Get(ctx, orderCacheKey(orderID))
	if err != nil || raw == "" {
		return nil
	}
	var order domain.OrderWithItems
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil
	}
	return &order
}

func (uc *DefaultOrderUsecase) cacheSet(ctx context.Context, key string, value any) {
	if uc.Cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := uc.Cache.Set(ctx, key, string(raw), orderCacheTTL); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err.Error())
	}
}
