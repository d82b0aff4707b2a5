package rediscache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Key layout for the order read caches. Writers invalidate exactly the
// keys they touch; no page-number guessing.
func orderKey(orderID string) string       { return fmt.Sprintf("orders:id:%s", orderID) }
func buyerOrdersKey(buyerID string) string { return fmt.Sprintf("orders:buyer:%s", buyerID) }
func shopOrdersKey(shopID string) string   { return fmt.Sprintf("orders:shop:%s", shopID) }
func cartKey(userID string) string         { return fmt.Sprintf("carts:user:%s", userID) }

// Invalidator implements domain.CacheInvalidator. Deletions run in a
// goroutine after the write commits; failures are logged and dropped.
type Invalidator struct {
	cache *RedisCache
}

func NewInvalidator(cache *RedisCache) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) drop(keys ...string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := i.cache.Del(ctx, keys...); err != nil {
			slog.Error("cache invalidation failed", "keys", keys, "error", err.Error())
		}
	}()
}

func (i *Invalidator) InvalidateOrder(orderID string) {
	i.drop(orderKey(orderID))
}

func (i *Invalidator) InvalidateBuyerOrders(buyerID string) {
	i.drop(buyerOrdersKey(buyerID))
}

func (i *Invalidator) InvalidateShopOrders(shopID string) {
	i.drop(shopOrdersKey(shopID))
}

func (i *Invalidator) InvalidateCart(userID string) {
	i.drop(cartKey(userID))
}
