package orderdto

import "github.com/dungtienne2108/marketplace-order-service/internal/domain"

type PlaceOrderOutput struct {
	Order   *domain.OrderWithItems
	Payment *domain.Payment
}

type OrderListOutput struct {
	Orders []*domain.OrderSummary
	Total  int64
	Page   int
	Limit  int
}
