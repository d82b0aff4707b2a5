package repository

import (
	"context"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/mappers"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	orderModel := mappers.ToGORMOrder(order)
	orderModel.Items = make([]models.OrderItemModel, len(items))
	for i, item := range items {
		orderModel.Items[i] = *mappers.ToGORMOrderItem(item)
	}
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return translate("create order", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.WithContext(ctx).First(&orderModel, "id = ?", orderID).Error; err != nil {
		return nil, notFoundOr("get order", "order", orderID, err)
	}
	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) GetWithItems(ctx context.Context, orderID string) (*domain.OrderWithItems, error) {
	var orderModel models.OrderModel
	if err := r.DB.WithContext(ctx).Preload("Items").First(&orderModel, "id = ?", orderID).Error; err != nil {
		return nil, notFoundOr("get order with items", "order", orderID, err)
	}

	items := make([]*domain.OrderItem, len(orderModel.Items))
	for i := range orderModel.Items {
		items[i] = mappers.ToDomainOrderItem(&orderModel.Items[i])
	}
	return &domain.OrderWithItems{
		Order: *mappers.ToDomainOrder(&orderModel),
		Items: items,
	}, nil
}

func (r *DefaultOrderRepository) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	var itemModels []models.OrderItemModel
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&itemModels).Error; err != nil {
		return nil, translate("get order items", err)
	}

	items := make([]*domain.OrderItem, len(itemModels))
	for i := range itemModels {
		items[i] = mappers.ToDomainOrderItem(&itemModels[i])
	}
	return items, nil
}

// timestampColumn maps a target status to the timestamp column it
// stamps. PROCESSING and REFUNDED have no dedicated column.
func timestampColumn(to domain.OrderStatus) string {
	switch to {
	case domain.OrderStatusConfirmed:
		return "confirmed_at"
	case domain.OrderStatusShipping:
		return "shipped_at"
	case domain.OrderStatusDelivered:
		return "delivered_at"
	case domain.OrderStatusCompleted:
		return "completed_at"
	case domain.OrderStatusCancelled:
		return "cancelled_at"
	}
	return ""
}

func (r *DefaultOrderRepository) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if col := timestampColumn(to); col != "" {
		updates[col] = at
	}

	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return translate("transition order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleTransition
	}
	return nil
}

func (r *DefaultOrderRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{"payment_status": status}
	if paidAt != nil {
		updates["updated_at"] = *paidAt
	}

	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return translate("update order payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("order", orderID)
	}
	return nil
}

func (r *DefaultOrderRepository) AppendStatusHistory(ctx context.Context, entry *domain.OrderStatusHistory) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMStatusHistory(entry)).Error; err != nil {
		return translate("append status history", err)
	}
	return nil
}

func (r *DefaultOrderRepository) ListByBuyer(ctx context.Context, buyerID string, page, limit int) ([]*domain.OrderSummary, int64, error) {
	return r.list(ctx, "buyer_id = ?", buyerID, page, limit)
}

func (r *DefaultOrderRepository) ListByShop(ctx context.Context, shopID string, page, limit int) ([]*domain.OrderSummary, int64, error) {
	return r.list(ctx, "shop_id = ?", shopID, page, limit)
}

func (r *DefaultOrderRepository) list(ctx context.Context, cond, arg string, page, limit int) ([]*domain.OrderSummary, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{}).Where(cond, arg)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, translate("count orders", err)
	}

	if page < 1 {
		page = 1
	}
	var orderModels []models.OrderModel
	if err := baseQuery.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, translate("list orders", err)
	}

	summaries := make([]*domain.OrderSummary, len(orderModels))
	for i := range orderModels {
		summaries[i] = mappers.ToDomainOrderSummary(&orderModels[i])
	}
	return summaries, total, nil
}
