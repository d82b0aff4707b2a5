package mappers

import (
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		ShopID:          order.ShopID,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		Discount:        order.Discount,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		ReceiverName:    order.ReceiverName,
		ReceiverPhone:   order.ReceiverPhone,
		Note:            order.Note,
		ConfirmedAt:     order.ConfirmedAt,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		CompletedAt:     order.CompletedAt,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:              model.ID,
		OrderNumber:     model.OrderNumber,
		BuyerID:         model.BuyerID,
		ShopID:          model.ShopID,
		Status:          model.Status,
		PaymentStatus:   model.PaymentStatus,
		Subtotal:        model.Subtotal,
		ShippingFee:     model.ShippingFee,
		Discount:        model.Discount,
		TotalAmount:     model.TotalAmount,
		ShippingAddress: model.ShippingAddress,
		ReceiverName:    model.ReceiverName,
		ReceiverPhone:   model.ReceiverPhone,
		Note:            model.Note,
		ConfirmedAt:     model.ConfirmedAt,
		ShippedAt:       model.ShippedAt,
		DeliveredAt:     model.DeliveredAt,
		CompletedAt:     model.CompletedAt,
		CancelledAt:     model.CancelledAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMOrderItem(item *domain.OrderItem) *models.OrderItemModel {
	return &models.OrderItemModel{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		VariantID:   item.VariantID,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
		ProductName: item.ProductName,
		VariantName: item.VariantName,
		ImageURL:    item.ImageURL,
		SKU:         item.SKU,
	}
}

func ToDomainOrderItem(model *models.OrderItemModel) *domain.OrderItem {
	return &domain.OrderItem{
		ID:          model.ID,
		OrderID:     model.OrderID,
		ProductID:   model.ProductID,
		VariantID:   model.VariantID,
		Quantity:    model.Quantity,
		UnitPrice:   model.UnitPrice,
		TotalPrice:  model.TotalPrice,
		ProductName: model.ProductName,
		VariantName: model.VariantName,
		ImageURL:    model.ImageURL,
		SKU:         model.SKU,
	}
}

func ToDomainOrderSummary(model *models.OrderModel) *domain.OrderSummary {
	return &domain.OrderSummary{
		ID:            model.ID,
		OrderNumber:   model.OrderNumber,
		BuyerID:       model.BuyerID,
		ShopID:        model.ShopID,
		Status:        model.Status,
		PaymentStatus: model.PaymentStatus,
		TotalAmount:   model.TotalAmount,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMStatusHistory(entry *domain.OrderStatusHistory) *models.OrderStatusHistoryModel {
	return &models.OrderStatusHistoryModel{
		ID:         entry.ID,
		OrderID:    entry.OrderID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		Note:       entry.Note,
		ChangedBy:  entry.ChangedBy,
		CreatedAt:  entry.CreatedAt,
	}
}
