package models

import (
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

type OrderModel struct {
	ID            string               `gorm:"primaryKey;type:uuid"`
	OrderNumber   string               `gorm:"uniqueIndex;not null"`
	BuyerID       string               `gorm:"type:uuid;index:idx_orders_buyer"`
	ShopID        string               `gorm:"type:uuid;index:idx_orders_shop"`
	Status        domain.OrderStatus   `gorm:"index:idx_orders_status"`
	PaymentStatus domain.PaymentStatus
	Subtotal      float64
	ShippingFee   float64
	Discount      float64
	TotalAmount   float64

	ShippingAddress string
	ReceiverName    string
	ReceiverPhone   string
	Note            string

	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time `gorm:"index:idx_orders_created_at"`
	UpdatedAt time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	OrderID     string `gorm:"type:uuid;index:idx_order_items_order"`
	ProductID   string `gorm:"type:uuid"`
	VariantID   string `gorm:"type:uuid"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   float64
	TotalPrice  float64
	ProductName string
	VariantName string
	ImageURL    string
	SKU         string
	CreatedAt   time.Time
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

type OrderStatusHistoryModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	OrderID    string `gorm:"type:uuid;index:idx_status_history_order"`
	FromStatus domain.OrderStatus
	ToStatus   domain.OrderStatus
	Note       string
	ChangedBy  string `gorm:"type:uuid"`
	CreatedAt  time.Time
}

func (OrderStatusHistoryModel) TableName() string {
	return "order_status_histories"
}
