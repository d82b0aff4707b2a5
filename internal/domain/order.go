package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// orderTransitions is the full legal transition table. Statuses missing
// from the map are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:   {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusRefunded},
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID            string
	OrderNumber   string
	BuyerID       string
	ShopID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
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

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a line item with product data snapshotted at order time.
// Immutable after creation.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	VariantID   string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
	ProductName string
	VariantName string
	ImageURL    string
	SKU         string
}

// OrderStatusHistory is an append-only transition log row.
type OrderStatusHistory struct {
	ID         string
	OrderID    string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Note       string
	ChangedBy  string
	CreatedAt  time.Time
}

// OrderWithItems is the full aggregate returned by single-order reads.
type OrderWithItems struct {
	Order
	Items []*OrderItem
}

// OrderSummary is the list-view projection without line items.
type OrderSummary struct {
	ID            string
	OrderNumber   string
	BuyerID       string
	ShopID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64
	CreatedAt     time.Time
}
