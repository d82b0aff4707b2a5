package orderdto

import "github.com/dungtienne2108/marketplace-order-service/internal/domain"

type PlaceOrderInput struct {
	BuyerID         string
	PaymentMethod   domain.PaymentMethod
	ShippingAddress string
	ReceiverName    string
	ReceiverPhone   string
	Note            string
	ShippingFee     float64
	Discount        float64
}
