package domain

const (
	TopicOrderEvents    = "order-events"
	TopicPaymentEvents  = "payment-events"
	TopicCashbackEvents = "cashback-events"
)

type Message struct {
	Key   []byte
	Value []byte
}

// EventPublisher is the message-queue port. Publishing is best-effort
// and always off the critical path.
type EventPublisher interface {
	Publish(topic string, msgs ...Message) error
}

type OrderEvent struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	BuyerID     string  `json:"buyer_id"`
	ShopID      string  `json:"shop_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type PaymentEvent struct {
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
}

type CashbackEvent struct {
	CashbackID string  `json:"cashback_id"`
	PaymentID  string  `json:"payment_id"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	TxHash     string  `json:"tx_hash,omitempty"`
}
