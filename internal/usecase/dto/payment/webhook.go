package paymentdto

// GatewayNotification carries the gateway's native webhook fields. The
// signature must be verified before any other field is trusted.
type GatewayNotification struct {
	TransactionID     string `json:"transaction_id"`
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

type SweepResult struct {
	Scanned int
	Expired int
	Errors  []string
}
