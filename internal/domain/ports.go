package domain

import "context"

// Cache is the distributed read-cache contract. Every call is fallible
// and must be treated as non-fatal by callers.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
}

// CacheInvalidator drops read caches after a mutating operation.
// Implementations run off the critical path: failures are logged, never
// returned to the caller.
type CacheInvalidator interface {
	InvalidateOrder(orderID string)
	InvalidateBuyerOrders(buyerID string)
	InvalidateShopOrders(shopID string)
	InvalidateCart(userID string)
}

// IdentityProvider is the identity collaborator.
type IdentityProvider interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	GetShopOwnerID(ctx context.Context, shopID string) (string, error)
}

// LedgerTx is the outcome of a reward submission to the external
// blockchain ledger.
type LedgerTx struct {
	TxHash      string
	BlockNumber int64
	Confirmed   bool
}

type LedgerTxStatus struct {
	Confirmed bool
	Status    string
}

// LedgerClient drives the on-chain cashback settlement protocol. Calls
// must never run inside an open database transaction.
type LedgerClient interface {
	SubmitReward(ctx context.Context, walletAddress string, amount float64) (*LedgerTx, error)
	ValidateTransaction(ctx context.Context, txHash string) (*LedgerTxStatus, error)
	ClaimFor(ctx context.Context, walletAddress string) (string, error)
}

// ChargeInput describes a gateway charge for a non-COD payment.
type ChargeInput struct {
	OrderNumber string
	Amount      float64
	Method      PaymentMethod
	Items       []*OrderItem
}

type ChargeResult struct {
	TransactionID string
	RawResponse   string
}

// PaymentGateway creates charges and verifies webhook integrity.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, input ChargeInput) (*ChargeResult, error)
	// VerifySignature checks the webhook signature over the gateway's
	// native fields before any of them may be trusted.
	VerifySignature(orderNumber, statusCode, grossAmount, signatureKey string) bool
}
