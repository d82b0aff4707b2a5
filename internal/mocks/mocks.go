// Package mocks holds in-memory fakes for the repository, identity,
// ledger, gateway and messaging ports. The fake unit of work snapshots
// state before each transaction and restores it on error, so rollback
// behavior is observable in tests without a database.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

type Store struct {
	mu sync.Mutex

	Orders    map[string]*domain.Order
	Items     map[string][]*domain.OrderItem
	History   []*domain.OrderStatusHistory
	Payments  map[string]*domain.Payment
	Cashbacks map[string]*domain.Cashback
	Variants  map[string]*domain.Variant
	Carts     map[string]*domain.CartSnapshot
}

func NewStore() *Store {
	return &Store{
		Orders:    make(map[string]*domain.Order),
		Items:     make(map[string][]*domain.OrderItem),
		Payments:  make(map[string]*domain.Payment),
		Cashbacks: make(map[string]*domain.Cashback),
		Variants:  make(map[string]*domain.Variant),
		Carts:     make(map[string]*domain.CartSnapshot),
	}
}

func (s *Store) snapshot() *Store {
	snap := NewStore()
	for id, order := range s.Orders {
		copied := *order
		snap.Orders[id] = &copied
	}
	for id, items := range s.Items {
		copiedItems := make([]*domain.OrderItem, len(items))
		for i, item := range items {
			copied := *item
			copiedItems[i] = &copied
		}
		snap.Items[id] = copiedItems
	}
	snap.History = append([]*domain.OrderStatusHistory(nil), s.History...)
	for id, payment := range s.Payments {
		copied := *payment
		snap.Payments[id] = &copied
	}
	for id, cashback := range s.Cashbacks {
		copied := *cashback
		snap.Cashbacks[id] = &copied
	}
	for id, variant := range s.Variants {
		copied := *variant
		snap.Variants[id] = &copied
	}
	for id, cart := range s.Carts {
		copied := *cart
		copied.Items = append([]domain.CartItem(nil), cart.Items...)
		snap.Carts[id] = &copied
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.Orders = snap.Orders
	s.Items = snap.Items
	s.History = snap.History
	s.Payments = snap.Payments
	s.Cashbacks = snap.Cashbacks
	s.Variants = snap.Variants
	s.Carts = snap.Carts
}

// FakeUnitOfWork implements domain.UnitOfWork over a Store. Execute
// snapshots the store and restores it when fn fails; nested Execute
// calls run in the outer "transaction".
type FakeUnitOfWork struct {
	Store *Store
	inTx  bool
}

func NewFakeUnitOfWork(store *Store) *FakeUnitOfWork {
	return &FakeUnitOfWork{Store: store}
}

func (u *FakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos domain.RepoProvider) error) error {
	if u.inTx {
		return fn(ctx, u)
	}

	u.Store.mu.Lock()
	snap := u.Store.snapshot()
	u.Store.mu.Unlock()

	scoped := &FakeUnitOfWork{Store: u.Store, inTx: true}
	if err := fn(ctx, scoped); err != nil {
		u.Store.mu.Lock()
		u.Store.restore(snap)
		u.Store.mu.Unlock()
		return err
	}
	return nil
}

func (u *FakeUnitOfWork) Orders() domain.OrderRepository { return &fakeOrderRepo{store: u.Store} }

func (u *FakeUnitOfWork) Payments() domain.PaymentRepository { return &fakePaymentRepo{store: u.Store} }

func (u *FakeUnitOfWork) Cashbacks() domain.CashbackRepository {
	return &fakeCashbackRepo{store: u.Store}
}

func (u *FakeUnitOfWork) Variants() domain.VariantRepository { return &fakeVariantRepo{store: u.Store} }

func (u *FakeUnitOfWork) Carts() domain.CartRepository { return &fakeCartRepo{store: u.Store} }

type fakeOrderRepo struct {
	store *Store
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *order
	r.store.Orders[order.ID] = &copied
	stored := make([]*domain.OrderItem, len(items))
	for i, item := range items {
		copiedItem := *item
		stored[i] = &copiedItem
	}
	r.store.Items[order.ID] = stored
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.Orders[orderID]
	if !ok {
		return nil, domain.NewNotFoundError("order", orderID)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetWithItems(ctx context.Context, orderID string) (*domain.OrderWithItems, error) {
	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := r.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderWithItems{Order: *order, Items: items}, nil
}

func (r *fakeOrderRepo) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.Items[orderID]
	copied := make([]*domain.OrderItem, len(items))
	for i, item := range items {
		c := *item
		copied[i] = &c
	}
	return copied, nil
}

func (r *fakeOrderRepo) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.Orders[orderID]
	if !ok {
		return domain.NewNotFoundError("order", orderID)
	}
	if order.Status != from {
		return domain.ErrStaleTransition
	}

	order.Status = to
	order.UpdatedAt = at
	switch to {
	case domain.OrderStatusConfirmed:
		order.ConfirmedAt = &at
	case domain.OrderStatusShipping:
		order.ShippedAt = &at
	case domain.OrderStatusDelivered:
		order.DeliveredAt = &at
	case domain.OrderStatusCompleted:
		order.CompletedAt = &at
	case domain.OrderStatusCancelled:
		order.CancelledAt = &at
	}
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, paidAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.Orders[orderID]
	if !ok {
		return domain.NewNotFoundError("order", orderID)
	}
	order.PaymentStatus = status
	return nil
}

func (r *fakeOrderRepo) AppendStatusHistory(ctx context.Context, entry *domain.OrderStatusHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *entry
	r.store.History = append(r.store.History, &copied)
	return nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID string, page, limit int) ([]*domain.OrderSummary, int64, error) {
	return r.list(func(o *domain.Order) bool { return o.BuyerID == buyerID }, page, limit)
}

func (r *fakeOrderRepo) ListByShop(ctx context.Context, shopID string, page, limit int) ([]*domain.OrderSummary, int64, error) {
	return r.list(func(o *domain.Order) bool { return o.ShopID == shopID }, page, limit)
}

func (r *fakeOrderRepo) list(match func(*domain.Order) bool, page, limit int) ([]*domain.OrderSummary, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*domain.Order
	for _, order := range r.store.Orders {
		if match(order) {
			matched = append(matched, order)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	summaries := make([]*domain.OrderSummary, 0, end-start)
	for _, order := range matched[start:end] {
		summaries = append(summaries, &domain.OrderSummary{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			BuyerID:       order.BuyerID,
			ShopID:        order.ShopID,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			TotalAmount:   order.TotalAmount,
			CreatedAt:     order.CreatedAt,
		})
	}
	return summaries, total, nil
}

type fakePaymentRepo struct {
	store *Store
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *payment
	r.store.Payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payment, ok := r.store.Payments[paymentID]
	if !ok {
		return nil, domain.NewNotFoundError("payment", paymentID)
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, payment := range r.store.Payments {
		if payment.TransactionID != "" && payment.TransactionID == transactionID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("payment", transactionID)
}

func (r *fakePaymentRepo) GetActiveByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, payment := range r.store.Payments {
		if payment.OrderID != orderID {
			continue
		}
		if payment.Status == domain.PaymentStatusPending || payment.Status == domain.PaymentStatusPaid {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("active payment for order", orderID)
}

func (r *fakePaymentRepo) TransitionStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, at time.Time, failureReason string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payment, ok := r.store.Payments[paymentID]
	if !ok {
		return domain.NewNotFoundError("payment", paymentID)
	}
	if payment.Status != from {
		return domain.ErrStaleTransition
	}

	payment.Status = to
	payment.UpdatedAt = at
	switch to {
	case domain.PaymentStatusPaid:
		payment.PaidAt = &at
	case domain.PaymentStatusFailed:
		payment.FailedAt = &at
		payment.FailureReason = failureReason
	}
	return nil
}

func (r *fakePaymentRepo) SetGatewayInfo(ctx context.Context, paymentID, transactionID, gatewayResponse string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payment, ok := r.store.Payments[paymentID]
	if !ok {
		return domain.NewNotFoundError("payment", paymentID)
	}
	payment.TransactionID = transactionID
	payment.GatewayResponse = gatewayResponse
	return nil
}

func (r *fakePaymentRepo) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var expired []*domain.Payment
	for _, payment := range r.store.Payments {
		if payment.Status == domain.PaymentStatusPending && payment.Expired(now) {
			copied := *payment
			expired = append(expired, &copied)
		}
		if limit > 0 && len(expired) >= limit {
			break
		}
	}
	return expired, nil
}

type fakeCashbackRepo struct {
	store *Store
}

func (r *fakeCashbackRepo) Create(ctx context.Context, cashback *domain.Cashback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.Cashbacks {
		if existing.PaymentID == cashback.PaymentID {
			return domain.ErrAlreadyExists
		}
	}
	copied := *cashback
	r.store.Cashbacks[cashback.ID] = &copied
	return nil
}

func (r *fakeCashbackRepo) GetByID(ctx context.Context, cashbackID string) (*domain.Cashback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cashback, ok := r.store.Cashbacks[cashbackID]
	if !ok {
		return nil, domain.NewNotFoundError("cashback", cashbackID)
	}
	copied := *cashback
	return &copied, nil
}

func (r *fakeCashbackRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Cashback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cashback := range r.store.Cashbacks {
		if cashback.PaymentID == paymentID {
			copied := *cashback
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("cashback for payment", paymentID)
}

func (r *fakeCashbackRepo) guarded(cashbackID string, allowed []domain.CashbackStatus, mutate func(*domain.Cashback)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cashback, ok := r.store.Cashbacks[cashbackID]
	if !ok {
		return domain.NewNotFoundError("cashback", cashbackID)
	}
	for _, status := range allowed {
		if cashback.Status == status {
			mutate(cashback)
			cashback.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrStaleTransition
}

func (r *fakeCashbackRepo) MarkProcessing(ctx context.Context, cashbackID string) error {
	return r.guarded(cashbackID, []domain.CashbackStatus{domain.CashbackStatusPending}, func(c *domain.Cashback) {
		c.Status = domain.CashbackStatusProcessing
	})
}

func (r *fakeCashbackRepo) MarkCompleted(ctx context.Context, cashbackID, txHash string, blockNumber int64) error {
	return r.guarded(cashbackID, []domain.CashbackStatus{domain.CashbackStatusProcessing}, func(c *domain.Cashback) {
		c.Status = domain.CashbackStatusCompleted
		c.TxHash = txHash
		c.BlockNumber = blockNumber
	})
}

func (r *fakeCashbackRepo) MarkFailed(ctx context.Context, cashbackID, reason string) error {
	return r.guarded(cashbackID, []domain.CashbackStatus{domain.CashbackStatusProcessing, domain.CashbackStatusPending}, func(c *domain.Cashback) {
		c.Status = domain.CashbackStatusFailed
		c.FailureReason = reason
		c.RetryCount++
	})
}

func (r *fakeCashbackRepo) ResetForRetry(ctx context.Context, cashbackID string) error {
	return r.guarded(cashbackID, []domain.CashbackStatus{domain.CashbackStatusFailed}, func(c *domain.Cashback) {
		c.Status = domain.CashbackStatusPending
	})
}

func (r *fakeCashbackRepo) MarkCancelled(ctx context.Context, cashbackID string) error {
	return r.guarded(cashbackID, []domain.CashbackStatus{domain.CashbackStatusPending, domain.CashbackStatusProcessing}, func(c *domain.Cashback) {
		c.Status = domain.CashbackStatusCancelled
	})
}

func (r *fakeCashbackRepo) FindPendingEligible(ctx context.Context, now time.Time, limit int) ([]*domain.Cashback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var eligible []*domain.Cashback
	for _, cashback := range r.store.Cashbacks {
		if cashback.Status != domain.CashbackStatusPending {
			continue
		}
		if cashback.Eligible(now) && !cashback.WindowClosed(now) {
			copied := *cashback
			eligible = append(eligible, &copied)
		}
		if limit > 0 && len(eligible) >= limit {
			break
		}
	}
	return eligible, nil
}

func (r *fakeCashbackRepo) FindFailedRetryable(ctx context.Context, maxRetries, limit int) ([]*domain.Cashback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var retryable []*domain.Cashback
	for _, cashback := range r.store.Cashbacks {
		if cashback.Status == domain.CashbackStatusFailed && cashback.RetryCount < maxRetries {
			copied := *cashback
			retryable = append(retryable, &copied)
		}
		if limit > 0 && len(retryable) >= limit {
			break
		}
	}
	return retryable, nil
}

func (r *fakeCashbackRepo) FindExpired(ctx context.Context, now time.Time) ([]*domain.Cashback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var expired []*domain.Cashback
	for _, cashback := range r.store.Cashbacks {
		if cashback.Status != domain.CashbackStatusPending && cashback.Status != domain.CashbackStatusProcessing {
			continue
		}
		if cashback.WindowClosed(now) {
			copied := *cashback
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

type fakeVariantRepo struct {
	store *Store
}

func (r *fakeVariantRepo) GetByID(ctx context.Context, variantID string) (*domain.Variant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	variant, ok := r.store.Variants[variantID]
	if !ok {
		return nil, domain.NewNotFoundError("variant", variantID)
	}
	copied := *variant
	return &copied, nil
}

func (r *fakeVariantRepo) DecrementStockBatch(ctx context.Context, updates []domain.StockUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, update := range updates {
		variant, ok := r.store.Variants[update.VariantID]
		if !ok || variant.Stock < update.Quantity {
			available := 0
			if ok {
				available = variant.Stock
			}
			return &domain.InsufficientStockError{
				VariantID: update.VariantID,
				Requested: update.Quantity,
				Available: available,
			}
		}
		variant.Stock -= update.Quantity
	}
	return nil
}

func (r *fakeVariantRepo) RestoreStockBatch(ctx context.Context, updates []domain.StockUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, update := range updates {
		variant, ok := r.store.Variants[update.VariantID]
		if !ok {
			return domain.NewNotFoundError("variant", update.VariantID)
		}
		variant.Stock += update.Quantity
	}
	return nil
}

type fakeCartRepo struct {
	store *Store
}

func (r *fakeCartRepo) FindCartWithItems(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cart, ok := r.store.Carts[userID]
	if !ok {
		return nil, domain.NewNotFoundError("cart for user", userID)
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, cartID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cart := range r.store.Carts {
		if cart.ID == cartID {
			cart.Items = nil
			return nil
		}
	}
	return domain.NewNotFoundError("cart", cartID)
}

// FakeIdentity implements domain.IdentityProvider from two maps.
type FakeIdentity struct {
	Users  map[string]*domain.User
	Owners map[string]string
}

func (f *FakeIdentity) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, ok := f.Users[userID]
	if !ok {
		return nil, domain.NewNotFoundError("user", userID)
	}
	copied := *user
	return &copied, nil
}

func (f *FakeIdentity) GetShopOwnerID(ctx context.Context, shopID string) (string, error) {
	owner, ok := f.Owners[shopID]
	if !ok {
		return "", domain.NewNotFoundError("shop", shopID)
	}
	return owner, nil
}

// FakeLedger implements domain.LedgerClient. Zero value submits
// successfully with a confirmed transaction; override the funcs to
// inject failures.
type FakeLedger struct {
	mu          sync.Mutex
	SubmitFn    func(walletAddress string, amount float64) (*domain.LedgerTx, error)
	ValidateFn  func(txHash string) (*domain.LedgerTxStatus, error)
	ClaimFn     func(walletAddress string) (string, error)
	Submissions int
	Claims      int
}

func (f *FakeLedger) SubmitReward(ctx context.Context, walletAddress string, amount float64) (*domain.LedgerTx, error) {
	f.mu.Lock()
	f.Submissions++
	fn := f.SubmitFn
	f.mu.Unlock()

	if fn != nil {
		return fn(walletAddress, amount)
	}
	return &domain.LedgerTx{TxHash: "0xabc", BlockNumber: 1, Confirmed: true}, nil
}

func (f *FakeLedger) ValidateTransaction(ctx context.Context, txHash string) (*domain.LedgerTxStatus, error) {
	f.mu.Lock()
	fn := f.ValidateFn
	f.mu.Unlock()

	if fn != nil {
		return fn(txHash)
	}
	return &domain.LedgerTxStatus{Confirmed: true, Status: "confirmed"}, nil
}

func (f *FakeLedger) ClaimFor(ctx context.Context, walletAddress string) (string, error) {
	f.mu.Lock()
	f.Claims++
	fn := f.ClaimFn
	f.mu.Unlock()

	if fn != nil {
		return fn(walletAddress)
	}
	return "0xclaim", nil
}

// FakePublisher records published messages per topic.
type FakePublisher struct {
	mu       sync.Mutex
	Messages map[string][]domain.Message
}

func (f *FakePublisher) Publish(topic string, msgs ...domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Messages == nil {
		f.Messages = make(map[string][]domain.Message)
	}
	f.Messages[topic] = append(f.Messages[topic], msgs...)
	return nil
}

// RecordingInvalidator records invalidated cache keys in order.
type RecordingInvalidator struct {
	mu   sync.Mutex
	Keys []string
}

func (r *RecordingInvalidator) record(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Keys = append(r.Keys, key)
}

func (r *RecordingInvalidator) InvalidateOrder(orderID string) { r.record("orders:id:" + orderID) }

func (r *RecordingInvalidator) InvalidateBuyerOrders(buyerID string) {
	r.record("orders:buyer:" + buyerID)
}

func (r *RecordingInvalidator) InvalidateShopOrders(shopID string) { r.record("orders:shop:" + shopID) }

func (r *RecordingInvalidator) InvalidateCart(userID string) { r.record("carts:user:" + userID) }

// FakeGateway implements domain.PaymentGateway.
type FakeGateway struct {
	ChargeFn func(input domain.ChargeInput) (*domain.ChargeResult, error)
	VerifyFn func(orderNumber, statusCode, grossAmount, signatureKey string) bool
	Charges  int
}

func (f *FakeGateway) CreateCharge(ctx context.Context, input domain.ChargeInput) (*domain.ChargeResult, error) {
	f.Charges++
	if f.ChargeFn != nil {
		return f.ChargeFn(input)
	}
	return &domain.ChargeResult{TransactionID: "mid-" + input.OrderNumber, RawResponse: "{}"}, nil
}

func (f *FakeGateway) VerifySignature(orderNumber, statusCode, grossAmount, signatureKey string) bool {
	if f.VerifyFn != nil {
		return f.VerifyFn(orderNumber, statusCode, grossAmount, signatureKey)
	}
	return signatureKey == "valid"
}
