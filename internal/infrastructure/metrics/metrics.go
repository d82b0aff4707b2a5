package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics holds every metric the engine records. The registry is
// injected so tests can use a private one.
type OrderMetrics struct {
	OrdersCreatedTotal   *prometheus.CounterVec
	OrdersCompletedTotal *prometheus.CounterVec
	OrdersCancelledTotal *prometheus.CounterVec
	OrderAmountTotal     *prometheus.CounterVec

	PaymentTransitionsTotal *prometheus.CounterVec
	WebhooksTotal           *prometheus.CounterVec

	CashbackSubmissionsTotal *prometheus.CounterVec
	CashbackRetriesTotal     prometheus.Counter
	CashbackAmountTotal      prometheus.Counter

	SweepDuration *prometheus.HistogramVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	factory := promauto.With(reg)

	return &OrderMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders placed, by shop and payment method",
			},
			[]string{"shop_id", "payment_method"},
		),
		OrdersCompletedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_completed_total",
				Help: "Orders reaching COMPLETED",
			},
			[]string{"shop_id"},
		),
		OrdersCancelledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_cancelled_total",
				Help: "Orders reaching CANCELLED",
			},
			[]string{"shop_id"},
		),
		OrderAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_amount_total",
				Help: "Total amount of placed orders",
			},
			[]string{"shop_id"},
		),
		PaymentTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_transitions_total",
				Help: "Payment status transitions, by target status",
			},
			[]string{"to_status", "method"},
		),
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_total",
				Help: "Gateway webhooks processed, by outcome",
			},
			[]string{"outcome"},
		),
		CashbackSubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_submissions_total",
				Help: "Cashback ledger submissions, by result",
			},
			[]string{"result"},
		),
		CashbackRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashback_retries_total",
				Help: "Failed cashbacks reset for retry",
			},
		),
		CashbackAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashback_amount_total",
				Help: "Total cashback amount settled on-chain",
			},
		),
		SweepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sweep_duration_seconds",
				Help:    "Duration of periodic sweeps",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sweep"},
		),
	}
}
