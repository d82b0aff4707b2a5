package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/metrics"
	cashbackuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/cashback"
	paymentuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/payment"
	"github.com/go-co-op/gocron/v2"
)

const sweepTimeout = 2 * time.Minute

// Sweeper owns the periodic jobs: payment expiry, cashback processing,
// cashback retry and cashback expiry.
type Sweeper struct {
	scheduler gocron.Scheduler
}

func Start(cfg *config.OrderConfig, payments paymentuc.PaymentUsecase, cashbacks cashbackuc.CashbackUsecase, orderMetrics *metrics.OrderMetrics) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	sweeper := &Sweeper{scheduler: scheduler}

	jobs := []struct {
		name    string
		seconds int
		run     func(ctx context.Context)
	}{
		{
			name:    "payment_expiry",
			seconds: cfg.Sweeps.PaymentExpirySeconds,
			run: func(ctx context.Context) {
				result, err := payments.ExpirePendingPayments(ctx, cfg.CashbackPolicy.BatchLimit)
				if err != nil {
					slog.Error("payment expiry sweep failed", "error", err.Error())
					return
				}
				if result.Expired > 0 || len(result.Errors) > 0 {
					slog.Info("payment expiry sweep",
						"scanned", result.Scanned, "expired", result.Expired, "errors", len(result.Errors))
				}
			},
		},
		{
			name:    "cashback_process",
			seconds: cfg.Sweeps.CashbackProcessSeconds,
			run: func(ctx context.Context) {
				result, err := cashbacks.ProcessPendingCashbacks(ctx, cfg.CashbackPolicy.BatchLimit)
				if err != nil {
					slog.Error("cashback process sweep failed", "error", err.Error())
					return
				}
				if result.TotalProcessed > 0 {
					slog.Info("cashback process sweep",
						"processed", result.TotalProcessed, "successful", result.Successful, "failed", result.Failed)
				}
			},
		},
		{
			name:    "cashback_retry",
			seconds: cfg.Sweeps.CashbackRetrySeconds,
			run: func(ctx context.Context) {
				result, err := cashbacks.RetryFailedCashbacks(ctx, cfg.CashbackPolicy.MaxRetries)
				if err != nil {
					slog.Error("cashback retry sweep failed", "error", err.Error())
					return
				}
				if result.TotalProcessed > 0 {
					slog.Info("cashback retry sweep",
						"processed", result.TotalProcessed, "successful", result.Successful, "failed", result.Failed)
				}
			},
		},
		{
			name:    "cashback_expiry",
			seconds: cfg.Sweeps.CashbackExpirySeconds,
			run: func(ctx context.Context) {
				cancelled, err := cashbacks.HandleExpiredCashbacks(ctx)
				if err != nil {
					slog.Error("cashback expiry sweep failed", "error", err.Error())
					return
				}
				if cancelled > 0 {
					slog.Info("cashback expiry sweep", "cancelled", cancelled)
				}
			},
		},
	}

	for _, job := range jobs {
		run := job.run
		name := job.name
		_, err := scheduler.NewJob(
			gocron.DurationJob(time.Duration(job.seconds)*time.Second),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
				defer cancel()

				started := time.Now()
				run(ctx)
				if orderMetrics != nil {
					orderMetrics.SweepDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
				}
			}),
		)
		if err != nil {
			return nil, err
		}
	}

	scheduler.Start()
	return sweeper, nil
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
