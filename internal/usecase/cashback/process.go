package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	cashbackdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/cashback"
)

// ProcessCashback submits one pending cashback to the external ledger.
// The PENDING->PROCESSING hop commits before the network call so a
// crash mid-submission is observable and retryable; the ledger call
// itself runs outside any transaction because it cannot be rolled back.
// Validation problems return an error; submission failures are recorded
// on the row and returned as a structured result.
func (uc *DefaultCashbackUsecase) ProcessCashback(ctx context.Context, cashbackID string) (*cashbackdto.SubmissionResult, error) {
	var cashback *domain.Cashback

	err := uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
		loaded, err := repos.Cashbacks().GetByID(ctx, cashbackID)
		if err != nil {
			return err
		}

		now := time.Now()
		if loaded.Status != domain.CashbackStatusPending {
			return domain.NewValidationError("cashback %s is %s, not PENDING", cashbackID, loaded.Status)
		}
		if !loaded.Eligible(now) {
			return domain.NewValidationError("cashback %s not eligible until %s", cashbackID, loaded.EligibleAt)
		}
		if loaded.WindowClosed(now) {
			return domain.NewValidationError("cashback %s settlement window closed at %s", cashbackID, loaded.ExpiresAt)
		}

		if err := repos.Cashbacks().MarkProcessing(ctx, cashbackID); err != nil {
			return err
		}
		cashback = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	ledgerTx, err := uc.Ledger.SubmitReward(ctx, cashback.WalletAddress, cashback.Amount)
	if err != nil {
		return uc.recordFailure(ctx, cashbackID, err.Error()), nil
	}

	confirmed := ledgerTx.Confirmed
	if !confirmed {
		status, err := uc.Ledger.ValidateTransaction(ctx, ledgerTx.TxHash)
		if err != nil {
			return uc.recordFailure(ctx, cashbackID, err.Error()), nil
		}
		confirmed = status.Confirmed
	}
	if !confirmed {
		return uc.recordFailure(ctx, cashbackID, "transaction not confirmed on-chain"), nil
	}

	if err := uc.Uow.Cashbacks().MarkCompleted(ctx, cashbackID, ledgerTx.TxHash, ledgerTx.BlockNumber); err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.CashbackSubmissionsTotal.WithLabelValues("success").Inc()
		uc.Metrics.CashbackAmountTotal.Add(cashback.Amount)
	}

	cashback.Status = domain.CashbackStatusCompleted
	cashback.TxHash = ledgerTx.TxHash
	uc.publishEvent(cashback)

	// Auto-claim is a convenience: a failure here leaves the cashback
	// COMPLETED and claimable manually.
	if _, err := uc.Ledger.ClaimFor(ctx, cashback.WalletAddress); err != nil {
		slog.Error("auto-claim failed", "cashback_id", cashbackID, "error", err.Error())
	}

	return &cashbackdto.SubmissionResult{
		CashbackID:  cashbackID,
		Success:     true,
		TxHash:      ledgerTx.TxHash,
		BlockNumber: ledgerTx.BlockNumber,
	}, nil
}

func (uc *DefaultCashbackUsecase) recordFailure(ctx context.Context, cashbackID, reason string) *cashbackdto.SubmissionResult {
	if err := uc.Uow.Cashbacks().MarkFailed(ctx, cashbackID, reason); err != nil {
		slog.Error("failed to record cashback failure", "cashback_id", cashbackID, "error", err.Error())
	}
	if uc.Metrics != nil {
		uc.Metrics.CashbackSubmissionsTotal.WithLabelValues("failure").Inc()
	}
	slog.Error("cashback submission failed", "cashback_id", cashbackID, "reason", reason)
	return &cashbackdto.SubmissionResult{
		CashbackID: cashbackID,
		Success:    false,
		Error:      reason,
	}
}

// ProcessPendingCashbacks submits eligible PENDING rows up to limit.
// Each row is processed independently; one failure never aborts the
// batch.
func (uc *DefaultCashbackUsecase) ProcessPendingCashbacks(ctx context.Context, limit int) (*cashbackdto.BatchResult, error) {
	pending, err := uc.Uow.Cashbacks().FindPendingEligible(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}

	batch := &cashbackdto.BatchResult{}
	for _, cashback := range pending {
		result, err := uc.ProcessCashback(ctx, cashback.ID)
		if err != nil {
			batch.Add(cashbackdto.SubmissionResult{CashbackID: cashback.ID, Error: err.Error()})
			continue
		}
		batch.Add(*result)
	}
	return batch, nil
}

// RetryFailedCashbacks resets FAILED rows with retryCount below
// maxRetries back to PENDING and resubmits them.
func (uc *DefaultCashbackUsecase) RetryFailedCashbacks(ctx context.Context, maxRetries int) (*cashbackdto.BatchResult, error) {
	failed, err := uc.Uow.Cashbacks().FindFailedRetryable(ctx, maxRetries, 0)
	if err != nil {
		return nil, err
	}

	batch := &cashbackdto.BatchResult{}
	for _, cashback := range failed {
		if err := uc.Uow.Cashbacks().ResetForRetry(ctx, cashback.ID); err != nil {
			batch.Add(cashbackdto.SubmissionResult{CashbackID: cashback.ID, Error: err.Error()})
			continue
		}
		if uc.Metrics != nil {
			uc.Metrics.CashbackRetriesTotal.Inc()
		}

		result, err := uc.ProcessCashback(ctx, cashback.ID)
		if err != nil {
			batch.Add(cashbackdto.SubmissionResult{CashbackID: cashback.ID, Error: err.Error()})
			continue
		}
		batch.Add(*result)
	}
	return batch, nil
}

// HandleExpiredCashbacks moves PENDING/PROCESSING rows past their
// settlement window to CANCELLED.
func (uc *DefaultCashbackUsecase) HandleExpiredCashbacks(ctx context.Context) (int, error) {
	expired, err := uc.Uow.Cashbacks().FindExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, cashback := range expired {
		if err := uc.Uow.Cashbacks().MarkCancelled(ctx, cashback.ID); err != nil {
			slog.Error("failed to cancel expired cashback", "cashback_id", cashback.ID, "error", err.Error())
			continue
		}
		cancelled++
	}
	return cancelled, nil
}
