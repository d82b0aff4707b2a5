package usecase

import (
	"context"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

// ClaimCashback triggers a manual on-chain claim for a completed
// cashback. Only the owning user or an admin may claim.
func (uc *DefaultCashbackUsecase) ClaimCashback(ctx context.Context, actor domain.Actor, cashbackID string) (string, error) {
	cashback, err := uc.Uow.Cashbacks().GetByID(ctx, cashbackID)
	if err != nil {
		return "", err
	}

	if cashback.UserID != actor.UserID && !actor.IsAdmin() {
		return "", domain.NewForbiddenError("user %s may not claim cashback %s", actor.UserID, cashbackID)
	}
	if cashback.Status != domain.CashbackStatusCompleted {
		return "", domain.NewValidationError("cashback %s is %s, only COMPLETED cashbacks are claimable", cashbackID, cashback.Status)
	}

	claimTxHash, err := uc.Ledger.ClaimFor(ctx, cashback.WalletAddress)
	if err != nil {
		return "", err
	}
	return claimTxHash, nil
}
