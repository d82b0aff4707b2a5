package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	paymentdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/payment"
)

// webhookTarget maps the gateway's transaction_status to our payment
// status. Statuses outside the map are acknowledged and ignored.
func webhookTarget(transactionStatus, fraudStatus string) (domain.PaymentStatus, bool) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return "", false
		}
		return domain.PaymentStatusPaid, true
	case "settlement", "success", "completed":
		return domain.PaymentStatusPaid, true
	case "deny", "cancel", "expire", "failure", "failed", "error":
		return domain.PaymentStatusFailed, true
	}
	return "", false
}

// HandleGatewayWebhook applies one gateway notification. The signature
// is verified before any field is trusted. Redelivered notifications
// are idempotent: a webhook whose target state already holds is
// acknowledged as a success.
func (uc *DefaultPaymentUsecase) HandleGatewayWebhook(ctx context.Context, notification *paymentdto.GatewayNotification) error {
	if uc.Gateway == nil {
		return domain.NewValidationError("payment gateway not configured")
	}
	if !uc.Gateway.VerifySignature(notification.OrderID, notification.StatusCode, notification.GrossAmount, notification.SignatureKey) {
		uc.countWebhook("invalid_signature")
		return domain.NewForbiddenError("invalid webhook signature for order %s", notification.OrderID)
	}

	target, ok := webhookTarget(notification.TransactionStatus, notification.FraudStatus)
	if !ok {
		uc.countWebhook("ignored")
		return nil
	}

	failureReason := ""
	if target == domain.PaymentStatusFailed {
		failureReason = "gateway: " + notification.TransactionStatus
	}

	err := uc.Uow.Execute(ctx, func(ctx context.Context, repos domain.RepoProvider) error {
		payment, err := repos.Payments().GetByTransactionID(ctx, notification.TransactionID)
		if err != nil {
			return err
		}

		if payment.Status == target {
			uc.countWebhook("duplicate")
			return nil
		}
		if !payment.Status.CanTransitionTo(target) {
			slog.Warn("webhook for settled payment ignored",
				"payment_id", payment.ID, "status", payment.Status, "target", target)
			uc.countWebhook("ignored")
			return nil
		}

		if raw, marshalErr := json.Marshal(notification); marshalErr == nil {
			if err := repos.Payments().SetGatewayInfo(ctx, payment.ID, notification.TransactionID, string(raw)); err != nil {
				return err
			}
		}

		return uc.UpdatePaymentStatusIn(ctx, repos, payment, target, failureReason)
	})
	if err != nil {
		// A concurrent webhook delivery winning the guarded update is the
		// same outcome as a duplicate.
		if errors.Is(err, domain.ErrStaleTransition) {
			uc.countWebhook("duplicate")
			return nil
		}
		uc.countWebhook("error")
		return err
	}

	uc.countWebhook(string(target))
	return nil
}

func (uc *DefaultPaymentUsecase) countWebhook(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.WebhooksTotal.WithLabelValues(outcome).Inc()
	}
}
