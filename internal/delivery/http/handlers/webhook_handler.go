package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	paymentdto "github.com/dungtienne2108/marketplace-order-service/internal/usecase/dto/payment"
	paymentuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/payment"
)

type PaymentWebhookHandler struct {
	Payments paymentuc.PaymentUsecase
}

func NewPaymentWebhookHandler(payments paymentuc.PaymentUsecase) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{Payments: payments}
}

// ServeHTTP accepts gateway notifications. An unknown transaction id is
// acknowledged with 200 after logging so the gateway stops redelivering
// a notification we can never match.
func (h *PaymentWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var notification paymentdto.GatewayNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	err := h.Payments.HandleGatewayWebhook(r.Context(), &notification)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case domain.IsForbidden(err):
		http.Error(w, "invalid signature", http.StatusForbidden)
	case domain.IsNotFound(err):
		slog.Warn("webhook for unknown transaction",
			"transaction_id", notification.TransactionID, "order_id", notification.OrderID)
		w.WriteHeader(http.StatusOK)
	default:
		slog.Error("webhook processing failed",
			"transaction_id", notification.TransactionID, "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// NewRouter mounts the inbound HTTP surface.
func NewRouter(payments paymentuc.PaymentUsecase) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/v1/payments/notify", NewPaymentWebhookHandler(payments))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
