package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// MidtransGateway implements domain.PaymentGateway with the midtrans
// core API.
type MidtransGateway struct {
	client    *coreapi.Client
	serverKey string
}

func NewMidtransGateway(cfg *config.Gateway) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	client := &coreapi.Client{}
	client.New(cfg.ServerKey, env)

	return &MidtransGateway{
		client:    client,
		serverKey: cfg.ServerKey,
	}
}

func paymentType(method domain.PaymentMethod) coreapi.CoreapiPaymentType {
	switch method {
	case domain.PaymentMethodBankTransfer:
		return coreapi.PaymentTypeBankTransfer
	case domain.PaymentMethodCreditCard:
		return coreapi.PaymentTypeCreditCard
	default:
		return coreapi.PaymentTypeQris
	}
}

func (g *MidtransGateway) CreateCharge(ctx context.Context, input domain.ChargeInput) (*domain.ChargeResult, error) {
	chargeItems := make([]midtrans.ItemDetails, len(input.Items))
	for i, item := range input.Items {
		chargeItems[i] = midtrans.ItemDetails{
			ID:    item.VariantID,
			Price: int64(item.UnitPrice),
			Qty:   int32(item.Quantity),
			Name:  item.ProductName,
		}
	}

	chargeReq := &coreapi.ChargeReq{
		PaymentType: paymentType(input.Method),
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  input.OrderNumber,
			GrossAmt: int64(input.Amount),
		},
		Items: &chargeItems,
	}

	response, err := g.client.ChargeTransaction(chargeReq)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "midtrans", Err: err}
	}
	if response.StatusCode != "201" && response.StatusCode != "200" {
		return nil, &domain.ExternalServiceError{
			Service: "midtrans",
			Err:     fmt.Errorf("charge returned status %s: %s", response.StatusCode, response.StatusMessage),
		}
	}

	raw, _ := json.Marshal(response)
	return &domain.ChargeResult{
		TransactionID: response.TransactionID,
		RawResponse:   string(raw),
	}, nil
}

// VerifySignature checks the midtrans notification signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderNumber, statusCode, grossAmount, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderNumber + statusCode + grossAmount + g.serverKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}
