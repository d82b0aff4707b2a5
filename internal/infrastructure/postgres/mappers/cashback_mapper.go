package mappers

import (
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
)

func ToGORMCashback(cashback *domain.Cashback) *models.CashbackModel {
	return &models.CashbackModel{
		ID:            cashback.ID,
		PaymentID:     cashback.PaymentID,
		UserID:        cashback.UserID,
		OrderID:       cashback.OrderID,
		Amount:        cashback.Amount,
		Percentage:    cashback.Percentage,
		Currency:      cashback.Currency,
		WalletAddress: cashback.WalletAddress,
		Status:        cashback.Status,
		EligibleAt:    cashback.EligibleAt,
		ExpiresAt:     cashback.ExpiresAt,
		RetryCount:    cashback.RetryCount,
		TxHash:        cashback.TxHash,
		BlockNumber:   cashback.BlockNumber,
		FailureReason: cashback.FailureReason,
		CreatedAt:     cashback.CreatedAt,
		UpdatedAt:     cashback.UpdatedAt,
	}
}

func ToDomainCashback(model *models.CashbackModel) *domain.Cashback {
	return &domain.Cashback{
		ID:            model.ID,
		PaymentID:     model.PaymentID,
		UserID:        model.UserID,
		OrderID:       model.OrderID,
		Amount:        model.Amount,
		Percentage:    model.Percentage,
		Currency:      model.Currency,
		WalletAddress: model.WalletAddress,
		Status:        model.Status,
		EligibleAt:    model.EligibleAt,
		ExpiresAt:     model.ExpiresAt,
		RetryCount:    model.RetryCount,
		TxHash:        model.TxHash,
		BlockNumber:   model.BlockNumber,
		FailureReason: model.FailureReason,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToDomainVariant(model *models.ProductVariantModel) *domain.Variant {
	return &domain.Variant{
		ID:          model.ID,
		ProductID:   model.ProductID,
		ShopID:      model.ShopID,
		Name:        model.Name,
		ProductName: model.ProductName,
		ImageURL:    model.ImageURL,
		SKU:         model.SKU,
		Price:       model.Price,
		Stock:       model.Stock,
	}
}
