package repository

import (
	"context"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/mappers"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultVariantRepository struct {
	DB *gorm.DB
}

func NewDefaultVariantRepository(db *gorm.DB) *DefaultVariantRepository {
	return &DefaultVariantRepository{DB: db}
}

func (r *DefaultVariantRepository) GetByID(ctx context.Context, variantID string) (*domain.Variant, error) {
	var variantModel models.ProductVariantModel
	if err := r.DB.WithContext(ctx).First(&variantModel, "id = ?", variantID).Error; err != nil {
		return nil, notFoundOr("get variant", "variant", variantID, err)
	}
	return mappers.ToDomainVariant(&variantModel), nil
}

// DecrementStockBatch applies each decrement as a guarded single
// statement. A guard miss means the stock check raced another order, so
// the error aborts the caller's transaction and none of the batch
// survives.
func (r *DefaultVariantRepository) DecrementStockBatch(ctx context.Context, updates []domain.StockUpdate) error {
	for _, update := range updates {
		res := r.DB.WithContext(ctx).
			Model(&models.ProductVariantModel{}).
			Where("id = ? AND stock >= ?", update.VariantID, update.Quantity).
			Update("stock", gorm.Expr("stock - ?", update.Quantity))
		if res.Error != nil {
			return translate("decrement stock", res.Error)
		}
		if res.RowsAffected == 0 {
			available := 0
			var variantModel models.ProductVariantModel
			if err := r.DB.WithContext(ctx).First(&variantModel, "id = ?", update.VariantID).Error; err == nil {
				available = variantModel.Stock
			}
			return &domain.InsufficientStockError{
				VariantID: update.VariantID,
				Requested: update.Quantity,
				Available: available,
			}
		}
	}
	return nil
}

func (r *DefaultVariantRepository) RestoreStockBatch(ctx context.Context, updates []domain.StockUpdate) error {
	for _, update := range updates {
		res := r.DB.WithContext(ctx).
			Model(&models.ProductVariantModel{}).
			Where("id = ?", update.VariantID).
			Update("stock", gorm.Expr("stock + ?", update.Quantity))
		if res.Error != nil {
			return translate("restore stock", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("variant", update.VariantID)
		}
	}
	return nil
}
