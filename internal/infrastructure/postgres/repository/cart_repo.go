package repository

import (
	"context"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCartRepository struct {
	DB *gorm.DB
}

func NewDefaultCartRepository(db *gorm.DB) *DefaultCartRepository {
	return &DefaultCartRepository{DB: db}
}

func (r *DefaultCartRepository) FindCartWithItems(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	var cartModel models.CartModel
	if err := r.DB.WithContext(ctx).Preload("Items").First(&cartModel, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr("find cart", "cart", userID, err)
	}

	items := make([]domain.CartItem, len(cartModel.Items))
	for i, item := range cartModel.Items {
		items[i] = domain.CartItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
	}
	return &domain.CartSnapshot{
		ID:     cartModel.ID,
		UserID: cartModel.UserID,
		Items:  items,
	}, nil
}

func (r *DefaultCartRepository) ClearCart(ctx context.Context, cartID string) error {
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItemModel{}).Error; err != nil {
		return translate("clear cart", err)
	}
	return nil
}
