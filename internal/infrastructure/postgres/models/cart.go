package models

import "time"

// CartModel and CartItemModel are owned by the cart subsystem; this
// service reads a cart snapshot at placement time and clears it.
type CartModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"type:uuid;uniqueIndex:idx_carts_user"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItemModel `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CartModel) TableName() string {
	return "carts"
}

type CartItemModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	CartID    string `gorm:"type:uuid;index:idx_cart_items_cart"`
	ProductID string `gorm:"type:uuid"`
	VariantID string `gorm:"type:uuid"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}
