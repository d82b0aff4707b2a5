package models

import "time"

// ProductVariantModel is owned by the catalog subsystem; this service
// only reads it and mutates stock during placement and cancellation.
type ProductVariantModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	ProductID   string `gorm:"type:uuid;index:idx_variants_product"`
	ShopID      string `gorm:"type:uuid"`
	Name        string
	ProductName string
	ImageURL    string
	SKU         string
	Price       float64
	Stock       int `gorm:"not null;check:stock >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductVariantModel) TableName() string {
	return "product_variants"
}
