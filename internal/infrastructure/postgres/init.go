package postgres

import (
	"log"

	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.OrderConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ProductVariantModel{},
		&models.CartModel{},
		&models.CartItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderStatusHistoryModel{},
		&models.PaymentModel{},
		&models.CashbackModel{},
	)

	return db
}
