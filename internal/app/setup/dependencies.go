package setup

import (
	"fmt"
	"log"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/gateway"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/identity"
	publisher "github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/kafka"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/ledger"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/metrics"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/migrate"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/postgres/repository"
	"github.com/dungtienne2108/marketplace-order-service/internal/infrastructure/rediscache"
	cashbackuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/cashback"
	orderuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/order"
	paymentuc "github.com/dungtienne2108/marketplace-order-service/internal/usecase/payment"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Dependencies is the wired object graph.
type Dependencies struct {
	DB        *gorm.DB
	Publisher *publisher.DefaultKafkaPublisher
	Registry  *prometheus.Registry
	Metrics   *metrics.OrderMetrics

	Orders    orderuc.OrderUsecase
	Payments  paymentuc.PaymentUsecase
	Cashbacks cashbackuc.CashbackUsecase
}

func MustBuild(cfg *config.OrderConfig) *Dependencies {
	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	cache, err := rediscache.NewRedisCache(&cfg.RedisCache)
	if err != nil {
		log.Fatalf("failed to init redis: %v", err)
	}
	invalidator := rediscache.NewInvalidator(cache)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	ledgerClient := ledger.NewHTTPLedgerClient(cfg.LedgerService.Address)
	identityProvider := identity.NewHTTPIdentityProvider(cfg.IdentityService.Address)

	var paymentGateway domain.PaymentGateway
	if cfg.Gateway.ServerKey != "" {
		paymentGateway = gateway.NewMidtransGateway(&cfg.Gateway)
	}

	uow := repository.NewGormUnitOfWork(db)

	cashbacks := cashbackuc.NewDefaultCashbackUsecase(
		uow,
		identityProvider,
		ledgerClient,
		pub,
		orderMetrics,
		cashbackuc.Policy{
			Percentage:    cfg.CashbackPolicy.Percentage,
			EligibleDelay: time.Duration(cfg.CashbackPolicy.EligibleDelayM) * time.Minute,
			ClaimWindow:   time.Duration(cfg.CashbackPolicy.ClaimWindowD) * 24 * time.Hour,
			Currency:      "VND",
		},
	)

	payments := paymentuc.NewDefaultPaymentUsecase(uow, cashbacks, paymentGateway, pub, orderMetrics)

	orders, err := orderuc.NewDefaultOrderUsecase(
		uow,
		identityProvider,
		payments,
		paymentGateway,
		cache,
		invalidator,
		pub,
		orderMetrics,
	)
	if err != nil {
		log.Fatalf("failed to init order usecase: %v", err)
	}

	return &Dependencies{
		DB:        db,
		Publisher: pub,
		Registry:  registry,
		Metrics:   orderMetrics,
		Orders:    orders,
		Payments:  payments,
		Cashbacks: cashbacks,
	}
}
