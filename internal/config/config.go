package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type OrderConfig struct {
	Env             string `yaml:"env" env-default:"local"`
	OrderDB         `yaml:"order_db"`
	RedisCache      `yaml:"redis_cache"`
	KafkaService    `yaml:"kafka_service"`
	LedgerService   `yaml:"ledger_service"`
	IdentityService `yaml:"identity_service"`
	HTTPServer      `yaml:"http_server"`
	Gateway         `yaml:"payment_gateway"`
	CashbackPolicy  `yaml:"cashback_policy"`
	Sweeps          `yaml:"sweeps"`
	MetricsServer   `yaml:"metrics_server"`
	LogConfig       `yaml:"log_config"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn" env:"ORDER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type RedisCache struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type KafkaService struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"9092"`
}

type LedgerService struct {
	Address string `yaml:"address" env:"LEDGER_ADDRESS"`
}

type IdentityService struct {
	Address string `yaml:"address" env:"IDENTITY_ADDRESS"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8085"`
}

type Gateway struct {
	ServerKey  string `yaml:"server_key" env:"MIDTRANS_SERVER_KEY"`
	Production bool   `yaml:"production" env-default:"false"`
}

type CashbackPolicy struct {
	Percentage     float64 `yaml:"percentage" env-default:"1.0"`
	EligibleDelayM int     `yaml:"eligible_delay_minutes" env-default:"0"`
	ClaimWindowD   int     `yaml:"claim_window_days" env-default:"30"`
	MaxRetries     int     `yaml:"max_retries" env-default:"3"`
	BatchLimit     int     `yaml:"batch_limit" env-default:"50"`
}

type Sweeps struct {
	PaymentExpirySeconds   int `yaml:"payment_expiry_seconds" env-default:"60"`
	CashbackProcessSeconds int `yaml:"cashback_process_seconds" env-default:"300"`
	CashbackRetrySeconds   int `yaml:"cashback_retry_seconds" env-default:"900"`
	CashbackExpirySeconds  int `yaml:"cashback_expiry_seconds" env-default:"3600"`
}

type MetricsServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"9091"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

func MustLoad() *OrderConfig {
	configPath := os.Getenv("ORDER_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("ORDER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg OrderConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
