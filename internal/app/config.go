package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища dev-сервиса заказов.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// envPrefix — общий префикс переменных окружения (OCW_*).
const envPrefix = "ocw"

// WebConfig описывает настройки запуска webapp.
type WebConfig struct {
	HTTPAddr        string `envconfig:"HTTP_ADDR"`
	MetricsAddr     string `envconfig:"METRICS_ADDR"`
	OrderServiceURL string `envconfig:"ORDER_SERVICE_URL"`

	// Очистка защёлок визитов и неактивных сессий.
	LatchPruneInterval time.Duration `envconfig:"LATCH_PRUNE_INTERVAL"`
	LatchMaxAge        time.Duration `envconfig:"LATCH_MAX_AGE"`
	SessionMaxAge      time.Duration `envconfig:"SESSION_MAX_AGE"`
}

// DefaultWebConfig возвращает базовые настройки webapp.
func DefaultWebConfig() WebConfig {
	return WebConfig{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		OrderServiceURL:    "http://localhost:8000",
		LatchPruneInterval: 30 * time.Minute,
		LatchMaxAge:        30 * time.Minute,
		SessionMaxAge:      time.Hour,
	}
}

// ReadWebConfig читает конфигурацию webapp с переопределением через OCW_*.
func ReadWebConfig() (WebConfig, error) {
	cfg := DefaultWebConfig()
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return WebConfig{}, fmt.Errorf("read web config: %w", err)
	}
	return cfg, nil
}

// ServiceConfig описывает настройки запуска dev-сервиса заказов.
type ServiceConfig struct {
	ServiceAddr        string `envconfig:"SERVICE_ADDR"`
	ServiceMetricsAddr string `envconfig:"SERVICE_METRICS_ADDR"`

	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`

	// KafkaBrokers — список брокеров через запятую; пусто — события выключены.
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
}

// DefaultServiceConfig возвращает базовые настройки dev-сервиса.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ServiceAddr:        ":8000",
		ServiceMetricsAddr: ":9091",
		StorageDriver:      StorageDriverMemory,
	}
}

// ReadServiceConfig читает конфигурацию dev-сервиса с переопределением через OCW_*.
func ReadServiceConfig() (ServiceConfig, error) {
	cfg := DefaultServiceConfig()
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return ServiceConfig{}, fmt.Errorf("read service config: %w", err)
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return ServiceConfig{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.PostgresDSN == "" {
		return ServiceConfig{}, fmt.Errorf("postgres driver requires OCW_POSTGRES_DSN")
	}

	return cfg, nil
}
