package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config is the full process configuration. Everything has a usable
// default so a bare `gamestore` starts an in-memory demo instance.
type Config struct {
	Port string `env:"PORT" envDefault:"4000"`

	// Shared secret for webhook HMAC verification. The default is for
	// local demos only.
	WebhookSecret string `env:"DEMO_WEBHOOK_SECRET" envDefault:"demo_secret"`

	// Order persistence. DATABASE_URL wins over PEBBLE_PATH; with
	// neither set, orders live in process memory.
	DatabaseURL string `env:"DATABASE_URL"`
	PebblePath  string `env:"PEBBLE_PATH"`

	// Optional order lifecycle event stream.
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"gamestore.orders"`

	// When DownloadTokenSecret is set, /download/{token} requires a
	// signed token instead of a bare order ID.
	DownloadTokenSecret string        `env:"DOWNLOAD_TOKEN_SECRET"`
	DownloadTokenTTL    time.Duration `env:"DOWNLOAD_TOKEN_TTL" envDefault:"24h"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`

	// Per-IP limit on order creation; 0 disables it.
	CreateOrderLimit         int `env:"CREATE_ORDER_RATE_LIMIT" envDefault:"0"`
	CreateOrderWindowSeconds int `env:"CREATE_ORDER_RATE_WINDOW_SECONDS" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
