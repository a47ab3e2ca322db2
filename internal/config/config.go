package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/balazs-web/smoky-fish-sub000/internal/notify"
	"github.com/balazs-web/smoky-fish-sub000/pkg/kafka"
	"github.com/balazs-web/smoky-fish-sub000/pkg/postgres"
)

// CheckoutConfig is named after the microservice, not the service struct!
type CheckoutConfig struct {
	HTTPPort      int    `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	OrderIDPrefix string `yaml:"order_id_prefix" env:"ORDER_ID_PREFIX" env-default:"SF-"`
	OperatorEmail string `yaml:"operator_email" env:"OPERATOR_EMAIL"`

	ShippingCost          int `yaml:"shipping_cost" env:"SHIPPING_COST" env-default:"1490"`
	FreeShippingThreshold int `yaml:"free_shipping_threshold" env:"FREE_SHIPPING_THRESHOLD" env-default:"25000"`

	KafkaTopic string `yaml:"kafka_topic" env:"KAFKA_TOPIC" env-default:"checkout.orders.created"`

	CatalogBaseURL   string `yaml:"catalog_base_url" env:"CATALOG_BASE_URL"`
	BrandingBaseURL  string `yaml:"branding_base_url" env:"BRANDING_BASE_URL"`
	FallbackSiteName string `yaml:"fallback_site_name" env:"FALLBACK_SITE_NAME" env-default:"Smoky Fish"`

	ClientTimeoutSeconds int `yaml:"client_timeout_seconds" env:"CLIENT_TIMEOUT_SECONDS" env-default:"5"`
	BrandingCacheMinutes int `yaml:"branding_cache_minutes" env:"BRANDING_CACHE_MINUTES" env-default:"10"`
	SessionTTLMinutes    int `yaml:"session_ttl_minutes" env:"SESSION_TTL_MINUTES" env-default:"120"`
}

// RedisConfig keeps the session store optional: empty addr means in-memory sessions
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" env-default:"0"`
}

type Config struct {
	Checkout CheckoutConfig    `yaml:"checkout" env-prefix:"CHECKOUT_"`
	Postgres postgres.Config   `yaml:"postgres" env-prefix:"POSTGRES_"`
	Kafka    kafka.Config      `yaml:"kafka" env-prefix:"KAFKA_"`
	Redis    RedisConfig       `yaml:"redis" env-prefix:"REDIS_"`
	SMTP     notify.SMTPConfig `yaml:"smtp" env-prefix:"SMTP_"`
}

func TryRead() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{},
			fmt.Errorf("failed to read env variables after accessing .env: %w", err)
	}
	return cfg, nil
}

func (c CheckoutConfig) ClientTimeout() time.Duration {
	return time.Duration(c.ClientTimeoutSeconds) * time.Second
}

func (c CheckoutConfig) BrandingCacheTTL() time.Duration {
	return time.Duration(c.BrandingCacheMinutes) * time.Minute
}

func (c CheckoutConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
