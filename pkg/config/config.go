package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	// Remote storefront API this service fronts.
	APIBaseURL string
	APITimeout time.Duration

	// Session backend. Empty RedisAddr means in-memory sessions.
	RedisAddr  string
	SessionTTL time.Duration

	OTLPEndpoint   string
	TracingEnabled bool

	// Cart pricing rates, decimal strings parsed at wiring time.
	TaxRate               string
	FreeShippingThreshold string
	ShippingCost          string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		APIBaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8000"),
		APITimeout: getEnvDuration("API_TIMEOUT", 10*time.Second),

		RedisAddr:  getEnv("REDIS_ADDR", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),

		TaxRate:               getEnv("CART_TAX_RATE", "0.05"),
		FreeShippingThreshold: getEnv("CART_FREE_SHIPPING_THRESHOLD", "100"),
		ShippingCost:          getEnv("CART_SHIPPING_COST", "10"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
