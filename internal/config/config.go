package config

import (
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/gildedlane/catalog-sync/pkg/config"
)

// Config holds the runtime configuration shared by the sync job and the
// catalog server. It supports environment-based initialization with
// sensible defaults.
type Config struct {
	ServiceName string // e.g. "catalog-sync"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.

	// Vendor access.
	SquareEnv        string // "production" or "sandbox"
	SquareToken      string // direct token; wins over the secret
	SquareVersion    string // API version header
	SquareLocationID string // empty skips inventory lookups
	SquareSecretName string // AWS Secrets Manager name holding the token
	AWSRegion        string
	TokenCacheTTL    time.Duration

	// Sync job.
	OutputPath      string
	MockCatalogPath string // local fixture instead of the live API
	RetryMax        int
	RequestsPerSec  int
	RequestBurst    int

	// Eventing (optional).
	NATSURL string

	// Catalog server.
	Port              int
	MetricsAddr       string
	RedisAddr         string // empty disables the response cache
	RedisDB           int
	InventoryCacheTTL time.Duration
}

// Load loads configuration from environment variables and .env file if present.
func Load(service string) *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName: pkgconfig.GetEnv("SERVICE_NAME", service),
		Env:         pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:    pkgconfig.GetEnv("LOG_LEVEL", "info"),

		SquareEnv:        pkgconfig.GetEnv("SQUARE_ENVIRONMENT", "production"),
		SquareToken:      pkgconfig.GetEnv("SQUARE_ACCESS_TOKEN", ""),
		SquareVersion:    pkgconfig.GetEnv("SQUARE_VERSION", ""),
		SquareLocationID: pkgconfig.GetEnv("SQUARE_LOCATION_ID", ""),
		SquareSecretName: pkgconfig.GetEnv("SQUARE_SECRET_NAME", ""),
		AWSRegion:        pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		TokenCacheTTL:    pkgconfig.GetEnvDuration("TOKEN_CACHE_TTL", 30*time.Minute),

		OutputPath:      pkgconfig.GetEnv("OUTPUT_PATH", "data/products.json"),
		MockCatalogPath: pkgconfig.GetEnv("SQUARE_MOCK_CATALOG", ""),
		RetryMax:        pkgconfig.GetEnvInt("RETRY_MAX", 3),
		RequestsPerSec:  pkgconfig.GetEnvInt("REQUESTS_PER_SECOND", 5),
		RequestBurst:    pkgconfig.GetEnvInt("REQUEST_BURST", 10),

		NATSURL: pkgconfig.GetEnv("NATS_URL", ""),

		Port:              pkgconfig.GetEnvInt("PORT", 9040),
		MetricsAddr:       pkgconfig.GetEnv("METRICS_ADDR", ""),
		RedisAddr:         pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisDB:           pkgconfig.GetEnvInt("REDIS_DB", 0),
		InventoryCacheTTL: pkgconfig.GetEnvDuration("INVENTORY_CACHE_TTL", 30*time.Second),
	}
}
