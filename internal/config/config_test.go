package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that would override defaults
	envVars := []string{
		"SERVICE_NAME", "ENV", "LOG_LEVEL",
		"SQUARE_ENVIRONMENT", "SQUARE_ACCESS_TOKEN", "SQUARE_VERSION",
		"SQUARE_LOCATION_ID", "SQUARE_SECRET_NAME", "AWS_REGION", "TOKEN_CACHE_TTL",
		"OUTPUT_PATH", "SQUARE_MOCK_CATALOG", "RETRY_MAX",
		"REQUESTS_PER_SECOND", "REQUEST_BURST",
		"NATS_URL", "PORT", "METRICS_ADDR",
		"REDIS_ADDR", "REDIS_DB", "INVENTORY_CACHE_TTL",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}

	cfg := Load("catalog-sync")

	if cfg.ServiceName != "catalog-sync" {
		t.Errorf("expected ServiceName=catalog-sync, got %s", cfg.ServiceName)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.SquareEnv != "production" {
		t.Errorf("expected SquareEnv=production, got %s", cfg.SquareEnv)
	}
	if cfg.TokenCacheTTL != 30*time.Minute {
		t.Errorf("expected TokenCacheTTL=30m, got %v", cfg.TokenCacheTTL)
	}
	if cfg.OutputPath != "data/products.json" {
		t.Errorf("expected OutputPath=data/products.json, got %s", cfg.OutputPath)
	}
	if cfg.RetryMax != 3 {
		t.Errorf("expected RetryMax=3, got %d", cfg.RetryMax)
	}
	if cfg.RequestsPerSec != 5 {
		t.Errorf("expected RequestsPerSec=5, got %d", cfg.RequestsPerSec)
	}
	if cfg.RequestBurst != 10 {
		t.Errorf("expected RequestBurst=10, got %d", cfg.RequestBurst)
	}
	if cfg.Port != 9040 {
		t.Errorf("expected Port=9040, got %d", cfg.Port)
	}
	if cfg.InventoryCacheTTL != 30*time.Second {
		t.Errorf("expected InventoryCacheTTL=30s, got %v", cfg.InventoryCacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "test-service")
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SQUARE_ENVIRONMENT", "sandbox")
	t.Setenv("SQUARE_ACCESS_TOKEN", "tok")
	t.Setenv("SQUARE_LOCATION_ID", "LOC1")
	t.Setenv("OUTPUT_PATH", "/tmp/out.json")
	t.Setenv("RETRY_MAX", "5")
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("INVENTORY_CACHE_TTL", "2m")

	cfg := Load("catalog-sync")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName=test-service, got %s", cfg.ServiceName)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %s", cfg.Env)
	}
	if cfg.SquareEnv != "sandbox" {
		t.Errorf("expected SquareEnv=sandbox, got %s", cfg.SquareEnv)
	}
	if cfg.SquareToken != "tok" {
		t.Errorf("expected SquareToken=tok, got %s", cfg.SquareToken)
	}
	if cfg.SquareLocationID != "LOC1" {
		t.Errorf("expected SquareLocationID=LOC1, got %s", cfg.SquareLocationID)
	}
	if cfg.OutputPath != "/tmp/out.json" {
		t.Errorf("expected OutputPath=/tmp/out.json, got %s", cfg.OutputPath)
	}
	if cfg.RetryMax != 5 {
		t.Errorf("expected RetryMax=5, got %d", cfg.RetryMax)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.Port)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("expected RedisAddr=redis:6379, got %s", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected RedisDB=3, got %d", cfg.RedisDB)
	}
	if cfg.InventoryCacheTTL != 2*time.Minute {
		t.Errorf("expected InventoryCacheTTL=2m, got %v", cfg.InventoryCacheTTL)
	}
}
