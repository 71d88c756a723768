package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gildedlane/catalog-sync/internal/api"
	"github.com/gildedlane/catalog-sync/internal/cache"
	"github.com/gildedlane/catalog-sync/internal/config"
	"github.com/gildedlane/catalog-sync/internal/httpclient"
	"github.com/gildedlane/catalog-sync/internal/metrics"
	"github.com/gildedlane/catalog-sync/internal/rate"
	"github.com/gildedlane/catalog-sync/internal/secrets"
	"github.com/gildedlane/catalog-sync/internal/square"
	"github.com/gildedlane/catalog-sync/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load("catalog-server")

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [catalog-server]...")

	if cfg.MetricsAddr != "" {
		metrics.StartServer(cfg.MetricsAddr)
	}

	// --- Vendor client for the inventory proxy ---
	var provider secrets.Provider
	if cfg.SquareToken == "" && cfg.SquareSecretName != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to init AWS provider", "error", err)
		}
		provider = awsProvider
	}
	tokens := secrets.NewTokenSource(logger.L(), provider, cfg.SquareToken, cfg.SquareSecretName, cfg.TokenCacheTTL)
	token, err := tokens.Token(ctx)
	if err != nil {
		logg.Fatalw("failed to resolve vendor credentials", "error", err)
	}

	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RequestsPerSec,
		Burst:             cfg.RequestBurst,
	})
	exec := httpclient.New(
		logger.L(),
		rateMgr,
		&http.Client{Timeout: 15 * time.Second},
		cfg.RetryMax,
		"square",
		square.ErrorHandler,
	)
	client := square.NewClient(logger.L(), exec, square.BaseURLFor(cfg.SquareEnv), token, cfg.SquareVersion)

	// --- Optional Redis response cache ---
	var responseCache *cache.Cache
	if cfg.RedisAddr != "" {
		responseCache, err = cache.New(logger.L(), cfg.RedisAddr, cfg.RedisDB, cfg.InventoryCacheTTL)
		if err != nil {
			logg.Fatalw("failed to init redis cache", "error", err)
		}
		defer responseCache.Close() //nolint:errcheck
	}

	app := fiber.New()
	h := &api.Handler{
		Logger:      logger.L(),
		CatalogPath: cfg.OutputPath,
		Inventory:   client,
		LocationID:  cfg.SquareLocationID,
		Cache:       responseCache,
	}
	api.RegisterRoutes(app, h)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[catalog-server] running",
		"catalog", cfg.OutputPath,
		"location", cfg.SquareLocationID,
	)

	<-ctx.Done()
	stop()
	logg.Info("shutting down [catalog-server]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
}
