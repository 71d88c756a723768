package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/gildedlane/catalog-sync/internal/catalog"
	"github.com/gildedlane/catalog-sync/internal/config"
	"github.com/gildedlane/catalog-sync/internal/httpclient"
	"github.com/gildedlane/catalog-sync/internal/metrics"
	"github.com/gildedlane/catalog-sync/internal/publisher"
	"github.com/gildedlane/catalog-sync/internal/rate"
	"github.com/gildedlane/catalog-sync/internal/secrets"
	"github.com/gildedlane/catalog-sync/internal/square"
	"github.com/gildedlane/catalog-sync/internal/writer"
	"github.com/gildedlane/catalog-sync/pkg/logger"
	"github.com/gildedlane/catalog-sync/pkg/model"
	"github.com/gildedlane/catalog-sync/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load("catalog-sync")

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [catalog-sync]...")

	if cfg.MetricsAddr != "" {
		metrics.StartServer(cfg.MetricsAddr)
	}

	// Abort leaves the previous catalog untouched and the process exits
	// non-zero so the scheduler can tell "no changes made" from success.
	if err := run(ctx, cfg); err != nil {
		logg.Fatalw("sync aborted, previous catalog left untouched", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	logg := logger.S()

	client, err := buildVendorClient(ctx, cfg)
	if err != nil {
		return err
	}

	// A fixture run has no live inventory to consult.
	locationID := cfg.SquareLocationID
	if cfg.MockCatalogPath != "" {
		locationID = ""
	}

	out := writer.NewAtomic(logger.L(), cfg.OutputPath)
	pipe := catalog.NewPipeline(logger.L(), client, out, locationID)

	res, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	logg.Infow("sync succeeded",
		"products", res.Products,
		"skipped", res.Skipped,
		"output", cfg.OutputPath,
	)
	if res.Skipped > 0 {
		logg.Warnw("records skipped during sync", "count", res.Skipped)
	}

	publishSummary(ctx, cfg, res, start)
	return nil
}

// buildVendorClient wires the live REST client, or a local fixture source
// for dry runs.
func buildVendorClient(ctx context.Context, cfg *config.Config) (catalog.VendorClient, error) {
	logg := logger.S()

	if cfg.MockCatalogPath != "" {
		logg.Infow("using mock catalog", "path", cfg.MockCatalogPath)
		return square.NewFileSource(logger.L(), cfg.MockCatalogPath), nil
	}

	var provider secrets.Provider
	if cfg.SquareToken == "" && cfg.SquareSecretName != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		provider = awsProvider
	}

	tokens := secrets.NewTokenSource(logger.L(), provider, cfg.SquareToken, cfg.SquareSecretName, cfg.TokenCacheTTL)
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	logg.Infow("vendor credentials resolved",
		"environment", cfg.SquareEnv,
		"token", utils.MaskToken(token),
	)

	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RequestsPerSec,
		Burst:             cfg.RequestBurst,
	})
	exec := httpclient.New(
		logger.L(),
		rateMgr,
		&http.Client{Timeout: 30 * time.Second},
		cfg.RetryMax,
		"square",
		square.ErrorHandler,
	)

	return square.NewClient(logger.L(), exec, square.BaseURLFor(cfg.SquareEnv), token, cfg.SquareVersion), nil
}

// publishSummary emits the sync.completed event when NATS is configured.
// Event delivery is best-effort: a broker hiccup must not fail a run whose
// catalog is already on disk.
func publishSummary(ctx context.Context, cfg *config.Config, res catalog.Result, start time.Time) {
	if cfg.NATSURL == "" {
		return
	}
	logg := logger.S()

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Warnw("failed to connect to NATS, skipping sync event", "error", err)
		return
	}
	defer nc.Drain() //nolint:errcheck

	pub, err := publisher.New(logger.L(), nc, cfg.ServiceName)
	if err != nil {
		logg.Warnw("failed to init publisher, skipping sync event", "error", err)
		return
	}

	summary := model.SyncSummary{
		RunID:       uuid.New(),
		Environment: cfg.SquareEnv,
		Products:    res.Products,
		Skipped:     res.Skipped,
		OutputPath:  cfg.OutputPath,
		DurationMS:  time.Since(start).Milliseconds(),
		GeneratedAt: res.Document.GeneratedAt,
	}
	if err := pub.PublishSyncCompleted(ctx, summary); err != nil {
		logg.Warnw("failed to publish sync event", "error", err)
	}
}
