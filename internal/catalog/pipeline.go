package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/metrics"
	"github.com/gildedlane/catalog-sync/internal/square"
	"github.com/gildedlane/catalog-sync/pkg/model"
)

// DefaultTypes is the object-kind filter for the catalog listing.
var DefaultTypes = []string{
	square.TypeItem,
	square.TypeItemVariation,
	square.TypeImage,
	square.TypeModifierList,
	square.TypeCategory,
	square.TypeItemOption,
}

// Fatal run outcomes. Both mean the previous output file was left untouched.
var (
	// ErrEmptyListing is returned when the vendor reports zero catalog objects.
	ErrEmptyListing = errors.New("vendor listing returned no objects")
	// ErrEmptyCatalog is returned when no products could be assembled; an
	// empty document must never replace a previously good catalog.
	ErrEmptyCatalog = errors.New("no products assembled, refusing to replace previous catalog")
)

// VendorClient is the capability surface the pipeline needs from the
// vendor, implemented once by the live REST client and by the fixture
// source.
type VendorClient interface {
	ListCatalogObjects(ctx context.Context, types []string) ([]square.CatalogObject, error)
	BatchInventoryCounts(ctx context.Context, variationIDs []string, locationID string) (map[string]int64, error)
}

// DocumentWriter persists a finished catalog document.
type DocumentWriter interface {
	Write(doc model.Document) error
}

// Result summarizes a completed run.
type Result struct {
	Document model.Document
	Products int
	Skipped  int
}

// Pipeline is one synchronization run: list the raw catalog, look up
// inventory, normalize and aggregate, then write the document atomically.
// Each run is independent; rerunning over unchanged vendor data reproduces
// an identical document apart from its generation timestamp.
type Pipeline struct {
	logger     *zap.Logger
	client     VendorClient
	writer     DocumentWriter
	aggregator *Aggregator
	locationID string
}

// NewPipeline wires a run. locationID may be empty, in which case the
// inventory lookup is skipped and all stock stays unknown.
func NewPipeline(logger *zap.Logger, client VendorClient, writer DocumentWriter, locationID string) *Pipeline {
	return &Pipeline{
		logger:     logger,
		client:     client,
		writer:     writer,
		aggregator: NewAggregator(logger),
		locationID: locationID,
	}
}

// Run executes one synchronization. On any returned error the output file
// has not been touched.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	objects, err := p.client.ListCatalogObjects(ctx, DefaultTypes)
	if err != nil {
		metrics.IncSyncRun("aborted")
		return Result{}, fmt.Errorf("list catalog: %w", err)
	}
	if len(objects) == 0 {
		metrics.IncSyncRun("aborted")
		return Result{}, ErrEmptyListing
	}

	ix := BuildIndex(p.logger, objects)
	inv := p.lookupInventory(ctx, ix)

	products, droppedItems := p.aggregator.BuildProducts(ix, inv)
	skipped := droppedItems + ix.Skipped

	if len(products) == 0 {
		metrics.IncSyncRun("aborted")
		return Result{}, ErrEmptyCatalog
	}

	doc := model.NewDocument(products)
	if err := p.writer.Write(doc); err != nil {
		metrics.IncSyncRun("aborted")
		return Result{}, fmt.Errorf("write catalog: %w", err)
	}

	metrics.IncSyncRun("ok")
	metrics.ObserveSyncDuration(start)
	metrics.SetCatalogSize(len(products))
	metrics.AddSkippedRecords(skipped)

	p.logger.Info("sync.run_complete",
		zap.Int("objects", len(objects)),
		zap.Int("products", len(products)),
		zap.Int("skipped", skipped),
		zap.Bool("inventory", inv.Available()),
		zap.Duration("elapsed", time.Since(start)))

	return Result{Document: doc, Products: len(products), Skipped: skipped}, nil
}

// lookupInventory fetches stock counts when a location is configured. A
// failed lookup degrades to "stock unknown" with a warning; the catalog is
// still worth publishing without counts.
func (p *Pipeline) lookupInventory(ctx context.Context, ix *ObjectIndex) Inventory {
	if p.locationID == "" {
		p.logger.Info("sync.inventory_skipped", zap.String("reason", "no location configured"))
		return Inventory{}
	}

	ids := ix.VariationIDs()
	if len(ids) == 0 {
		return Inventory{}
	}

	counts, err := p.client.BatchInventoryCounts(ctx, ids, p.locationID)
	if err != nil {
		p.logger.Warn("sync.inventory_failed, continuing without stock counts", zap.Error(err))
		return Inventory{}
	}
	return NewInventory(counts)
}
