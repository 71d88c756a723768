package api

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/cache"
)

// maxInventoryIDs caps one proxy request; callers wanting more should page.
const maxInventoryIDs = 90

// InventoryFetcher is the vendor capability the inventory proxy needs.
type InventoryFetcher interface {
	BatchInventoryCounts(ctx context.Context, variationIDs []string, locationID string) (map[string]int64, error)
}

// Handler serves the generated catalog document and proxies live inventory
// lookups for the storefront.
type Handler struct {
	Logger      *zap.Logger
	CatalogPath string
	Inventory   InventoryFetcher
	LocationID  string
	Cache       *cache.Cache // optional
}

// GetCatalog returns the most recently generated catalog document as-is.
// GET /api/catalog
func (h *Handler) GetCatalog(c *fiber.Ctx) error {
	data, err := os.ReadFile(h.CatalogPath)
	if os.IsNotExist(err) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "catalog not generated yet")
	}
	if err != nil {
		h.Logger.Error("api.catalog_read_failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "catalog unavailable")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// GetInventory proxies a live batch stock lookup, returning a
// variationID→quantity map. Results are cached briefly so a busy product
// page does not hammer the vendor.
// GET /api/inventory?ids=a,b,c
func (h *Handler) GetInventory(c *fiber.Ctx) error {
	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ids required")
	}
	if len(ids) > maxInventoryIDs {
		return fiber.NewError(fiber.StatusBadRequest, "too many ids")
	}
	if h.LocationID == "" {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no location configured")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	cacheKey := inventoryCacheKey(ids)
	if h.Cache != nil {
		var cached map[string]int64
		if ok, err := h.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			return c.JSON(cached)
		}
	}

	counts, err := h.Inventory.BatchInventoryCounts(ctx, ids, h.LocationID)
	if err != nil {
		h.Logger.Error("api.inventory_fetch_failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "inventory lookup failed")
	}

	if h.Cache != nil {
		if err := h.Cache.SetJSON(ctx, cacheKey, counts); err != nil {
			h.Logger.Warn("api.inventory_cache_failed", zap.Error(err))
		}
	}
	return c.JSON(counts)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// inventoryCacheKey is order-insensitive so equivalent requests share one
// cache entry.
func inventoryCacheKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return "inventory:" + strings.Join(sorted, ",")
}
