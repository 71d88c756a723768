package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/httpclient"
	"github.com/gildedlane/catalog-sync/internal/metrics"
)

// Base URLs per vendor environment.
const (
	ProductionBaseURL = "https://connect.squareup.com"
	SandboxBaseURL    = "https://connect.squareupsandbox.com"
)

// DefaultVersion pins the vendor API version header.
const DefaultVersion = "2025-03-19"

// inventoryChunkSize is the vendor's batch-retrieve limit headroom.
const inventoryChunkSize = 90

// BaseURLFor maps an environment name ("production"/"sandbox") to its API
// base URL. Unknown values fall back to production.
func BaseURLFor(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "sandbox") {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

// Client talks to the Square Catalog and Inventory REST APIs.
type Client struct {
	logger  *zap.Logger
	exec    *httpclient.Executor
	baseURL string
	token   string
	version string
}

// NewClient builds a vendor client. exec carries the retry and rate-limit
// policy; baseURL selects production vs sandbox.
func NewClient(logger *zap.Logger, exec *httpclient.Executor, baseURL, token, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		logger:  logger,
		exec:    exec,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		version: version,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Square-Version", c.version)
}

// apiError shapes a non-2xx vendor response into a readable error.
func apiError(status int, body []byte) error {
	var payload struct {
		Errors []APIError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		details := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			if e.Detail != "" {
				details = append(details, e.Detail)
			} else {
				details = append(details, e.Code)
			}
		}
		return fmt.Errorf("square api error %d: %s", status, strings.Join(details, ", "))
	}
	return fmt.Errorf("square api error %d", status)
}

// ErrorHandler is the executor error handler for vendor responses.
func ErrorHandler(status int, body []byte) error {
	return apiError(status, body)
}

// ListCatalogObjects pages through /v2/catalog/list for the given object
// types until the cursor is exhausted, returning the raw objects.
func (c *Client) ListCatalogObjects(ctx context.Context, types []string) ([]CatalogObject, error) {
	var (
		objects []CatalogObject
		cursor  string
		page    int
	)

	for {
		u, err := url.Parse(c.baseURL + "/v2/catalog/list")
		if err != nil {
			return nil, fmt.Errorf("catalog list url: %w", err)
		}
		q := u.Query()
		q.Set("types", strings.Join(types, ","))
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		var resp listCatalogResponse
		if err := c.exec.DoJSON(ctx, req, "catalog.list", &resp); err != nil {
			metrics.IncVendorRequest("catalog.list", "error")
			return nil, fmt.Errorf("catalog list page %d: %w", page, err)
		}
		metrics.IncVendorRequest("catalog.list", "ok")

		objects = append(objects, resp.Objects...)
		page++

		c.logger.Debug("square.catalog_page",
			zap.Int("page", page),
			zap.Int("objects", len(resp.Objects)),
			zap.Bool("more", resp.Cursor != ""))

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	c.logger.Info("square.catalog_listed",
		zap.Int("objects", len(objects)),
		zap.Int("pages", page))
	return objects, nil
}

// BatchInventoryCounts retrieves stock quantities for the given variation
// ids at one location, chunked to the vendor's batch-size limit. Quantities
// for the same variation across states are summed. The returned map only
// contains variations the vendor reported; absent ids remain unknown.
func (c *Client) BatchInventoryCounts(ctx context.Context, variationIDs []string, locationID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(variationIDs) == 0 || locationID == "" {
		return counts, nil
	}

	for start := 0; start < len(variationIDs); start += inventoryChunkSize {
		end := start + inventoryChunkSize
		if end > len(variationIDs) {
			end = len(variationIDs)
		}

		body := batchCountsRequest{
			CatalogObjectIDs: variationIDs[start:end],
			LocationIDs:      []string{locationID},
			States:           []string{"IN_STOCK", "RESERVED"},
		}

		for {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				c.baseURL+"/v2/inventory/batch-retrieve-counts", bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			c.setHeaders(req)
			req.Header.Set("Content-Type", "application/json")

			var resp batchCountsResponse
			if err := c.exec.DoJSON(ctx, req, "inventory.counts", &resp); err != nil {
				metrics.IncVendorRequest("inventory.counts", "error")
				return nil, fmt.Errorf("inventory counts: %w", err)
			}
			metrics.IncVendorRequest("inventory.counts", "ok")

			for _, count := range resp.Counts {
				if count.CatalogObjectID == "" {
					continue
				}
				qty, err := decimal.NewFromString(strings.TrimSpace(count.Quantity))
				if err != nil {
					c.logger.Warn("square.bad_quantity",
						zap.String("variation", count.CatalogObjectID),
						zap.String("quantity", count.Quantity))
					continue
				}
				counts[count.CatalogObjectID] += qty.IntPart()
			}

			if resp.Cursor == "" {
				break
			}
			body.Cursor = resp.Cursor
		}
	}

	c.logger.Info("square.inventory_counts",
		zap.Int("variations_requested", len(variationIDs)),
		zap.Int("variations_reported", len(counts)),
		zap.String("location", locationID))
	return counts, nil
}
