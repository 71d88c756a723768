package model

import (
	"time"

	"github.com/shopspring/decimal"
)

//
// ────────────────────────────────────────────────
//   Canonical catalog models
// ────────────────────────────────────────────────
//
// The canonical shapes are what the storefront renderer consumes. They are
// built fresh on every synchronization run and never mutated afterwards.
// Nullable numeric fields use pointers: nil means "vendor did not say",
// which is distinct from zero.
//

// Variation is a purchasable unit of a product, carrying its own price,
// SKU and stock count.
type Variation struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	SKU      string           `json:"sku,omitempty"`
	Price    *decimal.Decimal `json:"price"` // major currency units, nil when unpriced
	Currency string           `json:"currency"`
	Stock    *int64           `json:"stock"` // nil means unknown, never 0
}

// ModifierOption is a single selectable modifier (e.g. "Gift wrap").
type ModifierOption struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency,omitempty"`
}

// ModifierList groups modifier options with the vendor's selection rules.
type ModifierList struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	SelectionType string           `json:"selectionType"` // SINGLE | MULTIPLE
	MinSelected   *int             `json:"minSelected"`
	MaxSelected   *int             `json:"maxSelected"`
	Options       []ModifierOption `json:"options"`
}

// Product is the normalized, vendor-independent product record.
// Variations is never empty: items with no resolvable variations are
// dropped during aggregation.
type Product struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Thumbnail     *string          `json:"thumbnail"`
	Currency      string           `json:"currency"`
	PriceMin      *decimal.Decimal `json:"price_min"`
	PriceMax      *decimal.Decimal `json:"price_max"`
	Variations    []Variation      `json:"variations"`
	ModifierLists []ModifierList   `json:"modifier_lists,omitempty"`
	Sizes         []string         `json:"sizes,omitempty"`
	Category      *string          `json:"category"`
	Tags          []string         `json:"tags"`
	Stock         *int64           `json:"stock"` // sum over known variation stock, nil when all unknown
	URL           string           `json:"url,omitempty"`
}

// Document is the JSON document handed to the renderer. GeneratedAt is the
// only field expected to differ between runs over identical vendor data.
type Document struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Count       int       `json:"count"`
	Items       []Product `json:"items"`
}

// NewDocument wraps an assembled product list with its generation metadata.
func NewDocument(items []Product) Document {
	return Document{
		GeneratedAt: time.Now().UTC(),
		Count:       len(items),
		Items:       items,
	}
}
