package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/gildedlane/catalog-sync/internal/square"
	"github.com/gildedlane/catalog-sync/pkg/model"
)

//
// ────────────────────────────────────────────────
//   Variation Normalizer – vendor money and stock, once, at the boundary
// ────────────────────────────────────────────────
//

// defaultDecimalPlaces applies when the vendor money object omits its
// decimal-places count.
const defaultDecimalPlaces = 2

// fallbackCurrency applies only when the money object is absent entirely.
const fallbackCurrency = "USD"

// Inventory holds per-variation stock counts from the vendor inventory
// API. The zero value means the lookup was never performed: every Count
// call reports unknown, which is distinct from a performed lookup that
// found nothing for an id.
type Inventory struct {
	counts map[string]int64
}

// NewInventory wraps a count map from the vendor. A nil map means the
// lookup was skipped or failed.
func NewInventory(counts map[string]int64) Inventory {
	return Inventory{counts: counts}
}

// Available reports whether a lookup was performed at all.
func (iv Inventory) Available() bool {
	return iv.counts != nil
}

// Count returns the stock for a variation id, or nil when unknown.
// Unknown is never reported as zero.
func (iv Inventory) Count(variationID string) *int64 {
	if iv.counts == nil {
		return nil
	}
	qty, ok := iv.counts[variationID]
	if !ok {
		return nil
	}
	return &qty
}

// MoneyToDecimal converts a vendor money object from minor units to major
// units: amount / 10^decimal_places, with decimal_places defaulting to 2
// when unspecified. Returns nil when no amount is present. This is the one
// place minor-unit integers become decimals; nothing downstream divides by
// a hard-coded 100.
func MoneyToDecimal(m *square.Money) *decimal.Decimal {
	if m == nil || m.Amount == nil {
		return nil
	}
	places := int32(defaultDecimalPlaces)
	if m.DecimalPlaces != nil {
		places = *m.DecimalPlaces
	}
	d := decimal.New(*m.Amount, -places)
	return &d
}

// moneyCurrency returns the currency carried by a money object, falling
// back to USD only when the money object is absent entirely.
func moneyCurrency(m *square.Money) string {
	if m == nil {
		return fallbackCurrency
	}
	if m.Currency == "" {
		return fallbackCurrency
	}
	return m.Currency
}

// NormalizeVariation converts one raw variation object into its canonical
// record. The result always carries id and name; price and stock are nil
// when undeterminable.
func NormalizeVariation(obj square.CatalogObject, inv Inventory) model.Variation {
	vd := obj.ItemVariationData
	if vd == nil {
		vd = &square.ItemVariationData{}
	}

	name := vd.Name
	if name == "" {
		name = "Variation"
	}

	return model.Variation{
		ID:       obj.ID,
		Name:     name,
		SKU:      vd.SKU,
		Price:    MoneyToDecimal(vd.PriceMoney),
		Currency: moneyCurrency(vd.PriceMoney),
		Stock:    inv.Count(obj.ID),
	}
}
