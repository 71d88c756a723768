package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/square"
	"github.com/gildedlane/catalog-sync/pkg/model"
)

//
// ────────────────────────────────────────────────
//   Product Aggregator – one canonical product per vendor item
// ────────────────────────────────────────────────
//

// preferred custom-attribute labels for an external product URL.
var urlAttributeKeys = map[string]bool{
	"product_url":  true,
	"external_url": true,
	"url":          true,
	"link":         true,
}

// Aggregator assembles canonical products from an indexed listing plus the
// inventory counts for this run.
type Aggregator struct {
	logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// BuildProducts assembles one canonical product per resolvable item.
// Items that are archived, malformed, or left with zero variations are
// skipped and counted; a bad record never aborts the run. The returned
// list preserves listing order.
func (a *Aggregator) BuildProducts(ix *ObjectIndex, inv Inventory) ([]model.Product, int) {
	products := make([]model.Product, 0, len(ix.Items))
	skipped := 0

	for _, item := range ix.Items {
		product, ok := a.buildProduct(ix, inv, item)
		if !ok {
			skipped++
			continue
		}
		products = append(products, product)
	}

	return products, skipped
}

func (a *Aggregator) buildProduct(ix *ObjectIndex, inv Inventory, item square.CatalogObject) (model.Product, bool) {
	data := item.ItemData
	if data == nil {
		a.logger.Warn("catalog.item_malformed",
			zap.String("item", item.ID),
			zap.String("reason", "missing item payload"))
		return model.Product{}, false
	}
	if data.IsArchived {
		a.logger.Debug("catalog.item_archived", zap.String("item", item.ID))
		return model.Product{}, false
	}

	raw := ix.VariationsFor(item.ID)
	variations := make([]model.Variation, 0, len(raw))
	sizes := newOrderedSet()
	for _, v := range raw {
		variations = append(variations, NormalizeVariation(v, inv))
		collectSizeLabels(ix, v, sizes)
	}

	// Unpurchasable: an item with no resolvable variations is dropped.
	if len(variations) == 0 {
		a.logger.Warn("catalog.item_no_variations",
			zap.String("item", item.ID),
			zap.String("title", data.Name))
		return model.Product{}, false
	}

	priceMin, priceMax := priceBounds(variations)

	title := data.Name
	if title == "" {
		title = "Untitled"
	}
	description := data.DescriptionHTML
	if description == "" {
		description = data.Description
	}

	tags := data.Tags
	if tags == nil {
		tags = []string{}
	}

	product := model.Product{
		ID:            item.ID,
		Title:         title,
		Description:   description,
		Thumbnail:     a.resolveThumbnail(ix, data, raw),
		Currency:      productCurrency(variations),
		PriceMin:      priceMin,
		PriceMax:      priceMax,
		Variations:    variations,
		ModifierLists: a.resolveModifierLists(ix, data),
		Sizes:         sizes.values(),
		Category:      categoryName(ix, data.CategoryID),
		Tags:          tags,
		Stock:         sumStock(variations),
		URL:           extractCustomURL(item),
	}
	return product, true
}

// priceBounds returns the min and max over variations with a defined
// price; both nil when no variation is priced.
func priceBounds(variations []model.Variation) (*decimal.Decimal, *decimal.Decimal) {
	var min, max *decimal.Decimal
	for i := range variations {
		p := variations[i].Price
		if p == nil {
			continue
		}
		if min == nil || p.LessThan(*min) {
			min = p
		}
		if max == nil || p.GreaterThan(*max) {
			max = p
		}
	}
	return min, max
}

// sumStock adds up known variation stock. When every variation is unknown
// the product stock stays unknown; an absent lookup must not read as an
// out-of-stock product.
func sumStock(variations []model.Variation) *int64 {
	var total int64
	known := false
	for i := range variations {
		if variations[i].Stock == nil {
			continue
		}
		total += *variations[i].Stock
		known = true
	}
	if !known {
		return nil
	}
	return &total
}

// productCurrency is the first variation currency, which NormalizeVariation
// guarantees non-empty.
func productCurrency(variations []model.Variation) string {
	for i := range variations {
		if variations[i].Currency != "" {
			return variations[i].Currency
		}
	}
	return fallbackCurrency
}

// resolveThumbnail prefers the item's first image, then the first image
// referenced by any of its variations.
func (a *Aggregator) resolveThumbnail(ix *ObjectIndex, data *square.ItemData, raw []square.CatalogObject) *string {
	for _, id := range data.ImageIDs {
		if url := ix.ImageURL(id); url != "" {
			return &url
		}
	}
	for _, v := range raw {
		if v.ItemVariationData == nil {
			continue
		}
		for _, id := range v.ItemVariationData.ImageIDs {
			if url := ix.ImageURL(id); url != "" {
				return &url
			}
		}
	}
	return nil
}

func (a *Aggregator) resolveModifierLists(ix *ObjectIndex, data *square.ItemData) []model.ModifierList {
	var lists []model.ModifierList
	for _, info := range data.ModifierListInfo {
		if info.Enabled != nil && !*info.Enabled {
			continue
		}
		obj, ok := ix.ModifierLists[info.ModifierListID]
		if !ok || obj.ModifierListData == nil {
			continue
		}
		ld := obj.ModifierListData

		name := ld.Name
		if name == "" {
			name = "Options"
		}
		selection := ld.SelectionType
		if selection == "" {
			selection = "SINGLE"
		}

		options := make([]model.ModifierOption, 0, len(ld.Modifiers))
		for _, mod := range ld.Modifiers {
			md := mod.ModifierData
			if md == nil {
				continue
			}
			optName := md.Name
			if optName == "" {
				optName = "Option"
			}
			options = append(options, model.ModifierOption{
				ID:       mod.ID,
				Name:     optName,
				Price:    MoneyToDecimal(md.PriceMoney),
				Currency: moneyCurrencyOrEmpty(md.PriceMoney),
			})
		}

		lists = append(lists, model.ModifierList{
			ID:            obj.ID,
			Name:          name,
			SelectionType: selection,
			MinSelected:   ld.MinSelected,
			MaxSelected:   ld.MaxSelected,
			Options:       options,
		})
	}
	return lists
}

// moneyCurrencyOrEmpty is the modifier-price variant: no USD fallback, a
// priceless modifier simply has no currency.
func moneyCurrencyOrEmpty(m *square.Money) string {
	if m == nil {
		return ""
	}
	return m.Currency
}

// collectSizeLabels gathers option values whose option reads like a size
// into the product's sizes list.
func collectSizeLabels(ix *ObjectIndex, v square.CatalogObject, sizes *orderedSet) {
	if v.ItemVariationData == nil {
		return
	}
	for _, ref := range v.ItemVariationData.ItemOptionValues {
		value, ok := ix.OptionValues[ref.ItemOptionValueID]
		if !ok {
			continue
		}
		optionName := strings.ToLower(ix.OptionNames[value.OptionID])
		if strings.Contains(optionName, "size") || strings.Contains(optionName, "length") {
			sizes.add(value.Name)
		}
	}
}

func categoryName(ix *ObjectIndex, categoryID string) *string {
	name := ix.CategoryName(categoryID)
	if name == "" {
		return nil
	}
	return &name
}

// extractCustomURL pulls an external product URL out of the item's custom
// attribute values: preferred labels first, then any http(s) value.
func extractCustomURL(item square.CatalogObject) string {
	values := item.CustomAttributeValues
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic across runs

	var fallback string
	for _, key := range keys {
		entry := values[key]
		value := strings.TrimSpace(entry.StringValue)
		if !isHTTPURL(value) {
			continue
		}
		label := strings.ToLower(entry.Name)
		if label == "" {
			label = strings.ToLower(key)
		}
		if urlAttributeKeys[label] || urlAttributeKeys[strings.ToLower(key)] {
			return value
		}
		if fallback == "" {
			fallback = value
		}
	}
	return fallback
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// orderedSet deduplicates strings preserving first-seen order.
type orderedSet struct {
	seen map[string]struct{}
	list []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.list = append(s.list, v)
}

func (s *orderedSet) values() []string {
	return s.list
}
