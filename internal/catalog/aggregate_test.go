package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/square"
)

func pricedVariation(id, itemID string, amount int64) square.CatalogObject {
	v := standaloneVariation(id, itemID)
	v.ItemVariationData.PriceMoney = money(amount, "USD", nil)
	return v
}

// ─── Price bounds and currency ───────────────────────────────────────────────

func TestBuildProducts_PriceBounds(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1",
			pricedVariation("V1", "", 1000),
			pricedVariation("V2", "", 1500),
		),
	})

	products, skipped := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Zero(t, skipped)
	p := products[0]
	require.NotNil(t, p.PriceMin)
	require.NotNil(t, p.PriceMax)
	assert.True(t, p.PriceMin.Equal(decimal.RequireFromString("10")))
	assert.True(t, p.PriceMax.Equal(decimal.RequireFromString("15")))
	assert.Equal(t, "USD", p.Currency)
}

func TestBuildProducts_NoPricesLeavesBoundsNil(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", standaloneVariation("V1", "")),
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Nil(t, products[0].PriceMin)
	assert.Nil(t, products[0].PriceMax)
	assert.Equal(t, "USD", products[0].Currency)
}

func TestBuildProducts_MixedPricesIgnoreUnpriced(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1",
			standaloneVariation("V1", ""),
			pricedVariation("V2", "", 500),
		),
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	require.NotNil(t, products[0].PriceMin)
	assert.True(t, products[0].PriceMin.Equal(*products[0].PriceMax))
	assert.True(t, products[0].PriceMin.Equal(decimal.RequireFromString("5")))
}

// ─── Skips ───────────────────────────────────────────────────────────────────

func TestBuildProducts_SkipsWithoutAborting(t *testing.T) {
	archived := itemWithVariations("ITEM2", standaloneVariation("V2", ""))
	archived.ItemData.IsArchived = true

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", standaloneVariation("V1", "")),
		archived,
		itemWithVariations("ITEM3"),          // zero variations
		{Type: square.TypeItem, ID: "ITEM4"}, // missing payload
	})

	products, skipped := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Equal(t, "ITEM1", products[0].ID)
	assert.Equal(t, 3, skipped)
}

// ─── Stock aggregation ───────────────────────────────────────────────────────

func TestBuildProducts_StockSumsKnownCounts(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1",
			standaloneVariation("V1", ""),
			standaloneVariation("V2", ""),
			standaloneVariation("V3", ""),
		),
	})
	inv := NewInventory(map[string]int64{"V1": 2, "V3": 5})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, inv)

	require.Len(t, products, 1)
	require.NotNil(t, products[0].Stock)
	assert.EqualValues(t, 7, *products[0].Stock)

	require.Len(t, products[0].Variations, 3)
	assert.Nil(t, products[0].Variations[1].Stock, "unfetched variation stays unknown")
}

func TestBuildProducts_StockNilWhenLookupSkipped(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", standaloneVariation("V1", "")),
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Nil(t, products[0].Stock)
}

// ─── Thumbnail, category, tags ───────────────────────────────────────────────

func TestBuildProducts_ThumbnailPrefersItemImage(t *testing.T) {
	v := standaloneVariation("V1", "")
	v.ItemVariationData.ImageIDs = []string{"IMG-VAR"}

	item := itemWithVariations("ITEM1", v)
	item.ItemData.ImageIDs = []string{"IMG-ITEM"}

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		item,
		{Type: square.TypeImage, ID: "IMG-ITEM", ImageData: &square.ImageData{URL: "https://cdn.example.com/item.jpg"}},
		{Type: square.TypeImage, ID: "IMG-VAR", ImageData: &square.ImageData{URL: "https://cdn.example.com/var.jpg"}},
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	require.NotNil(t, products[0].Thumbnail)
	assert.Equal(t, "https://cdn.example.com/item.jpg", *products[0].Thumbnail)
}

func TestBuildProducts_ThumbnailFallsBackToVariationImage(t *testing.T) {
	v := standaloneVariation("V1", "")
	v.ItemVariationData.ImageIDs = []string{"IMG-VAR"}

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", v),
		{Type: square.TypeImage, ID: "IMG-VAR", ImageData: &square.ImageData{URL: "https://cdn.example.com/var.jpg"}},
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	require.NotNil(t, products[0].Thumbnail)
	assert.Equal(t, "https://cdn.example.com/var.jpg", *products[0].Thumbnail)
}

func TestBuildProducts_CategoryAndTags(t *testing.T) {
	item := itemWithVariations("ITEM1", standaloneVariation("V1", ""))
	item.ItemData.CategoryID = "CAT1"
	item.ItemData.Tags = []string{"new", "featured"}

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		item,
		{Type: square.TypeCategory, ID: "CAT1", CategoryData: &square.CategoryData{Name: "Drinks"}},
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Drinks", *products[0].Category)
	assert.Equal(t, []string{"new", "featured"}, products[0].Tags)
	assert.Nil(t, products[0].Thumbnail)
}

func TestBuildProducts_TagsDefaultToEmptySlice(t *testing.T) {
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", standaloneVariation("V1", "")),
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.NotNil(t, products[0].Tags)
	assert.Empty(t, products[0].Tags)
}

// ─── Sizes ───────────────────────────────────────────────────────────────────

func TestBuildProducts_CollectsSizeLabels(t *testing.T) {
	v1 := standaloneVariation("V1", "")
	v1.ItemVariationData.ItemOptionValues = []square.ItemOptionValueRef{
		{ItemOptionID: "OPT-SIZE", ItemOptionValueID: "SIZE-S"},
		{ItemOptionID: "OPT-COLOR", ItemOptionValueID: "COLOR-RED"},
	}
	v2 := standaloneVariation("V2", "")
	v2.ItemVariationData.ItemOptionValues = []square.ItemOptionValueRef{
		{ItemOptionID: "OPT-SIZE", ItemOptionValueID: "SIZE-M"},
	}

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		itemWithVariations("ITEM1", v1, v2),
		{
			Type: square.TypeItemOption,
			ID:   "OPT-SIZE",
			ItemOptionData: &square.ItemOptionData{
				Name: "Size",
				Values: []square.CatalogObject{
					{ID: "SIZE-S", ItemOptionValueData: &square.ItemOptionValueData{Name: "Small"}},
					{ID: "SIZE-M", ItemOptionValueData: &square.ItemOptionValueData{Name: "Medium"}},
				},
			},
		},
		{
			Type: square.TypeItemOption,
			ID:   "OPT-COLOR",
			ItemOptionData: &square.ItemOptionData{
				Name: "Color",
				Values: []square.CatalogObject{
					{ID: "COLOR-RED", ItemOptionValueData: &square.ItemOptionValueData{Name: "Red"}},
				},
			},
		},
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Equal(t, []string{"Small", "Medium"}, products[0].Sizes, "only size-like options contribute")
}

// ─── Modifier lists ──────────────────────────────────────────────────────────

func TestBuildProducts_ResolvesModifierLists(t *testing.T) {
	enabled := true
	disabled := false
	min, max := 0, 3

	item := itemWithVariations("ITEM1", standaloneVariation("V1", ""))
	item.ItemData.ModifierListInfo = []square.ModifierListInfo{
		{ModifierListID: "MOD1", Enabled: &enabled},
		{ModifierListID: "MOD2", Enabled: &disabled},
		{ModifierListID: "MOD-MISSING"},
	}

	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{
		item,
		{
			Type: square.TypeModifierList,
			ID:   "MOD1",
			ModifierListData: &square.ModifierListData{
				Name:          "Toppings",
				SelectionType: "MULTIPLE",
				MinSelected:   &min,
				MaxSelected:   &max,
				Modifiers: []square.CatalogObject{
					{ID: "M1", ModifierData: &square.ModifierData{Name: "Extra shot", PriceMoney: money(75, "USD", nil)}},
					{ID: "M2", ModifierData: &square.ModifierData{Name: "Oat milk"}},
				},
			},
		},
		{Type: square.TypeModifierList, ID: "MOD2", ModifierListData: &square.ModifierListData{Name: "Hidden"}},
	})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	require.Len(t, products[0].ModifierLists, 1, "disabled and unresolved lists are dropped")

	list := products[0].ModifierLists[0]
	assert.Equal(t, "MOD1", list.ID)
	assert.Equal(t, "Toppings", list.Name)
	assert.Equal(t, "MULTIPLE", list.SelectionType)
	require.Len(t, list.Options, 2)
	require.NotNil(t, list.Options[0].Price)
	assert.True(t, list.Options[0].Price.Equal(decimal.RequireFromString("0.75")))
	assert.Equal(t, "USD", list.Options[0].Currency)
	assert.Nil(t, list.Options[1].Price)
	assert.Equal(t, "", list.Options[1].Currency)
}

// ─── External URL ────────────────────────────────────────────────────────────

func TestExtractCustomURL(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]square.CustomAttributeValue
		expected string
	}{
		{
			name: "preferred label wins over other urls",
			values: map[string]square.CustomAttributeValue{
				"a": {Name: "Docs", StringValue: "https://docs.example.com"},
				"b": {Name: "Product URL", StringValue: "not-a-url"},
				"c": {Name: "product_url", StringValue: "https://shop.example.com/p/1"},
			},
			expected: "https://shop.example.com/p/1",
		},
		{
			name: "key matches when attribute name does not",
			values: map[string]square.CustomAttributeValue{
				"external_url": {StringValue: "https://shop.example.com/p/2"},
			},
			expected: "https://shop.example.com/p/2",
		},
		{
			name: "falls back to any http value",
			values: map[string]square.CustomAttributeValue{
				"note": {Name: "Note", StringValue: "see https elsewhere"},
				"ref":  {Name: "Reference", StringValue: "https://example.com/ref"},
			},
			expected: "https://example.com/ref",
		},
		{
			name: "non-url values yield nothing",
			values: map[string]square.CustomAttributeValue{
				"color": {Name: "Color", StringValue: "red"},
			},
			expected: "",
		},
		{
			name:     "no attributes",
			values:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := square.CatalogObject{Type: square.TypeItem, ID: "ITEM1", CustomAttributeValues: tt.values}
			assert.Equal(t, tt.expected, extractCustomURL(item))
		})
	}
}

func TestBuildProducts_TitleFallback(t *testing.T) {
	item := square.CatalogObject{
		Type: square.TypeItem,
		ID:   "ITEM1",
		ItemData: &square.ItemData{
			Variations: []square.CatalogObject{standaloneVariation("V1", "")},
		},
	}
	ix := BuildIndex(zap.NewNop(), []square.CatalogObject{item})

	products, _ := NewAggregator(zap.NewNop()).BuildProducts(ix, Inventory{})

	require.Len(t, products, 1)
	assert.Equal(t, "Untitled", products[0].Title)
}
