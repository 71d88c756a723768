package catalog

import (
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/internal/square"
)

//
// ────────────────────────────────────────────────
//   Object Index – per-kind lookups over a raw listing
// ────────────────────────────────────────────────
//

// optionValue resolves an ITEM_OPTION value id back to its option.
type optionValue struct {
	OptionID string
	Name     string
}

// ObjectIndex partitions one raw catalog listing by kind and resolves
// item→variation parentage. It is built in a single pass and never mutated
// afterwards. Variations are attached to their parent from either an
// explicit item_id reference on the variation object or the variation list
// embedded on the item; the vendor returns both shapes depending on how the
// listing was requested.
type ObjectIndex struct {
	Items         []square.CatalogObject
	Images        map[string]square.CatalogObject
	Categories    map[string]square.CatalogObject
	ModifierLists map[string]square.CatalogObject
	OptionNames   map[string]string
	OptionValues  map[string]optionValue

	variationsByItem map[string][]square.CatalogObject
	variationSeen    map[string]map[string]struct{}

	// Skipped counts objects dropped for carrying no id.
	Skipped int
}

// BuildIndex indexes a raw listing. Malformed objects (missing id) are
// skipped with a warning; they never abort the run.
func BuildIndex(logger *zap.Logger, objects []square.CatalogObject) *ObjectIndex {
	ix := &ObjectIndex{
		Images:           make(map[string]square.CatalogObject),
		Categories:       make(map[string]square.CatalogObject),
		ModifierLists:    make(map[string]square.CatalogObject),
		OptionNames:      make(map[string]string),
		OptionValues:     make(map[string]optionValue),
		variationsByItem: make(map[string][]square.CatalogObject),
		variationSeen:    make(map[string]map[string]struct{}),
	}

	for _, obj := range objects {
		if obj.ID == "" {
			logger.Warn("catalog.object_missing_id", zap.String("type", obj.Type))
			ix.Skipped++
			continue
		}
		if obj.IsDeleted {
			continue
		}

		switch obj.Type {
		case square.TypeItem:
			ix.Items = append(ix.Items, obj)
			if obj.ItemData != nil {
				for _, v := range obj.ItemData.Variations {
					if v.ID == "" {
						logger.Warn("catalog.variation_missing_id", zap.String("item", obj.ID))
						ix.Skipped++
						continue
					}
					ix.attachVariation(obj.ID, v)
				}
			}
		case square.TypeItemVariation:
			if obj.ItemVariationData == nil || obj.ItemVariationData.ItemID == "" {
				logger.Warn("catalog.variation_missing_parent", zap.String("variation", obj.ID))
				ix.Skipped++
				continue
			}
			ix.attachVariation(obj.ItemVariationData.ItemID, obj)
		case square.TypeImage:
			ix.Images[obj.ID] = obj
		case square.TypeCategory:
			ix.Categories[obj.ID] = obj
		case square.TypeModifierList:
			ix.ModifierLists[obj.ID] = obj
		case square.TypeItemOption:
			ix.indexOption(obj)
		}
	}

	return ix
}

// attachVariation records a variation under its parent, deduplicating by
// id so a variation present both embedded and standalone counts once.
func (ix *ObjectIndex) attachVariation(itemID string, v square.CatalogObject) {
	seen, ok := ix.variationSeen[itemID]
	if !ok {
		seen = make(map[string]struct{})
		ix.variationSeen[itemID] = seen
	}
	if _, dup := seen[v.ID]; dup {
		return
	}
	seen[v.ID] = struct{}{}
	ix.variationsByItem[itemID] = append(ix.variationsByItem[itemID], v)
}

func (ix *ObjectIndex) indexOption(obj square.CatalogObject) {
	data := obj.ItemOptionData
	if data == nil {
		return
	}
	name := data.Name
	if name == "" {
		name = "Option"
	}
	ix.OptionNames[obj.ID] = name
	for _, value := range data.Values {
		if value.ID == "" {
			continue
		}
		valueName := "Value"
		if value.ItemOptionValueData != nil && value.ItemOptionValueData.Name != "" {
			valueName = value.ItemOptionValueData.Name
		}
		ix.OptionValues[value.ID] = optionValue{OptionID: obj.ID, Name: valueName}
	}
}

// VariationsFor returns the variations attached to an item, in input order.
func (ix *ObjectIndex) VariationsFor(itemID string) []square.CatalogObject {
	return ix.variationsByItem[itemID]
}

// VariationIDs returns every attached variation id across all items, in
// item order. This is the id set handed to the inventory lookup.
func (ix *ObjectIndex) VariationIDs() []string {
	var ids []string
	for _, item := range ix.Items {
		for _, v := range ix.variationsByItem[item.ID] {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// CategoryName resolves a category id to its display name; empty when the
// category is absent or unresolved.
func (ix *ObjectIndex) CategoryName(categoryID string) string {
	if categoryID == "" {
		return ""
	}
	obj, ok := ix.Categories[categoryID]
	if !ok || obj.CategoryData == nil {
		return ""
	}
	return obj.CategoryData.Name
}

// ImageURL resolves an image id to its URL; empty when unknown.
func (ix *ObjectIndex) ImageURL(imageID string) string {
	obj, ok := ix.Images[imageID]
	if !ok || obj.ImageData == nil {
		return ""
	}
	return obj.ImageData.URL
}
