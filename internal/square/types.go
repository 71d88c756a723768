package square

//
// ────────────────────────────────────────────────
//   Square catalog wire types (REST, snake_case)
// ────────────────────────────────────────────────
//
// Only the fields the pipeline reads are declared; everything else in the
// vendor payload is ignored by encoding/json.
//

// Catalog object types requested from /v2/catalog/list.
const (
	TypeItem          = "ITEM"
	TypeItemVariation = "ITEM_VARIATION"
	TypeImage         = "IMAGE"
	TypeModifierList  = "MODIFIER_LIST"
	TypeCategory      = "CATEGORY"
	TypeItemOption    = "ITEM_OPTION"
)

// Money is the vendor money shape: an integer amount in minor currency
// units plus an optional decimal-places count (absent means 2).
type Money struct {
	Amount        *int64 `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	DecimalPlaces *int32 `json:"decimal_places,omitempty"`
}

// CatalogObject is the tagged union over catalog kinds. Exactly one of the
// *Data payloads is set, matching Type.
type CatalogObject struct {
	Type                  string                          `json:"type"`
	ID                    string                          `json:"id"`
	IsDeleted             bool                            `json:"is_deleted,omitempty"`
	CustomAttributeValues map[string]CustomAttributeValue `json:"custom_attribute_values,omitempty"`

	ItemData            *ItemData            `json:"item_data,omitempty"`
	ItemVariationData   *ItemVariationData   `json:"item_variation_data,omitempty"`
	ImageData           *ImageData           `json:"image_data,omitempty"`
	ModifierListData    *ModifierListData    `json:"modifier_list_data,omitempty"`
	ModifierData        *ModifierData        `json:"modifier_data,omitempty"`
	CategoryData        *CategoryData        `json:"category_data,omitempty"`
	ItemOptionData      *ItemOptionData      `json:"item_option_data,omitempty"`
	ItemOptionValueData *ItemOptionValueData `json:"item_option_value_data,omitempty"`
}

type ItemData struct {
	Name             string             `json:"name,omitempty"`
	Description      string             `json:"description,omitempty"`
	DescriptionHTML  string             `json:"description_html,omitempty"`
	IsArchived       bool               `json:"is_archived,omitempty"`
	CategoryID       string             `json:"category_id,omitempty"`
	ImageIDs         []string           `json:"image_ids,omitempty"`
	Variations       []CatalogObject    `json:"variations,omitempty"`
	ModifierListInfo []ModifierListInfo `json:"modifier_list_info,omitempty"`
	Tags             []string           `json:"tags,omitempty"`
}

type ItemVariationData struct {
	ItemID           string               `json:"item_id,omitempty"`
	Name             string               `json:"name,omitempty"`
	SKU              string               `json:"sku,omitempty"`
	PriceMoney       *Money               `json:"price_money,omitempty"`
	ImageIDs         []string             `json:"image_ids,omitempty"`
	ItemOptionValues []ItemOptionValueRef `json:"item_option_values,omitempty"`
}

type ItemOptionValueRef struct {
	ItemOptionID      string `json:"item_option_id"`
	ItemOptionValueID string `json:"item_option_value_id"`
}

type ImageData struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type ModifierListInfo struct {
	ModifierListID string `json:"modifier_list_id"`
	Enabled        *bool  `json:"enabled,omitempty"`
}

type ModifierListData struct {
	Name          string          `json:"name,omitempty"`
	SelectionType string          `json:"selection_type,omitempty"`
	MinSelected   *int            `json:"minimum_selected_modifiers,omitempty"`
	MaxSelected   *int            `json:"maximum_selected_modifiers,omitempty"`
	Modifiers     []CatalogObject `json:"modifiers,omitempty"`
}

type ModifierData struct {
	Name           string `json:"name,omitempty"`
	PriceMoney     *Money `json:"price_money,omitempty"`
	ModifierListID string `json:"modifier_list_id,omitempty"`
}

type CategoryData struct {
	Name string `json:"name,omitempty"`
}

type ItemOptionData struct {
	Name   string          `json:"name,omitempty"`
	Values []CatalogObject `json:"values,omitempty"`
}

type ItemOptionValueData struct {
	ItemOptionID string `json:"item_option_id,omitempty"`
	Name         string `json:"name,omitempty"`
}

type CustomAttributeValue struct {
	Name        string `json:"name,omitempty"`
	StringValue string `json:"string_value,omitempty"`
}

// APIError is one entry of the vendor's errors array.
type APIError struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type listCatalogResponse struct {
	Objects []CatalogObject `json:"objects,omitempty"`
	Cursor  string          `json:"cursor,omitempty"`
	Errors  []APIError      `json:"errors,omitempty"`
}

// InventoryCount is one per-location stock count; Quantity arrives as a
// decimal string (e.g. "2" or "2.0").
type InventoryCount struct {
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
	LocationID      string `json:"location_id,omitempty"`
	State           string `json:"state,omitempty"`
	Quantity        string `json:"quantity,omitempty"`
}

type batchCountsRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
	LocationIDs      []string `json:"location_ids"`
	States           []string `json:"states,omitempty"`
	Cursor           string   `json:"cursor,omitempty"`
}

type batchCountsResponse struct {
	Counts []InventoryCount `json:"counts,omitempty"`
	Cursor string           `json:"cursor,omitempty"`
	Errors []APIError       `json:"errors,omitempty"`
}
