// internal/supplier/types.go
package supplier

import "sort"

// StyleSummary is one style row from /v2/styles.
type StyleSummary struct {
	StyleID      int    `json:"styleID"`
	StyleName    string `json:"styleName"`
	BrandName    string `json:"brandName"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	BaseCategory string `json:"baseCategory"`
	StyleImage   string `json:"styleImage"`
	FitType      string `json:"fitType"`
	Fabric       string `json:"fabric"`
}

// SKURecord is one color/size SKU from /v2/products. The feed is not
// consistent about image and quantity field names across brands, so both
// spellings are mapped and EffectiveQty / FrontImageURL pick the first
// non-empty one.
type SKURecord struct {
	SKU             string  `json:"sku"`
	StyleID         int     `json:"styleID"`
	StyleName       string  `json:"styleName"`
	BrandName       string  `json:"brandName"`
	ColorName       string  `json:"colorName"`
	ColorID         int     `json:"colorID"`
	SizeName        string  `json:"sizeName"`
	Qty             int     `json:"qty"`
	Inventory       int     `json:"inventory"`
	ColorFrontImage string  `json:"colorFrontImage"`
	FrontImage      string  `json:"frontImage"`
	ColorBackImage  string  `json:"colorBackImage"`
	BackImage       string  `json:"backImage"`
	ColorSideImage  string  `json:"colorSideImage"`
	CustomerPrice   float64 `json:"customerPrice"`
	PiecePrice      float64 `json:"piecePrice"`
	MapPrice        float64 `json:"mapPrice"`
	Description     string  `json:"description"`
}

func (r SKURecord) EffectiveQty() int {
	if r.Qty > 0 {
		return r.Qty
	}
	return r.Inventory
}

func (r SKURecord) FrontImageURL() string {
	if r.ColorFrontImage != "" {
		return r.ColorFrontImage
	}
	return r.FrontImage
}

func (r SKURecord) BackImageURL() string {
	if r.ColorBackImage != "" {
		return r.ColorBackImage
	}
	return r.BackImage
}

// ColorVariantData is the per-color aggregation of a style's SKUs.
type ColorVariantData struct {
	ColorName  string         `json:"color_name"`
	ColorID    string         `json:"color_id"`
	FrontImage string         `json:"front_image"`
	BackImage  string         `json:"back_image"`
	SideImage  string         `json:"side_image"`
	Sizes      map[string]int `json:"sizes"`
}

// StyleDetail is the assembled view of one style: metadata plus per-color
// size/inventory breakdowns.
type StyleDetail struct {
	StyleID        int                `json:"style_id"`
	StyleName      string             `json:"style_name"`
	StyleNumber    string             `json:"style_number"`
	BrandName      string             `json:"brand_name"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	BaseCategory   string             `json:"base_category"`
	Colors         []string           `json:"colors"`
	Sizes          []string           `json:"sizes"`
	ColorVariants  []ColorVariantData `json:"color_variants"`
	WholesalePrice float64            `json:"wholesale_price"`
	FitGuide       string             `json:"fit_guide"`
	Fabric         string             `json:"fabric"`
}

// InventoryRecord is one row from /v2/inventory.
type InventoryRecord struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Category is one row from /v2/categories.
type Category struct {
	CategoryID int    `json:"categoryID"`
	Name       string `json:"name"`
}

// canonical adult size ladder; unknown labels (youth sizes, "XXL"
// spellings) sort after it in their original order.
var sizeOrder = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "5XL"}

func sizeRank(size string) int {
	for i, s := range sizeOrder {
		if s == size {
			return i
		}
	}
	return len(sizeOrder) + 1
}

// SortSizes orders size labels XS..5XL with unrecognized labels last.
func SortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizeRank(sizes[i]) < sizeRank(sizes[j])
	})
}
