// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a sellable garment style from the supplier catalog.
// AvailableColors is legacy/advisory; the authoritative color set is the
// set of ColorVariant rows.
type Product struct {
	BaseModel
	StyleNumber         string         `json:"style_number" gorm:"uniqueIndex;size:50;not null"`
	Name                string         `json:"name" gorm:"size:200;not null"`
	Category            string         `json:"category" gorm:"size:50;index"`
	Description         string         `json:"description" gorm:"type:text"`
	Brand               string         `json:"brand" gorm:"size:100"`
	BasePrice           float64        `json:"base_price" gorm:"type:decimal(10,2);not null"`
	WholesaleCost       float64        `json:"wholesale_cost" gorm:"type:decimal(10,2)"`
	IsActive            bool           `json:"is_active" gorm:"default:true;index"`
	AvailableSizes      pq.StringArray `json:"available_sizes" gorm:"type:text[]"`
	AvailableColors     pq.StringArray `json:"available_colors" gorm:"type:text[]"`
	FrontMockupTemplate string         `json:"front_mockup_template" gorm:"size:500"`
	BackMockupTemplate  string         `json:"back_mockup_template" gorm:"size:500"`
	PrintAreaConfig     JSONB          `json:"print_area_config" gorm:"type:jsonb"`
	FitGuide            string         `json:"fit_guide" gorm:"type:text"`
	FabricDetails       string         `json:"fabric_details" gorm:"type:text"`
	SupplierStyleID     string         `json:"supplier_style_id" gorm:"size:50;index"`
	LastSyncedAt        *time.Time     `json:"last_synced_at"`

	// Relationships
	ColorVariants []ColorVariant `json:"color_variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OrderItems    []OrderItem    `json:"order_items,omitempty" gorm:"foreignKey:ProductID"`
}

// ColorVariant is one (product, color) pair carrying its own images and
// per-size inventory. At most one row per (product_id, color_name).
type ColorVariant struct {
	BaseModel
	ProductID       uuid.UUID     `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_color"`
	ColorName       string        `json:"color_name" gorm:"size:100;not null;uniqueIndex:idx_product_color"`
	ColorHex        string        `json:"color_hex" gorm:"size:7"`
	FrontImageURL   string        `json:"front_image_url" gorm:"size:500"`
	BackImageURL    string        `json:"back_image_url" gorm:"size:500"`
	SideImageURL    string        `json:"side_image_url" gorm:"size:500"`
	SizeInventory   SizeInventory `json:"size_inventory" gorm:"type:jsonb"`
	SupplierColorID string        `json:"supplier_color_id" gorm:"size:50"`
	LastSyncedAt    *time.Time    `json:"last_synced_at"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
