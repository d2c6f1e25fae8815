// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a supply-chain contact for blanks, transfers, and consumables.
type Vendor struct {
	BaseModel
	Name           string     `json:"name" gorm:"size:200;not null"`
	ContactName    string     `json:"contact_name" gorm:"size:200"`
	ContactEmail   string     `json:"contact_email" gorm:"size:120"`
	ContactPhone   string     `json:"contact_phone" gorm:"size:50"`
	Website        string     `json:"website" gorm:"size:500"`
	LeadTimeDays   int        `json:"lead_time_days"`
	MOQ            int        `json:"moq"`
	PricingTier    string     `json:"pricing_tier" gorm:"size:50"`
	QualityRating  int        `json:"quality_rating"`
	BackupVendorID *uuid.UUID `json:"backup_vendor_id" gorm:"type:uuid"`
	Notes          string     `json:"notes" gorm:"type:text"`

	// Relationships
	BackupVendor *Vendor `json:"backup_vendor,omitempty" gorm:"foreignKey:BackupVendorID"`
}

// ApparelInventory tracks blank garments on hand by brand/color/size.
type ApparelInventory struct {
	BaseModel
	Brand            string  `json:"brand" gorm:"size:100;not null;index"`
	Color            string  `json:"color" gorm:"size:100;not null"`
	Size             string  `json:"size" gorm:"size:20;not null"`
	Quantity         int     `json:"quantity" gorm:"default:0"`
	CostPerUnit      float64 `json:"cost_per_unit" gorm:"type:decimal(10,2)"`
	ReorderThreshold int     `json:"reorder_threshold" gorm:"default:5"`
	Notes            string  `json:"notes" gorm:"type:text"`
}

// NeedsReorder reports whether on-hand quantity is at or below threshold.
func (a *ApparelInventory) NeedsReorder() bool {
	return a.Quantity <= a.ReorderThreshold
}

// TransferInventory tracks DTF/screen-print transfer sheets.
type TransferInventory struct {
	BaseModel
	DesignName   string     `json:"design_name" gorm:"size:200;not null"`
	Size         string     `json:"size" gorm:"size:50"`
	Quantity     int        `json:"quantity" gorm:"default:0"`
	CostPerSheet float64    `json:"cost_per_sheet" gorm:"type:decimal(10,2)"`
	VendorID     *uuid.UUID `json:"vendor_id" gorm:"type:uuid"`
	DeliveryTime string     `json:"delivery_time" gorm:"size:50"`
	Notes        string     `json:"notes" gorm:"type:text"`

	// Relationships
	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

// Supply tracks consumables: heat tape, teflon sheets, packaging, ink.
type Supply struct {
	BaseModel
	Category         string     `json:"category" gorm:"size:50;index"`
	Name             string     `json:"name" gorm:"size:200;not null"`
	Quantity         int        `json:"quantity" gorm:"default:0"`
	Unit             string     `json:"unit" gorm:"size:20;default:'ea'"`
	CostPerUnit      float64    `json:"cost_per_unit" gorm:"type:decimal(10,2)"`
	ReorderThreshold int        `json:"reorder_threshold" gorm:"default:0"`
	VendorID         *uuid.UUID `json:"vendor_id" gorm:"type:uuid"`
	Notes            string     `json:"notes" gorm:"type:text"`

	// Relationships
	Vendor *Vendor `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

// EquipmentLog records maintenance on presses, printers, and cutters.
type EquipmentLog struct {
	BaseModel
	Equipment string     `json:"equipment" gorm:"size:100;not null"`
	Task      string     `json:"task" gorm:"size:200;not null"`
	TaskDate  time.Time  `json:"task_date"`
	NextDue   *time.Time `json:"next_due"`
	Notes     string     `json:"notes" gorm:"type:text"`
}
