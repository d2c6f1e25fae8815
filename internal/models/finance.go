// internal/models/finance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// FinancialEntry is a bucketed ledger line: revenue, COGS, advertising,
// equipment, or misc. Order-linked entries are created at payment time.
type FinancialEntry struct {
	BaseModel
	Category    FinancialCategory `json:"category" gorm:"type:varchar(20);not null;index"`
	Amount      float64           `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description string            `json:"description" gorm:"type:text"`
	EntryDate   time.Time         `json:"entry_date" gorm:"index"`
	OrderID     *uuid.UUID        `json:"order_id" gorm:"type:uuid"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// GrowthMetric is one weekly row for the growth dashboard.
type GrowthMetric struct {
	BaseModel
	WeekStart          time.Time `json:"week_start" gorm:"not null;index"`
	UnitsSold          int       `json:"units_sold" gorm:"default:0"`
	Revenue            float64   `json:"revenue" gorm:"type:decimal(10,2);default:0"`
	WebsiteTraffic     int       `json:"website_traffic" gorm:"default:0"`
	EventsBooked       int       `json:"events_booked" gorm:"default:0"`
	WholesaleInquiries int       `json:"wholesale_inquiries" gorm:"default:0"`
	SocialReach        int       `json:"social_reach" gorm:"default:0"`
	Notes              string    `json:"notes" gorm:"type:text"`
}
