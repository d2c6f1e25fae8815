// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// Cart is an explicit aggregate owned by either a registered user or a
// guest session token. Handlers pass it around explicitly; nothing reads
// cart contents from ambient session state.
type Cart struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	SessionToken string     `json:"-" gorm:"size:64;uniqueIndex"`

	// Relationships
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// Subtotal is the sum of line-item totals.
func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return subtotal
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID  `json:"cart_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null"`
	DesignID  *uuid.UUID `json:"design_id" gorm:"type:uuid"`
	Size      string     `json:"size" gorm:"size:20;not null"`
	Color     string     `json:"color" gorm:"size:100;not null"`
	Quantity  int        `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64    `json:"unit_price" gorm:"type:decimal(10,2);not null"`

	// Print specifications
	Placement     string  `json:"placement" gorm:"size:50"`
	PrintType     string  `json:"print_type" gorm:"size:50"`
	DesignURL     string  `json:"design_url" gorm:"size:500"`
	BackDesignURL string  `json:"back_design_url" gorm:"size:500"`
	PrintWidth    float64 `json:"print_width"`
	PrintHeight   float64 `json:"print_height"`
	Notes         string  `json:"notes" gorm:"type:text"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Design  *Design  `json:"design,omitempty" gorm:"foreignKey:DesignID"`
}
