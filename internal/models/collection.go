// internal/models/collection.go
package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Collection is a team/school/event storefront reachable by share link.
// Organizers can restrict colors, designs, and placements so a whole team
// orders matching gear.
type Collection struct {
	BaseModel
	Name        string `json:"name" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	ShareToken  string `json:"-" gorm:"uniqueIndex;size:64;not null"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	IsPasswordProtected bool   `json:"is_password_protected" gorm:"default:false"`
	PasswordHash        string `json:"-" gorm:"size:255"`

	// Settings
	PickupAddress      string     `json:"pickup_address" gorm:"type:text"`
	PickupInstructions string     `json:"pickup_instructions" gorm:"type:text"`
	OrderDeadline      *time.Time `json:"order_deadline"`
	ShippingEnabled    bool       `json:"shipping_enabled" gorm:"default:true"`
	TaxRate            float64    `json:"tax_rate" gorm:"default:0"`

	// Organizer restrictions
	RestrictOptions   bool           `json:"restrict_options" gorm:"default:false"`
	AllowedColors     pq.StringArray `json:"allowed_colors" gorm:"type:text[]"`
	AllowedDesignIDs  pq.StringArray `json:"allowed_design_ids" gorm:"type:text[]"`
	AllowedPlacements pq.StringArray `json:"allowed_placements" gorm:"type:text[]"`
	AllowCustomUpload bool           `json:"allow_custom_upload" gorm:"default:true"`
	BackDesignFont    string         `json:"back_design_font" gorm:"size:50"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"many2many:collection_products"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:CollectionID"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if err := c.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if c.ShareToken == "" {
		buf := make([]byte, 32)
		rand.Read(buf)
		c.ShareToken = base64.RawURLEncoding.EncodeToString(buf)
	}
	return nil
}

func (c *Collection) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hashedPassword)
	c.IsPasswordProtected = true
	return nil
}

func (c *Collection) CheckPassword(password string) bool {
	if !c.IsPasswordProtected {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

func (c *Collection) ShareURL() string {
	return "/c/" + c.Slug
}

// ColorAllowed reports whether a color may be ordered in this collection.
func (c *Collection) ColorAllowed(colorName string) bool {
	if !c.RestrictOptions || len(c.AllowedColors) == 0 {
		return true
	}
	for _, allowed := range c.AllowedColors {
		if allowed == colorName {
			return true
		}
	}
	return false
}
