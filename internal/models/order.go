// internal/models/order.go
package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	OrderNumber  string     `json:"order_number" gorm:"uniqueIndex;size:50;not null"`
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	CollectionID *uuid.UUID `json:"collection_id" gorm:"type:uuid;index"`

	// Contact info (guest checkout keeps these without a user record)
	Email     string `json:"email" gorm:"size:120"`
	FirstName string `json:"first_name" gorm:"size:100"`
	LastName  string `json:"last_name" gorm:"size:100"`
	Phone     string `json:"phone" gorm:"size:20"`

	// Fulfillment
	FulfillmentMethod FulfillmentMethod `json:"fulfillment_method" gorm:"type:varchar(20);default:'pickup'"`
	ShippingRecipient string            `json:"shipping_recipient" gorm:"size:200"`
	ShippingStreet    string            `json:"shipping_street" gorm:"size:200"`
	ShippingStreet2   string            `json:"shipping_street_2" gorm:"size:200"`
	ShippingCity      string            `json:"shipping_city" gorm:"size:100"`
	ShippingState     string            `json:"shipping_state" gorm:"size:50"`
	ShippingZip       string            `json:"shipping_zip" gorm:"size:20"`
	ShippingCountry   string            `json:"shipping_country" gorm:"size:50;default:'USA'"`

	// Pricing
	Subtotal     float64 `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ShippingCost float64 `json:"shipping_cost" gorm:"type:decimal(10,2);default:0"`
	Tax          float64 `json:"tax" gorm:"type:decimal(10,2);default:0"`
	Total        float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	// Payment
	PaymentMethod   string        `json:"payment_method" gorm:"size:50"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentIntentID string        `json:"payment_intent_id" gorm:"size:200"`
	PayPalOrderID   string        `json:"paypal_order_id" gorm:"size:200"`
	PaidAt          *time.Time    `json:"paid_at"`

	// Status labels (flat vocabulary, no transition machine)
	Status          OrderStatus     `json:"status" gorm:"type:varchar(50);default:'new';index"`
	ProductionStage ProductionStage `json:"production_stage" gorm:"type:varchar(50)"`

	// Revenue tracking
	OrderType   OrderType  `json:"order_type" gorm:"type:varchar(20);default:'retail'"`
	DueDate     *time.Time `json:"due_date"`
	CostOfGoods float64    `json:"cost_of_goods" gorm:"type:decimal(10,2)"`
	Profit      float64    `json:"profit" gorm:"type:decimal(10,2)"`
	IsRefunded  bool       `json:"is_refunded" gorm:"default:false"`
	RefundNotes string     `json:"refund_notes" gorm:"type:text"`

	// Tracking
	TrackingNumber string `json:"tracking_number" gorm:"size:200"`
	Carrier        string `json:"carrier" gorm:"size:100"`

	CustomerNotes string `json:"customer_notes" gorm:"type:text"`
	AdminNotes    string `json:"admin_notes" gorm:"type:text"`

	// Relationships
	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Collection *Collection `json:"collection,omitempty" gorm:"foreignKey:CollectionID"`
	Items      []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if err := o.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if o.OrderNumber == "" {
		o.OrderNumber = GenerateOrderNumber()
	}
	return nil
}

// MatchesEmail checks a guest tracking lookup against the contact email,
// falling back to the account email for signed-in orders.
func (o *Order) MatchesEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if o.Email != "" {
		return strings.ToLower(o.Email) == email
	}
	return o.User != nil && strings.ToLower(o.User.Email) == email
}

// GenerateOrderNumber returns PMKC + yyyymmdd + 8 random hex chars.
func GenerateOrderNumber() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return "PMKC" + time.Now().UTC().Format("20060102") + strings.ToUpper(hex.EncodeToString(buf))
}

// OrderItem snapshots product details at time of order.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null"`
	DesignID  *uuid.UUID `json:"design_id" gorm:"type:uuid"`

	ProductName string  `json:"product_name" gorm:"size:200"`
	StyleNumber string  `json:"style_number" gorm:"size:50"`
	Size        string  `json:"size" gorm:"size:20;not null"`
	Color       string  `json:"color" gorm:"size:100;not null"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Subtotal    float64 `json:"subtotal" gorm:"type:decimal(10,2);not null"`

	// Print specifications
	Placement          string  `json:"placement" gorm:"size:50"`
	PrintType          string  `json:"print_type" gorm:"size:50"`
	DesignFileName     string  `json:"design_file_name" gorm:"size:500"`
	BackDesignFileName string  `json:"back_design_file_name" gorm:"size:500"`
	PrintWidth         float64 `json:"print_width"`
	PrintHeight        float64 `json:"print_height"`
	ProofImage         string  `json:"proof_image" gorm:"size:500"`
	Notes              string  `json:"notes" gorm:"type:text"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Design  *Design  `json:"design,omitempty" gorm:"foreignKey:DesignID"`
}
