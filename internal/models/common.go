// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the ID client-side when the database will not,
// which keeps sqlite-backed tests working against the same models.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// SizeInventory maps a size label to an on-hand quantity, e.g.
// {"S": 45, "M": 120, "2XL": 23}. Labels are stored as reported by the
// source; supplier feeds and the shop vocabulary are not guaranteed to
// agree ("XXL" vs "2XL", youth vs adult "S").
type SizeInventory map[string]int

func (s SizeInventory) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SizeInventory) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Total sums quantities across all sizes.
func (s SizeInventory) Total() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

// ZeroedSizes builds an inventory map with every given size at quantity 0.
func ZeroedSizes(sizes []string) SizeInventory {
	inv := make(SizeInventory, len(sizes))
	for _, size := range sizes {
		inv[size] = 0
	}
	return inv
}

// Enums
type OrderStatus string

const (
	OrderStatusNew          OrderStatus = "new"
	OrderStatusPaid         OrderStatus = "paid"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusPickedUp     OrderStatus = "picked_up"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type ProductionStage string

const (
	StageOrderReceived   ProductionStage = "order_received"
	StageWaitingSupplies ProductionStage = "waiting_supplies"
	StageReadyToPress    ProductionStage = "ready_to_press"
	StagePressed         ProductionStage = "pressed"
	StagePackagedReady   ProductionStage = "packaged_ready"
)

type FulfillmentMethod string

const (
	FulfillmentPickup   FulfillmentMethod = "pickup"
	FulfillmentShipping FulfillmentMethod = "shipping"
)

type OrderType string

const (
	OrderTypeRetail    OrderType = "retail"
	OrderTypeWholesale OrderType = "wholesale"
	OrderTypeEvent     OrderType = "event"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusDeclined  RequestStatus = "declined"
)

type FinancialCategory string

const (
	FinancialRevenue     FinancialCategory = "revenue"
	FinancialCOGS        FinancialCategory = "cogs"
	FinancialAdvertising FinancialCategory = "advertising"
	FinancialEquipment   FinancialCategory = "equipment"
	FinancialMisc        FinancialCategory = "misc"
)
