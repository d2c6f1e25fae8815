// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// InventoryService covers the shop-side stock ledgers: blank apparel on
// hand, DTF transfer sheets, consumable supplies, vendors, and the press
// maintenance log.
type InventoryService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type VendorRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	ContactName    string     `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	ContactEmail   string     `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone   string     `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	Website        string     `json:"website,omitempty" validate:"omitempty,url"`
	LeadTimeDays   int        `json:"lead_time_days,omitempty" validate:"omitempty,min=0,max=365"`
	MOQ            int        `json:"moq,omitempty" validate:"omitempty,min=0"`
	PricingTier    string     `json:"pricing_tier,omitempty"`
	QualityRating  int        `json:"quality_rating,omitempty" validate:"omitempty,min=1,max=5"`
	BackupVendorID *uuid.UUID `json:"backup_vendor_id,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type ApparelItemRequest struct {
	Brand            string  `json:"brand" validate:"required,max=100"`
	Color            string  `json:"color" validate:"required,max=100"`
	Size             string  `json:"size" validate:"required,size_label"`
	Quantity         int     `json:"quantity" validate:"min=0"`
	CostPerUnit      float64 `json:"cost_per_unit" validate:"min=0"`
	ReorderThreshold int     `json:"reorder_threshold" validate:"min=0"`
	Notes            string  `json:"notes,omitempty"`
}

type TransferItemRequest struct {
	DesignName   string     `json:"design_name" validate:"required,max=200"`
	Size         string     `json:"size" validate:"required,max=50"`
	Quantity     int        `json:"quantity" validate:"min=0"`
	CostPerSheet float64    `json:"cost_per_sheet" validate:"min=0"`
	VendorID     *uuid.UUID `json:"vendor_id,omitempty"`
	DeliveryTime string     `json:"delivery_time,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type SupplyRequest struct {
	Category         string     `json:"category" validate:"required,max=100"`
	Name             string     `json:"name" validate:"required,max=200"`
	Quantity         int        `json:"quantity" validate:"min=0"`
	Unit             string     `json:"unit,omitempty" validate:"omitempty,max=50"`
	CostPerUnit      float64    `json:"cost_per_unit" validate:"min=0"`
	ReorderThreshold int        `json:"reorder_threshold" validate:"min=0"`
	VendorID         *uuid.UUID `json:"vendor_id,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

type EquipmentLogRequest struct {
	Equipment string     `json:"equipment" validate:"required,max=200"`
	Task      string     `json:"task" validate:"required,max=500"`
	TaskDate  time.Time  `json:"task_date" validate:"required"`
	NextDue   *time.Time `json:"next_due,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// AdjustQuantityRequest moves a stock count up or down, for receiving
// shipments and logging press runs.
type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func NewInventoryService(db *gorm.DB, notificationService *NotificationService) *InventoryService {
	return &InventoryService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Vendors

func (s *InventoryService) CreateVendor(req *VendorRequest) (*models.Vendor, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	vendor := &models.Vendor{
		Name:           req.Name,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Website:        req.Website,
		LeadTimeDays:   req.LeadTimeDays,
		MOQ:            req.MOQ,
		PricingTier:    req.PricingTier,
		QualityRating:  req.QualityRating,
		BackupVendorID: req.BackupVendorID,
		Notes:          req.Notes,
	}
	if err := s.db.Create(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return vendor, nil
}

func (s *InventoryService) ListVendors() ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := s.db.Preload("BackupVendor").Order("name").Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

func (s *InventoryService) UpdateVendor(vendorID uuid.UUID, req *VendorRequest) (*models.Vendor, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	var vendor models.Vendor
	if err := s.db.First(&vendor, "id = ?", vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vendor not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	updates := map[string]interface{}{
		"name":             req.Name,
		"contact_name":     req.ContactName,
		"contact_email":    req.ContactEmail,
		"contact_phone":    req.ContactPhone,
		"website":          req.Website,
		"lead_time_days":   req.LeadTimeDays,
		"moq":              req.MOQ,
		"pricing_tier":     req.PricingTier,
		"quality_rating":   req.QualityRating,
		"backup_vendor_id": req.BackupVendorID,
		"notes":            req.Notes,
	}
	if err := s.db.Model(&vendor).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return &vendor, nil
}

func (s *InventoryService) DeleteVendor(vendorID uuid.UUID) error {
	result := s.db.Delete(&models.Vendor{}, "id = ?", vendorID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vendor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("vendor not found")
	}
	return nil
}

// Blank apparel

func (s *InventoryService) CreateApparelItem(req *ApparelItemRequest) (*models.ApparelInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	item := &models.ApparelInventory{
		Brand:            req.Brand,
		Color:            req.Color,
		Size:             req.Size,
		Quantity:         req.Quantity,
		CostPerUnit:      req.CostPerUnit,
		ReorderThreshold: req.ReorderThreshold,
		Notes:            req.Notes,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create apparel item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) ListApparel() ([]models.ApparelInventory, error) {
	var items []models.ApparelInventory
	if err := s.db.Order("brand, color, size").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list apparel inventory: %w", err)
	}
	return items, nil
}

func (s *InventoryService) UpdateApparelItem(itemID uuid.UUID, req *ApparelItemRequest) (*models.ApparelInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	var item models.ApparelInventory
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("apparel item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	updates := map[string]interface{}{
		"brand":             req.Brand,
		"color":             req.Color,
		"size":              req.Size,
		"quantity":          req.Quantity,
		"cost_per_unit":     req.CostPerUnit,
		"reorder_threshold": req.ReorderThreshold,
		"notes":             req.Notes,
	}
	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update apparel item: %w", err)
	}
	s.checkApparelReorder(&item)
	return &item, nil
}

// AdjustApparelQuantity applies a signed delta to an apparel item's count
// and fires a low-stock alert when the change crosses the reorder line.
func (s *InventoryService) AdjustApparelQuantity(itemID uuid.UUID, req *AdjustQuantityRequest) (*models.ApparelInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	var item models.ApparelInventory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("apparel item not found")
			}
			return fmt.Errorf("database error: %w", err)
		}
		next := item.Quantity + req.Delta
		if next < 0 {
			return fmt.Errorf("cannot remove %d units, only %d on hand", -req.Delta, item.Quantity)
		}
		item.Quantity = next
		return tx.Model(&item).Update("quantity", next).Error
	})
	if err != nil {
		return nil, err
	}
	s.checkApparelReorder(&item)
	return &item, nil
}

func (s *InventoryService) DeleteApparelItem(itemID uuid.UUID) error {
	result := s.db.Delete(&models.ApparelInventory{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete apparel item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("apparel item not found")
	}
	return nil
}

// LowStockReport lists every apparel item and supply sitting at or below
// its reorder threshold.
func (s *InventoryService) LowStockReport() ([]models.ApparelInventory, []models.Supply, error) {
	var apparel []models.ApparelInventory
	if err := s.db.Where("quantity <= reorder_threshold AND reorder_threshold > 0").
		Order("brand, color, size").Find(&apparel).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query low apparel stock: %w", err)
	}
	var supplies []models.Supply
	if err := s.db.Where("quantity <= reorder_threshold AND reorder_threshold > 0").
		Order("category, name").Find(&supplies).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query low supplies: %w", err)
	}
	return apparel, supplies, nil
}

func (s *InventoryService) checkApparelReorder(item *models.ApparelInventory) {
	if !item.NeedsReorder() || s.notificationService == nil {
		return
	}
	label := fmt.Sprintf("%s %s %s", item.Brand, item.Color, item.Size)
	s.notificationService.NotifyAdminLowStock(label, item.Quantity, item.ReorderThreshold)
}

// Transfer sheets

func (s *InventoryService) CreateTransferItem(req *TransferItemRequest) (*models.TransferInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	item := &models.TransferInventory{
		DesignName:   req.DesignName,
		Size:         req.Size,
		Quantity:     req.Quantity,
		CostPerSheet: req.CostPerSheet,
		VendorID:     req.VendorID,
		DeliveryTime: req.DeliveryTime,
		Notes:        req.Notes,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create transfer item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) ListTransfers() ([]models.TransferInventory, error) {
	var items []models.TransferInventory
	if err := s.db.Preload("Vendor").Order("design_name, size").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list transfer inventory: %w", err)
	}
	return items, nil
}

func (s *InventoryService) UpdateTransferItem(itemID uuid.UUID, req *TransferItemRequest) (*models.TransferInventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	var item models.TransferInventory
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transfer item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	updates := map[string]interface{}{
		"design_name":    req.DesignName,
		"size":           req.Size,
		"quantity":       req.Quantity,
		"cost_per_sheet": req.CostPerSheet,
		"vendor_id":      req.VendorID,
		"delivery_time":  req.DeliveryTime,
		"notes":          req.Notes,
	}
	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update transfer item: %w", err)
	}
	return &item, nil
}

func (s *InventoryService) DeleteTransferItem(itemID uuid.UUID) error {
	result := s.db.Delete(&models.TransferInventory{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transfer item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("transfer item not found")
	}
	return nil
}

// Supplies

func (s *InventoryService) CreateSupply(req *SupplyRequest) (*models.Supply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	supply := &models.Supply{
		Category:         req.Category,
		Name:             req.Name,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		CostPerUnit:      req.CostPerUnit,
		ReorderThreshold: req.ReorderThreshold,
		VendorID:         req.VendorID,
		Notes:            req.Notes,
	}
	if err := s.db.Create(supply).Error; err != nil {
		return nil, fmt.Errorf("failed to create supply: %w", err)
	}
	return supply, nil
}

func (s *InventoryService) ListSupplies(category string) ([]models.Supply, error) {
	query := s.db.Preload("Vendor")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var supplies []models.Supply
	if err := query.Order("category, name").Find(&supplies).Error; err != nil {
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	return supplies, nil
}

func (s *InventoryService) UpdateSupply(supplyID uuid.UUID, req *SupplyRequest) (*models.Supply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	var supply models.Supply
	if err := s.db.First(&supply, "id = ?", supplyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supply not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	updates := map[string]interface{}{
		"category":          req.Category,
		"name":              req.Name,
		"quantity":          req.Quantity,
		"unit":              req.Unit,
		"cost_per_unit":     req.CostPerUnit,
		"reorder_threshold": req.ReorderThreshold,
		"vendor_id":         req.VendorID,
		"notes":             req.Notes,
	}
	if err := s.db.Model(&supply).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update supply: %w", err)
	}
	if supply.Quantity <= supply.ReorderThreshold && supply.ReorderThreshold > 0 && s.notificationService != nil {
		s.notificationService.NotifyAdminLowStock(supply.Name, supply.Quantity, supply.ReorderThreshold)
	}
	return &supply, nil
}

func (s *InventoryService) DeleteSupply(supplyID uuid.UUID) error {
	result := s.db.Delete(&models.Supply{}, "id = ?", supplyID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete supply: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("supply not found")
	}
	return nil
}

// Equipment maintenance log

func (s *InventoryService) LogEquipmentTask(req *EquipmentLogRequest) (*models.EquipmentLog, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	entry := &models.EquipmentLog{
		Equipment: req.Equipment,
		Task:      req.Task,
		TaskDate:  req.TaskDate,
		NextDue:   req.NextDue,
		Notes:     req.Notes,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log equipment task: %w", err)
	}
	return entry, nil
}

func (s *InventoryService) ListEquipmentLog(equipment string) ([]models.EquipmentLog, error) {
	query := s.db.Model(&models.EquipmentLog{})
	if equipment != "" {
		query = query.Where("equipment = ?", equipment)
	}
	var entries []models.EquipmentLog
	if err := query.Order("task_date DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment log: %w", err)
	}
	return entries, nil
}

// MaintenanceDue lists log entries whose next_due date has arrived.
func (s *InventoryService) MaintenanceDue() ([]models.EquipmentLog, error) {
	var entries []models.EquipmentLog
	err := s.db.Where("next_due IS NOT NULL AND next_due <= ?", time.Now()).
		Order("next_due").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due maintenance: %w", err)
	}
	return entries, nil
}
