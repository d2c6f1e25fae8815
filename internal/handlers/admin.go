// internal/handlers/admin.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type AdminHandler struct {
	adminService     *services.AdminService
	inventoryService *services.InventoryService
}

func NewAdminHandler(adminService *services.AdminService, inventoryService *services.InventoryService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		inventoryService: inventoryService,
	}
}

func adminID(c *gin.Context) uuid.UUID {
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			return parsed
		}
	}
	return uuid.Nil
}

func parseDateQuery(c *gin.Context, key string) *time.Time {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, stats)
}

// Finances

// POST /admin/finances
func (h *AdminHandler) CreateFinancialEntry(c *gin.Context) {
	var req services.FinancialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	entry, err := h.adminService.CreateFinancialEntry(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"entry": entry})
}

// GET /admin/finances
func (h *AdminHandler) ListFinancialEntries(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := models.FinancialCategory(c.Query("category"))
	start := parseDateQuery(c, "start")
	end := parseDateQuery(c, "end")

	entries, total, err := h.adminService.ListFinancialEntries(params, category, start, end)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

// DELETE /admin/finances/:id
func (h *AdminHandler) DeleteFinancialEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid entry ID", nil)
		return
	}
	if err := h.adminService.DeleteFinancialEntry(entryID); err != nil {
		utils.NotFoundResponse(c, "Financial entry")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Entry deleted"})
}

// GET /admin/finances/summary
func (h *AdminHandler) GetFinancialSummary(c *gin.Context) {
	end := time.Now()
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	if s := parseDateQuery(c, "start"); s != nil {
		start = *s
	}
	if e := parseDateQuery(c, "end"); e != nil {
		end = *e
	}

	summary, err := h.adminService.GetFinancialSummary(start, end)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, summary)
}

// Growth metrics

// POST /admin/growth
func (h *AdminHandler) RecordGrowthMetrics(c *gin.Context) {
	var req services.GrowthMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	metric, err := h.adminService.RecordGrowthMetrics(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"metric": metric})
}

// GET /admin/growth
func (h *AdminHandler) ListGrowthMetrics(c *gin.Context) {
	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "12"))
	metrics, err := h.adminService.ListGrowthMetrics(weeks)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"metrics": metrics})
}

// Settings

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"settings": settings})
}

// PUT /admin/settings/:key
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := h.adminService.UpdateSetting(key, req.Value, adminID(c)); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"key": key, "value": req.Value})
}

// GET /admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	logs, total, err := h.adminService.ListAuditLogs(params, c.Query("resource_type"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}

// Customers

// GET /admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	users, total, err := h.adminService.ListCustomers(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// PUT /admin/customers/:id/admin
func (h *AdminHandler) SetCustomerAdmin(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if err := h.adminService.SetCustomerAdmin(userID, req.IsAdmin, adminID(c)); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Updated"})
}

// Inventory

// GET /admin/inventory/apparel
func (h *AdminHandler) ListApparel(c *gin.Context) {
	items, err := h.inventoryService.ListApparel()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"items": items})
}

// POST /admin/inventory/apparel
func (h *AdminHandler) CreateApparelItem(c *gin.Context) {
	var req services.ApparelItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	item, err := h.inventoryService.CreateApparelItem(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"item": item})
}

// PUT /admin/inventory/apparel/:id
func (h *AdminHandler) UpdateApparelItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}
	var req services.ApparelItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	item, err := h.inventoryService.UpdateApparelItem(itemID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"item": item})
}

// POST /admin/inventory/apparel/:id/adjust
func (h *AdminHandler) AdjustApparelQuantity(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}
	var req services.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	item, err := h.inventoryService.AdjustApparelQuantity(itemID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /admin/inventory/apparel/:id
func (h *AdminHandler) DeleteApparelItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}
	if err := h.inventoryService.DeleteApparelItem(itemID); err != nil {
		utils.NotFoundResponse(c, "Apparel item")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Item deleted"})
}

// GET /admin/inventory/low-stock
func (h *AdminHandler) LowStockReport(c *gin.Context) {
	apparel, supplies, err := h.inventoryService.LowStockReport()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{
		"apparel":  apparel,
		"supplies": supplies,
	})
}

// GET /admin/inventory/transfers
func (h *AdminHandler) ListTransfers(c *gin.Context) {
	items, err := h.inventoryService.ListTransfers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"items": items})
}

// POST /admin/inventory/transfers
func (h *AdminHandler) CreateTransferItem(c *gin.Context) {
	var req services.TransferItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	item, err := h.inventoryService.CreateTransferItem(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"item": item})
}

// PUT /admin/inventory/transfers/:id
func (h *AdminHandler) UpdateTransferItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}
	var req services.TransferItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	item, err := h.inventoryService.UpdateTransferItem(itemID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /admin/inventory/transfers/:id
func (h *AdminHandler) DeleteTransferItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}
	if err := h.inventoryService.DeleteTransferItem(itemID); err != nil {
		utils.NotFoundResponse(c, "Transfer item")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Item deleted"})
}

// GET /admin/inventory/supplies
func (h *AdminHandler) ListSupplies(c *gin.Context) {
	supplies, err := h.inventoryService.ListSupplies(c.Query("category"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"supplies": supplies})
}

// POST /admin/inventory/supplies
func (h *AdminHandler) CreateSupply(c *gin.Context) {
	var req services.SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	supply, err := h.inventoryService.CreateSupply(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"supply": supply})
}

// PUT /admin/inventory/supplies/:id
func (h *AdminHandler) UpdateSupply(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid supply ID", nil)
		return
	}
	var req services.SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	supply, err := h.inventoryService.UpdateSupply(supplyID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"supply": supply})
}

// DELETE /admin/inventory/supplies/:id
func (h *AdminHandler) DeleteSupply(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid supply ID", nil)
		return
	}
	if err := h.inventoryService.DeleteSupply(supplyID); err != nil {
		utils.NotFoundResponse(c, "Supply")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Supply deleted"})
}

// Vendors

// GET /admin/vendors
func (h *AdminHandler) ListVendors(c *gin.Context) {
	vendors, err := h.inventoryService.ListVendors()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"vendors": vendors})
}

// POST /admin/vendors
func (h *AdminHandler) CreateVendor(c *gin.Context) {
	var req services.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	vendor, err := h.inventoryService.CreateVendor(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"vendor": vendor})
}

// PUT /admin/vendors/:id
func (h *AdminHandler) UpdateVendor(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID", nil)
		return
	}
	var req services.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	vendor, err := h.inventoryService.UpdateVendor(vendorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"vendor": vendor})
}

// DELETE /admin/vendors/:id
func (h *AdminHandler) DeleteVendor(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vendor ID", nil)
		return
	}
	if err := h.inventoryService.DeleteVendor(vendorID); err != nil {
		utils.NotFoundResponse(c, "Vendor")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Vendor deleted"})
}

// Equipment log

// GET /admin/equipment-log
func (h *AdminHandler) ListEquipmentLog(c *gin.Context) {
	entries, err := h.inventoryService.ListEquipmentLog(c.Query("equipment"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"entries": entries})
}

// POST /admin/equipment-log
func (h *AdminHandler) LogEquipmentTask(c *gin.Context) {
	var req services.EquipmentLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	entry, err := h.inventoryService.LogEquipmentTask(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"entry": entry})
}

// GET /admin/equipment-log/due
func (h *AdminHandler) MaintenanceDue(c *gin.Context) {
	entries, err := h.inventoryService.MaintenanceDue()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"entries": entries})
}
