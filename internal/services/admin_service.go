// internal/services/admin_service.go
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

// AdminService backs the back-office dashboard: headline numbers, the
// financial ledger, weekly growth tracking, settings, and the audit trail.
type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalOrders        int64   `json:"total_orders"`
	OrdersThisMonth    int64   `json:"orders_this_month"`
	OpenOrders         int64   `json:"open_orders"`
	OrdersInProduction int64   `json:"orders_in_production"`
	TotalRevenue       float64 `json:"total_revenue"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	MonthlyProfit      float64 `json:"monthly_profit"`
	TotalCustomers     int64   `json:"total_customers"`
	NewCustomersMonth  int64   `json:"new_customers_this_month"`
	ActiveProducts     int64   `json:"active_products"`
	PendingRequests    int64   `json:"pending_custom_requests"`
	LowStockItems      int64   `json:"low_stock_items"`
	RevenueGrowth      float64 `json:"revenue_growth"`
	OrderGrowth        float64 `json:"order_growth"`
}

type FinancialEntryRequest struct {
	Category    models.FinancialCategory `json:"category" validate:"required,oneof=revenue cogs advertising equipment misc"`
	Amount      float64                  `json:"amount" validate:"required"`
	Description string                   `json:"description" validate:"required,max=500"`
	EntryDate   time.Time                `json:"entry_date" validate:"required"`
	OrderID     *uuid.UUID               `json:"order_id,omitempty"`
}

// FinancialSummary totals the ledger by category over a date range.
// Expenses are stored as positive amounts in their own categories, so
// profit is revenue minus everything else.
type FinancialSummary struct {
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Revenue    float64            `json:"revenue"`
	Expenses   float64            `json:"expenses"`
	Profit     float64            `json:"profit"`
	ByCategory map[string]float64 `json:"by_category"`
}

type GrowthMetricRequest struct {
	WeekStart          time.Time `json:"week_start" validate:"required"`
	UnitsSold          int       `json:"units_sold" validate:"min=0"`
	Revenue            float64   `json:"revenue" validate:"min=0"`
	WebsiteTraffic     int       `json:"website_traffic" validate:"min=0"`
	EventsBooked       int       `json:"events_booked" validate:"min=0"`
	WholesaleInquiries int       `json:"wholesale_inquiries" validate:"min=0"`
	SocialReach        int       `json:"social_reach" validate:"min=0"`
	Notes              string    `json:"notes,omitempty"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	openStatuses := []models.OrderStatus{
		models.OrderStatusNew, models.OrderStatusPaid,
		models.OrderStatusInProduction, models.OrderStatusReady,
	}

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).Where("created_at >= ?", monthStart).Count(&stats.OrdersThisMonth)
	s.db.Model(&models.Order{}).Where("status IN ?", openStatuses).Count(&stats.OpenOrders)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusInProduction).Count(&stats.OrdersInProduction)

	s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalRevenue)
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, monthStart).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.MonthlyRevenue)
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, monthStart).
		Select("COALESCE(SUM(profit), 0)").Scan(&stats.MonthlyProfit)

	s.db.Model(&models.User{}).Where("is_admin = ?", false).Count(&stats.TotalCustomers)
	s.db.Model(&models.User{}).
		Where("is_admin = ? AND created_at >= ?", false, monthStart).
		Count(&stats.NewCustomersMonth)

	s.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts)
	s.db.Model(&models.CustomDesignRequest{}).
		Where("status = ?", models.RequestStatusPending).Count(&stats.PendingRequests)
	s.db.Model(&models.ApparelInventory{}).
		Where("quantity <= reorder_threshold AND reorder_threshold > 0").
		Count(&stats.LowStockItems)

	var lastMonthOrders int64
	s.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthOrders)

	var lastMonthRevenue float64
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?",
			models.PaymentStatusPaid, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total), 0)").Scan(&lastMonthRevenue)

	if lastMonthOrders > 0 {
		stats.OrderGrowth = float64(stats.OrdersThisMonth-lastMonthOrders) / float64(lastMonthOrders) * 100
	}
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = (stats.MonthlyRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	return stats, nil
}

// Financial ledger

func (s *AdminService) CreateFinancialEntry(req *FinancialEntryRequest) (*models.FinancialEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	entry := &models.FinancialEntry{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		EntryDate:   req.EntryDate,
		OrderID:     req.OrderID,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create financial entry: %w", err)
	}
	return entry, nil
}

func (s *AdminService) ListFinancialEntries(params utils.PaginationParams, category models.FinancialCategory, start, end *time.Time) ([]models.FinancialEntry, int64, error) {
	query := s.db.Model(&models.FinancialEntry{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if start != nil {
		query = query.Where("entry_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("entry_date <= ?", *end)
	}
	if params.Search != "" {
		query = query.Where("description LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count financial entries: %w", err)
	}

	allowedSortFields := []string{"entry_date", "amount", "category", "created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var entries []models.FinancialEntry
	if err := query.Preload("Order").Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch financial entries: %w", err)
	}
	return entries, total, nil
}

func (s *AdminService) DeleteFinancialEntry(entryID uuid.UUID) error {
	result := s.db.Delete(&models.FinancialEntry{}, "id = ?", entryID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete financial entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("financial entry not found")
	}
	return nil
}

func (s *AdminService) GetFinancialSummary(start, end time.Time) (*FinancialSummary, error) {
	type categoryTotal struct {
		Category string
		Total    float64
	}
	var rows []categoryTotal
	err := s.db.Model(&models.FinancialEntry{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("entry_date >= ? AND entry_date <= ?", start, end).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize finances: %w", err)
	}

	summary := &FinancialSummary{
		Start:      start,
		End:        end,
		ByCategory: make(map[string]float64),
	}
	for _, row := range rows {
		summary.ByCategory[row.Category] = row.Total
		if row.Category == string(models.FinancialRevenue) {
			summary.Revenue += row.Total
		} else {
			summary.Expenses += row.Total
		}
	}
	summary.Profit = summary.Revenue - summary.Expenses
	return summary, nil
}

// Growth metrics

// RecordGrowthMetrics upserts the tracking row for a week. Re-submitting
// the same week_start replaces the earlier numbers.
func (s *AdminService) RecordGrowthMetrics(req *GrowthMetricRequest) (*models.GrowthMetric, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var metric models.GrowthMetric
	err := s.db.Where("week_start = ?", req.WeekStart).First(&metric).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metric = models.GrowthMetric{WeekStart: req.WeekStart}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	metric.UnitsSold = req.UnitsSold
	metric.Revenue = req.Revenue
	metric.WebsiteTraffic = req.WebsiteTraffic
	metric.EventsBooked = req.EventsBooked
	metric.WholesaleInquiries = req.WholesaleInquiries
	metric.SocialReach = req.SocialReach
	metric.Notes = req.Notes

	if err := s.db.Save(&metric).Error; err != nil {
		return nil, fmt.Errorf("failed to save growth metrics: %w", err)
	}
	return &metric, nil
}

func (s *AdminService) ListGrowthMetrics(weeks int) ([]models.GrowthMetric, error) {
	if weeks <= 0 || weeks > 104 {
		weeks = 12
	}
	var metrics []models.GrowthMetric
	err := s.db.Order("week_start DESC").Limit(weeks).Find(&metrics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list growth metrics: %w", err)
	}
	return metrics, nil
}

// Settings

func (s *AdminService) GetSettings() (map[string]string, error) {
	var settings []models.SystemSetting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

func (s *AdminService) GetSetting(key string) (string, error) {
	var setting models.SystemSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("setting not found")
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return setting.Value, nil
}

func (s *AdminService) UpdateSetting(key, value string, adminID uuid.UUID) error {
	var setting models.SystemSetting
	err := s.db.Where("key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.SystemSetting{Key: key, Value: value}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
		s.CreateAuditLog(&adminID, "CREATE_SETTING", "system_setting", &setting.ID,
			nil, map[string]interface{}{"key": key, "value": value}, "", "")
		return nil
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	oldValue := setting.Value
	if err := s.db.Model(&setting).Update("value", value).Error; err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}
	s.CreateAuditLog(&adminID, "UPDATE_SETTING", "system_setting", &setting.ID,
		map[string]interface{}{"value": oldValue},
		map[string]interface{}{"value": value}, "", "")
	return nil
}

// Audit trail

func (s *AdminService) CreateAuditLog(userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}, ipAddress, userAgent string) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	}
	// Audit writes never fail the action they describe.
	s.db.Create(entry)
}

func (s *AdminService) ListAuditLogs(params utils.PaginationParams, resourceType string) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if params.Search != "" {
		query = query.Where("action LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplyPagination(query.Order("created_at DESC"), params)

	var logs []models.AuditLog
	if err := query.Preload("User").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

// Customer management

func (s *AdminService) ListCustomers(params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "email", "last_name", "last_login_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return users, total, nil
}

func (s *AdminService) SetCustomerAdmin(userID uuid.UUID, isAdmin bool, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if user.ID == adminID && !isAdmin {
		return errors.New("cannot remove your own admin access")
	}
	if err := s.db.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	s.CreateAuditLog(&adminID, "SET_ADMIN_FLAG", "user", &userID,
		map[string]interface{}{"is_admin": !isAdmin},
		map[string]interface{}{"is_admin": isAdmin}, "", "")
	return nil
}
