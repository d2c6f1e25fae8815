// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type OrderService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	cartService         *CartService
	notificationService *NotificationService
}

type CheckoutRequest struct {
	// Contact info; required for guests, overrides profile data otherwise.
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=20"`

	FulfillmentMethod models.FulfillmentMethod `json:"fulfillment_method" validate:"required,oneof=pickup shipping"`
	ShippingRecipient string                   `json:"shipping_recipient,omitempty" validate:"omitempty,max=200"`
	ShippingStreet    string                   `json:"shipping_street,omitempty" validate:"omitempty,max=200"`
	ShippingStreet2   string                   `json:"shipping_street_2,omitempty" validate:"omitempty,max=200"`
	ShippingCity      string                   `json:"shipping_city,omitempty" validate:"omitempty,max=100"`
	ShippingState     string                   `json:"shipping_state,omitempty" validate:"omitempty,max=50"`
	ShippingZip       string                   `json:"shipping_zip,omitempty" validate:"omitempty,max=20"`

	PaymentMethod string     `json:"payment_method" validate:"required,oneof=stripe paypal venmo in_person"`
	CustomerNotes string     `json:"customer_notes,omitempty" validate:"omitempty,max=1000"`
	CollectionID  *uuid.UUID `json:"collection_id,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status          *models.OrderStatus     `json:"status,omitempty"`
	ProductionStage *models.ProductionStage `json:"production_stage,omitempty"`
	TrackingNumber  *string                 `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
	AdminNotes      *string                 `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
	DueDate         *time.Time              `json:"due_date,omitempty"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status          string `json:"status,omitempty"`
	ProductionStage string `json:"production_stage,omitempty"`
	OrderType       string `json:"order_type,omitempty"`
}

// Statuses are flat labels the shop owner moves orders between by hand;
// only the vocabulary is checked, not transition order.
var knownOrderStatuses = map[models.OrderStatus]bool{
	models.OrderStatusNew:          true,
	models.OrderStatusPaid:         true,
	models.OrderStatusInProduction: true,
	models.OrderStatusReady:        true,
	models.OrderStatusPickedUp:     true,
	models.OrderStatusShipped:      true,
	models.OrderStatusCompleted:    true,
	models.OrderStatusCancelled:    true,
}

func NewOrderService(db *gorm.DB, cfg *config.Config, cartService *CartService, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		cfg:                 cfg,
		cartService:         cartService,
		notificationService: notificationService,
	}
}

// Checkout turns a cart into an order. Line items snapshot product name,
// style, and price so later catalog edits never rewrite order history.
func (s *OrderService) Checkout(cart *models.Cart, userID *uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}
	if userID == nil && req.Email == "" {
		return nil, errors.New("guest checkout requires an email address")
	}
	if req.FulfillmentMethod == models.FulfillmentShipping && req.ShippingStreet == "" {
		return nil, errors.New("shipping orders require a shipping address")
	}

	subtotal := cart.Subtotal()
	shipping := 0.0
	if req.FulfillmentMethod == models.FulfillmentShipping {
		shipping = s.cfg.Shipping.FlatRate
	}
	tax := 0.0
	if req.CollectionID != nil {
		var collection models.Collection
		if err := s.db.First(&collection, "id = ?", *req.CollectionID).Error; err != nil {
			return nil, errors.New("collection not found")
		}
		tax = roundCents(subtotal * collection.TaxRate)
	}
	total := roundCents(subtotal + shipping + tax)

	order := &models.Order{
		UserID:            userID,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		FulfillmentMethod: req.FulfillmentMethod,
		ShippingRecipient: req.ShippingRecipient,
		ShippingStreet:    req.ShippingStreet,
		ShippingStreet2:   req.ShippingStreet2,
		ShippingCity:      req.ShippingCity,
		ShippingState:     req.ShippingState,
		ShippingZip:       req.ShippingZip,
		Subtotal:          subtotal,
		ShippingCost:      shipping,
		Tax:               tax,
		Total:             total,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentStatusPending,
		Status:            models.OrderStatusNew,
		ProductionStage:   models.StageOrderReceived,
		OrderType:         models.OrderTypeRetail,
		CollectionID:      req.CollectionID,
		CustomerNotes:     req.CustomerNotes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var costOfGoods float64
		for _, cartItem := range cart.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", cartItem.ProductID).Error; err != nil {
				return fmt.Errorf("product %s no longer exists", cartItem.ProductID)
			}
			costOfGoods += product.WholesaleCost * float64(cartItem.Quantity)
		}
		order.CostOfGoods = roundCents(costOfGoods)
		order.Profit = roundCents(total - order.CostOfGoods - shipping)

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, cartItem := range cart.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", cartItem.ProductID).Error; err != nil {
				return err
			}
			item := models.OrderItem{
				OrderID:            order.ID,
				ProductID:          cartItem.ProductID,
				DesignID:           cartItem.DesignID,
				ProductName:        product.Name,
				StyleNumber:        product.StyleNumber,
				Size:               cartItem.Size,
				Color:              cartItem.Color,
				Quantity:           cartItem.Quantity,
				UnitPrice:          cartItem.UnitPrice,
				Subtotal:           roundCents(cartItem.UnitPrice * float64(cartItem.Quantity)),
				Placement:          cartItem.Placement,
				PrintType:          cartItem.PrintType,
				DesignFileName:     cartItem.DesignURL,
				BackDesignFileName: cartItem.BackDesignURL,
				PrintWidth:         cartItem.PrintWidth,
				PrintHeight:        cartItem.PrintHeight,
				Notes:              cartItem.Notes,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		if err := s.notificationService.SendOrderConfirmation(order); err != nil {
			logrus.WithError(err).WithField("order", order.OrderNumber).Warn("order confirmation email failed")
		}
		s.notificationService.NotifyAdminNewOrder(order)
	}
	return s.GetOrder(order.ID)
}

func (s *OrderService) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) ListUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	query = utils.ApplyPagination(query.Order("created_at DESC"), params)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *OrderService) ListOrders(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ProductionStage != "" {
		query = query.Where("production_stage = ?", params.ProductionStage)
	}
	if params.OrderType != "" {
		query = query.Where("order_type = ?", params.OrderType)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("order_number LIKE ? OR email LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "total", "due_date", "order_number"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *OrderService) UpdateOrder(orderID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil && *req.Status != order.Status {
		if !knownOrderStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown order status %q", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.ProductionStage != nil {
		updates["production_stage"] = *req.ProductionStage
	}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(order).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	}

	if req.Status != nil && s.notificationService != nil {
		switch *req.Status {
		case models.OrderStatusReady:
			s.notificationService.SendOrderReadyEmail(order)
		case models.OrderStatusShipped:
			s.notificationService.SendOrderShippedEmail(order)
		}
	}
	return s.GetOrder(orderID)
}

// MarkPaid records a successful payment against an order. Called by the
// payment webhook and by admins taking in-person payment.
func (s *OrderService) MarkPaid(orderID uuid.UUID, paymentIntentID string) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil // webhook retries are expected
	}

	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"paid_at":        &now,
	}
	if paymentIntentID != "" {
		updates["payment_intent_id"] = paymentIntentID
	}
	if order.Status == models.OrderStatusNew {
		updates["status"] = models.OrderStatusPaid
	}
	if err := s.db.Model(order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	// Paid orders show up in revenue immediately.
	entry := models.FinancialEntry{
		Category:    models.FinancialRevenue,
		Amount:      order.Total,
		EntryDate:   now,
		OrderID:     &order.ID,
		Description: "Order " + order.OrderNumber,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logrus.WithError(err).WithField("order", order.OrderNumber).Error("failed to record sale entry")
	}
	return nil
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
