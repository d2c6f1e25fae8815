// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
	cartService  *services.CartService
}

func NewOrderHandler(orderService *services.OrderService, cartService *services.CartService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
	}
}

// POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var userID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			userID = &parsed
		}
	}

	cart, err := h.cartService.GetOrCreateCart(userID, c.GetHeader(cartSessionHeader))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.Checkout(cart, userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"order": order})
}

// GET /orders (signed-in customer's own orders)
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.ListUserOrders(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID)
	if err != nil {
		utils.NotFoundResponse(c, "Order")
		return
	}

	// Customers only see their own orders; admins see everything.
	if !utils.IsAdminFromContext(c) {
		userIDStr, exists := utils.GetUserIDFromContext(c)
		if !exists || order.UserID == nil || order.UserID.String() != userIDStr {
			utils.NotFoundResponse(c, "Order")
			return
		}
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /orders/track/:number (guest order lookup by order number + email)
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	orderNumber := c.Param("number")
	email := c.Query("email")
	if orderNumber == "" || email == "" {
		utils.BadRequestResponse(c, "Order number and email are required", nil)
		return
	}

	order, err := h.orderService.GetOrderByNumber(orderNumber)
	if err != nil || !order.MatchesEmail(email) {
		utils.NotFoundResponse(c, "Order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order_number":     order.OrderNumber,
		"status":           order.Status,
		"production_stage": order.ProductionStage,
		"tracking_number":  order.TrackingNumber,
		"carrier":          order.Carrier,
		"placed_at":        order.CreatedAt,
	})
}

// Admin endpoints

// GET /admin/orders
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	params := services.OrderSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Status:           c.Query("status"),
		ProductionStage:  c.Query("production_stage"),
		OrderType:        c.Query("order_type"),
	}

	orders, total, err := h.orderService.ListOrders(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params.PaginationParams))
}

// PUT /admin/orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.UpdateOrder(orderID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"order": order})
}
