// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// CartHandler serves both signed-in and guest carts. Guests are tracked
// by the X-Cart-Session header; a fresh token comes back on the first
// cart response and the storefront echoes it on every later call.
type CartHandler struct {
	cartService *services.CartService
}

const cartSessionHeader = "X-Cart-Session"

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) resolveCart(c *gin.Context) (*models.Cart, bool) {
	var userID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			userID = &parsed
		}
	}

	cart, err := h.cartService.GetOrCreateCart(userID, c.GetHeader(cartSessionHeader))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return nil, false
	}
	c.Header(cartSessionHeader, cart.SessionToken)
	return cart, true
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{
		"cart":     cart,
		"subtotal": cart.Subtotal(),
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	item, err := h.cartService.AddItem(cart, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"item": item})
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	item, err := h.cartService.UpdateItem(cart, itemID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	if err := h.cartService.RemoveItem(cart, itemID); err != nil {
		utils.NotFoundResponse(c, "Cart item")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Item removed"})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(cart); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Cart cleared"})
}
