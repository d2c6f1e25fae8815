// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// CartService manages one cart per logged-in user plus one cart per guest
// session token. Line items snapshot the unit price at add time.
type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID     uuid.UUID  `json:"product_id" validate:"required"`
	DesignID      *uuid.UUID `json:"design_id,omitempty"`
	Size          string     `json:"size" validate:"required,size_label"`
	Color         string     `json:"color" validate:"required,max=100"`
	Quantity      int        `json:"quantity" validate:"required,min=1,max=500"`
	Placement     string     `json:"placement,omitempty" validate:"omitempty,max=50"`
	PrintType     string     `json:"print_type,omitempty" validate:"omitempty,max=50"`
	DesignURL     string     `json:"design_url,omitempty" validate:"omitempty,max=500"`
	BackDesignURL string     `json:"back_design_url,omitempty" validate:"omitempty,max=500"`
	PrintWidth    float64    `json:"print_width,omitempty" validate:"omitempty,min=0,max=16"`
	PrintHeight   float64    `json:"print_height,omitempty" validate:"omitempty,min=0,max=20"`
	Notes         string     `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateCartItemRequest struct {
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=1,max=500"`
	Size     *string `json:"size,omitempty" validate:"omitempty,size_label"`
	Color    *string `json:"color,omitempty" validate:"omitempty,max=100"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreateCart returns the cart for a user or a guest session,
// creating an empty one on first touch. Exactly one of userID and
// sessionToken is expected to be set.
func (s *CartService) GetOrCreateCart(userID *uuid.UUID, sessionToken string) (*models.Cart, error) {
	if userID == nil && sessionToken == "" {
		return nil, errors.New("no cart identity provided")
	}

	var cart models.Cart
	query := s.db.Preload("Items").Preload("Items.Product")
	var err error
	if userID != nil {
		err = query.Where("user_id = ?", *userID).First(&cart).Error
	} else {
		err = query.Where("session_token = ?", sessionToken).First(&cart).Error
	}
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Every cart row carries a unique session token, including carts
	// owned by a user, because the column is uniquely indexed.
	token := sessionToken
	if token == "" {
		token, err = utils.GuestSessionToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session token: %w", err)
		}
	}
	cart = models.Cart{UserID: userID, SessionToken: token}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) AddItem(cart *models.Cart, req *AddCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !product.IsActive {
		return nil, errors.New("product is not available")
	}

	item := &models.CartItem{
		CartID:        cart.ID,
		ProductID:     product.ID,
		DesignID:      req.DesignID,
		Size:          req.Size,
		Color:         req.Color,
		Quantity:      req.Quantity,
		UnitPrice:     product.BasePrice,
		Placement:     req.Placement,
		PrintType:     req.PrintType,
		DesignURL:     req.DesignURL,
		BackDesignURL: req.BackDesignURL,
		PrintWidth:    req.PrintWidth,
		PrintHeight:   req.PrintHeight,
		Notes:         req.Notes,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return item, nil
}

func (s *CartService) UpdateItem(cart *models.Cart, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cart item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Only whitelisted fields are writable; price and product identity
	// are fixed at add time.
	updates := map[string]interface{}{}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
	}
	return &item, nil
}

func (s *CartService) RemoveItem(cart *models.Cart, itemID uuid.UUID) error {
	result := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("cart item not found")
	}
	return nil
}

func (s *CartService) ClearCart(cart *models.Cart) error {
	return s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// MergeGuestCart moves a guest cart's items into the user's cart after
// login, then discards the guest cart.
func (s *CartService) MergeGuestCart(sessionToken string, userID uuid.UUID) error {
	var guestCart models.Cart
	err := s.db.Where("session_token = ?", sessionToken).First(&guestCart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var userCart models.Cart
		err := tx.Where("user_id = ?", userID).First(&userCart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No account cart yet; the guest cart becomes it.
			return tx.Model(&guestCart).Updates(map[string]interface{}{
				"user_id":       userID,
				"session_token": "merged-" + guestCart.SessionToken,
			}).Error
		}
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&models.CartItem{}).
			Where("cart_id = ?", guestCart.ID).
			Update("cart_id", userCart.ID).Error; err != nil {
			return fmt.Errorf("failed to move cart items: %w", err)
		}
		return tx.Delete(&guestCart).Error
	})
}
