// internal/services/collection_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type CollectionService struct {
	db *gorm.DB
}

type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=200"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description string `json:"description,omitempty"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=4"`

	PickupAddress      string     `json:"pickup_address,omitempty"`
	PickupInstructions string     `json:"pickup_instructions,omitempty"`
	OrderDeadline      *time.Time `json:"order_deadline,omitempty"`
	ShippingEnabled    *bool      `json:"shipping_enabled,omitempty"`
	TaxRate            float64    `json:"tax_rate,omitempty" validate:"omitempty,min=0,max=0.2"`

	RestrictOptions   bool     `json:"restrict_options"`
	AllowedColors     []string `json:"allowed_colors,omitempty"`
	AllowedDesignIDs  []string `json:"allowed_design_ids,omitempty"`
	AllowedPlacements []string `json:"allowed_placements,omitempty"`
	AllowCustomUpload *bool    `json:"allow_custom_upload,omitempty"`
	BackDesignFont    string   `json:"back_design_font,omitempty" validate:"omitempty,max=50"`

	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
}

type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Password    *string `json:"password,omitempty"`

	PickupAddress      *string    `json:"pickup_address,omitempty"`
	PickupInstructions *string    `json:"pickup_instructions,omitempty"`
	OrderDeadline      *time.Time `json:"order_deadline,omitempty"`
	ShippingEnabled    *bool      `json:"shipping_enabled,omitempty"`
	TaxRate            *float64   `json:"tax_rate,omitempty" validate:"omitempty,min=0,max=0.2"`

	RestrictOptions   *bool    `json:"restrict_options,omitempty"`
	AllowedColors     []string `json:"allowed_colors,omitempty"`
	AllowedDesignIDs  []string `json:"allowed_design_ids,omitempty"`
	AllowedPlacements []string `json:"allowed_placements,omitempty"`
	AllowCustomUpload *bool    `json:"allow_custom_upload,omitempty"`
	BackDesignFont    *string  `json:"back_design_font,omitempty" validate:"omitempty,max=50"`

	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) CreateCollection(req *CreateCollectionRequest) (*models.Collection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	var existing models.Collection
	if err := s.db.Unscoped().Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, errors.New("a collection with this slug already exists")
	}

	collection := &models.Collection{
		Name:               req.Name,
		Slug:               slug,
		Description:        req.Description,
		IsActive:           true,
		PickupAddress:      req.PickupAddress,
		PickupInstructions: req.PickupInstructions,
		OrderDeadline:      req.OrderDeadline,
		ShippingEnabled:    true,
		TaxRate:            req.TaxRate,
		RestrictOptions:    req.RestrictOptions,
		AllowedColors:      pq.StringArray(req.AllowedColors),
		AllowedDesignIDs:   pq.StringArray(req.AllowedDesignIDs),
		AllowedPlacements:  pq.StringArray(req.AllowedPlacements),
		AllowCustomUpload:  true,
		BackDesignFont:     req.BackDesignFont,
	}
	if req.ShippingEnabled != nil {
		collection.ShippingEnabled = *req.ShippingEnabled
	}
	if req.AllowCustomUpload != nil {
		collection.AllowCustomUpload = *req.AllowCustomUpload
	}
	if req.Password != "" {
		if err := collection.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(collection).Error; err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if len(req.ProductIDs) > 0 {
			return s.replaceProducts(tx, collection, req.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(collection.ID)
}

func (s *CollectionService) GetCollection(collectionID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.Preload("Products", "is_active = ?", true).
		Preload("Products.ColorVariants").
		First(&collection, "id = ?", collectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("collection not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

// GetBySlug loads an active collection for its public storefront page.
// Password-protected collections additionally need VerifyAccess.
func (s *CollectionService) GetBySlug(slug string) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.Preload("Products", "is_active = ?", true).
		Preload("Products.ColorVariants").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("collection not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

// VerifyAccess checks a password attempt against a protected collection.
func (s *CollectionService) VerifyAccess(collection *models.Collection, password string) bool {
	return collection.CheckPassword(password)
}

// DeadlinePassed reports whether the organizer's order cutoff has gone by.
func (s *CollectionService) DeadlinePassed(collection *models.Collection) bool {
	return collection.OrderDeadline != nil && time.Now().After(*collection.OrderDeadline)
}

func (s *CollectionService) ListCollections(params utils.PaginationParams, includeInactive bool) ([]models.Collection, int64, error) {
	query := s.db.Model(&models.Collection{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count collections: %w", err)
	}

	var collections []models.Collection
	query = utils.ApplyPagination(query.Order("created_at DESC"), params)
	if err := query.Find(&collections).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, total, nil
}

func (s *CollectionService) UpdateCollection(collectionID uuid.UUID, req *UpdateCollectionRequest) (*models.Collection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	collection, err := s.GetCollection(collectionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PickupAddress != nil {
		updates["pickup_address"] = *req.PickupAddress
	}
	if req.PickupInstructions != nil {
		updates["pickup_instructions"] = *req.PickupInstructions
	}
	if req.OrderDeadline != nil {
		updates["order_deadline"] = req.OrderDeadline
	}
	if req.ShippingEnabled != nil {
		updates["shipping_enabled"] = *req.ShippingEnabled
	}
	if req.TaxRate != nil {
		updates["tax_rate"] = *req.TaxRate
	}
	if req.RestrictOptions != nil {
		updates["restrict_options"] = *req.RestrictOptions
	}
	if req.AllowedColors != nil {
		updates["allowed_colors"] = pq.StringArray(req.AllowedColors)
	}
	if req.AllowedDesignIDs != nil {
		updates["allowed_design_ids"] = pq.StringArray(req.AllowedDesignIDs)
	}
	if req.AllowedPlacements != nil {
		updates["allowed_placements"] = pq.StringArray(req.AllowedPlacements)
	}
	if req.AllowCustomUpload != nil {
		updates["allow_custom_upload"] = *req.AllowCustomUpload
	}
	if req.BackDesignFont != nil {
		updates["back_design_font"] = *req.BackDesignFont
	}
	if req.Password != nil {
		if *req.Password == "" {
			updates["password_hash"] = ""
			updates["is_password_protected"] = false
		} else {
			if err := collection.SetPassword(*req.Password); err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			updates["password_hash"] = collection.PasswordHash
			updates["is_password_protected"] = true
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(collection).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update collection: %w", err)
			}
		}
		if req.ProductIDs != nil {
			return s.replaceProducts(tx, collection, req.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(collectionID)
}

func (s *CollectionService) DeleteCollection(collectionID uuid.UUID) error {
	collection, err := s.GetCollection(collectionID)
	if err != nil {
		return err
	}
	// Soft delete keeps past orders' collection reference resolvable.
	return s.db.Delete(collection).Error
}

func (s *CollectionService) replaceProducts(tx *gorm.DB, collection *models.Collection, productIDs []uuid.UUID) error {
	var products []models.Product
	if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) != len(productIDs) {
		return errors.New("one or more products do not exist")
	}
	if err := tx.Model(collection).Association("Products").Replace(products); err != nil {
		return fmt.Errorf("failed to set collection products: %w", err)
	}
	return nil
}

// Slugify lowercases a name and squeezes everything non-alphanumeric into
// single hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
