// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type ProductService struct {
	db             *gorm.DB
	catalogService *CatalogService
}

type CreateProductRequest struct {
	StyleNumber     string                 `json:"style_number" validate:"required,max=50"`
	Name            string                 `json:"name" validate:"required,min=3,max=255"`
	Category        string                 `json:"category,omitempty" validate:"omitempty,max=100"`
	Description     string                 `json:"description,omitempty"`
	Brand           string                 `json:"brand,omitempty" validate:"omitempty,max=100"`
	BasePrice       float64                `json:"base_price" validate:"required,min=0.01"`
	WholesaleCost   float64                `json:"wholesale_cost,omitempty" validate:"omitempty,min=0"`
	AvailableSizes  []string               `json:"available_sizes,omitempty" validate:"dive,size_label"`
	AvailableColors []string               `json:"available_colors,omitempty"`
	PrintAreaConfig map[string]interface{} `json:"print_area_config,omitempty"`
	FitGuide        string                 `json:"fit_guide,omitempty"`
	FabricDetails   string                 `json:"fabric_details,omitempty"`
}

// UpdateProductRequest uses pointer fields so "absent" and "zero value"
// stay distinguishable; only fields the caller sent are written.
type UpdateProductRequest struct {
	Name            *string                `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Category        *string                `json:"category,omitempty" validate:"omitempty,max=100"`
	Description     *string                `json:"description,omitempty"`
	Brand           *string                `json:"brand,omitempty" validate:"omitempty,max=100"`
	BasePrice       *float64               `json:"base_price,omitempty" validate:"omitempty,min=0.01"`
	WholesaleCost   *float64               `json:"wholesale_cost,omitempty" validate:"omitempty,min=0"`
	IsActive        *bool                  `json:"is_active,omitempty"`
	AvailableSizes  []string               `json:"available_sizes,omitempty" validate:"omitempty,dive,size_label"`
	AvailableColors []string               `json:"available_colors,omitempty"`
	PrintAreaConfig map[string]interface{} `json:"print_area_config,omitempty"`
	FitGuide        *string                `json:"fit_guide,omitempty"`
	FabricDetails   *string                `json:"fabric_details,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Brand        string `json:"brand,omitempty"`
	ActiveOnly   bool   `json:"active_only"`
	IncludeStale bool   `json:"include_stale"`
}

func NewProductService(db *gorm.DB, catalogService *CatalogService) *ProductService {
	return &ProductService{
		db:             db,
		catalogService: catalogService,
	}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Product
	if err := s.db.Unscoped().Where("style_number = ?", req.StyleNumber).First(&existing).Error; err == nil {
		return nil, errors.New("a product with this style number already exists")
	}

	product := &models.Product{
		StyleNumber:     strings.TrimSpace(req.StyleNumber),
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		Brand:           req.Brand,
		BasePrice:       req.BasePrice,
		WholesaleCost:   req.WholesaleCost,
		IsActive:        true,
		AvailableSizes:  pq.StringArray(req.AvailableSizes),
		AvailableColors: pq.StringArray(req.AvailableColors),
		PrintAreaConfig: models.JSONB(req.PrintAreaConfig),
		FitGuide:        req.FitGuide,
		FabricDetails:   req.FabricDetails,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Pick up any mockups already uploaded for this style.
	if s.catalogService != nil {
		if err := s.catalogService.ReconcileProductColors(product); err != nil {
			return nil, fmt.Errorf("product created but color reconciliation failed: %w", err)
		}
	}
	return product, nil
}

func (s *ProductService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("ColorVariants", func(db *gorm.DB) *gorm.DB {
		return db.Order("color_name")
	}).First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProductByStyle(styleNumber string) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("ColorVariants", func(db *gorm.DB) *gorm.DB {
		return db.Order("color_name")
	}).Where("style_number = ?", styleNumber).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) ListProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(style_number) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params.PaginationParams, []string{"name", "base_price", "created_at", "style_number"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Preload("ColorVariants").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) UpdateProduct(productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.WholesaleCost != nil {
		updates["wholesale_cost"] = *req.WholesaleCost
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.AvailableSizes != nil {
		updates["available_sizes"] = pq.StringArray(req.AvailableSizes)
	}
	if req.AvailableColors != nil {
		updates["available_colors"] = pq.StringArray(req.AvailableColors)
	}
	if req.PrintAreaConfig != nil {
		updates["print_area_config"] = models.JSONB(req.PrintAreaConfig)
	}
	if req.FitGuide != nil {
		updates["fit_guide"] = *req.FitGuide
	}
	if req.FabricDetails != nil {
		updates["fabric_details"] = *req.FabricDetails
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return product, nil
}

// DeactivateProduct hides a product from the storefront without deleting
// anything; order history keeps pointing at it.
func (s *ProductService) DeactivateProduct(productID uuid.UUID) error {
	result := s.db.Model(&models.Product{}).Where("id = ?", productID).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found")
	}
	return nil
}

func (s *ProductService) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
