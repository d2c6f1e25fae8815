// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/mockups"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/supplier"
)

// CatalogService reconciles per-product color variants from three sources
// with defined precedence: explicit database image URLs win over locally
// uploaded mockups, which win over supplier CDN imagery. Supplier images
// are only ever used when creating a brand-new variant.
type CatalogService struct {
	db       *gorm.DB
	supplier *supplier.Client
	resolver *mockups.Resolver
}

func NewCatalogService(db *gorm.DB, supplierClient *supplier.Client, resolver *mockups.Resolver) *CatalogService {
	return &CatalogService{
		db:       db,
		supplier: supplierClient,
		resolver: resolver,
	}
}

type SyncResult struct {
	StyleNumber string `json:"style_number"`
	Status      string `json:"status"` // added, updated, not_found, error
	Colors      int    `json:"colors"`
	Error       string `json:"error,omitempty"`
}

type SyncSummary struct {
	Added    int          `json:"added"`
	Updated  int          `json:"updated"`
	NotFound int          `json:"not_found"`
	Errors   int          `json:"errors"`
	Results  []SyncResult `json:"results"`
}

// ReconcileProductColors makes the product's ColorVariant rows consistent
// with the mockup filesystem: every locally discovered color gets a row,
// and existing rows missing a front or back image are filled from local
// mockups. Matching is keyed by normalized color name, so repeated runs
// are no-ops. All writes for one product commit in a single transaction.
func (s *CatalogService) ReconcileProductColors(product *models.Product) error {
	discovered := s.resolver.DiscoverColors(product.StyleNumber)

	return s.db.Transaction(func(tx *gorm.DB) error {
		var variants []models.ColorVariant
		if err := tx.Where("product_id = ?", product.ID).Find(&variants).Error; err != nil {
			return fmt.Errorf("loading color variants: %w", err)
		}

		known := make(map[string]*models.ColorVariant, len(variants))
		for i := range variants {
			known[mockups.ColorKey(variants[i].ColorName)] = &variants[i]
		}

		for _, dc := range discovered {
			if _, exists := known[mockups.ColorKey(dc.ColorName)]; exists {
				continue
			}
			variant := models.ColorVariant{
				ProductID:     product.ID,
				ColorName:     dc.ColorName,
				FrontImageURL: dc.FrontImage,
				BackImageURL:  dc.BackImage,
				SizeInventory: models.ZeroedSizes(product.AvailableSizes),
			}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("creating variant %q: %w", dc.ColorName, err)
			}
		}

		// Fill image gaps on existing rows from local mockups. Stored
		// URLs are never overwritten.
		for i := range variants {
			v := &variants[i]
			updates := map[string]interface{}{}
			if v.FrontImageURL == "" {
				if url := s.resolver.Resolve(product.StyleNumber, v.ColorName, mockups.ViewFront); url != "" {
					updates["front_image_url"] = url
				}
			}
			if v.BackImageURL == "" {
				if url := s.resolver.Resolve(product.StyleNumber, v.ColorName, mockups.ViewBack); url != "" {
					updates["back_image_url"] = url
				}
			}
			if len(updates) == 0 {
				continue
			}
			if err := tx.Model(v).Updates(updates).Error; err != nil {
				return fmt.Errorf("updating variant %q images: %w", v.ColorName, err)
			}
		}

		return nil
	})
}

// OrderableColors returns the merged per-color view for a product without
// writing anything: database variants first, then colors that only exist
// on disk.
func (s *CatalogService) OrderableColors(product *models.Product) ([]models.ColorVariant, error) {
	var variants []models.ColorVariant
	if err := s.db.Where("product_id = ?", product.ID).
		Order("color_name").Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("loading color variants: %w", err)
	}

	known := make(map[string]bool, len(variants))
	for i := range variants {
		v := &variants[i]
		known[mockups.ColorKey(v.ColorName)] = true
		if v.FrontImageURL == "" {
			v.FrontImageURL = s.resolver.Resolve(product.StyleNumber, v.ColorName, mockups.ViewFront)
		}
		if v.BackImageURL == "" {
			v.BackImageURL = s.resolver.Resolve(product.StyleNumber, v.ColorName, mockups.ViewBack)
		}
	}

	for _, dc := range s.resolver.DiscoverColors(product.StyleNumber) {
		if known[mockups.ColorKey(dc.ColorName)] {
			continue
		}
		variants = append(variants, models.ColorVariant{
			ProductID:     product.ID,
			ColorName:     dc.ColorName,
			FrontImageURL: dc.FrontImage,
			BackImageURL:  dc.BackImage,
			SizeInventory: models.ZeroedSizes(product.AvailableSizes),
		})
	}

	return variants, nil
}

// SyncFromSupplier pulls catalog data for each style number and upserts
// color variants and product metadata. One bad style never aborts the
// batch; credential failures do, since every subsequent style would fail
// the same way.
func (s *CatalogService) SyncFromSupplier(styleNumbers []string) (*SyncSummary, error) {
	if s.supplier == nil {
		return nil, errors.New("supplier client is not configured")
	}

	summary := &SyncSummary{}
	for _, styleNumber := range styleNumbers {
		result, fatal := s.syncStyle(styleNumber)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case "added":
			summary.Added++
		case "updated":
			summary.Updated++
		case "not_found":
			summary.NotFound++
		case "error":
			summary.Errors++
		}

		// Already-committed styles stay committed; only the batch stops,
		// because every remaining style would fail the same way.
		if errors.Is(fatal, supplier.ErrUnauthorized) {
			return summary, fmt.Errorf("supplier rejected credentials (check account number and API key): %w", fatal)
		}
		if errors.Is(fatal, supplier.ErrForbidden) {
			return summary, fmt.Errorf("supplier account lacks access to this resource: %w", fatal)
		}
	}
	return summary, nil
}

// syncStyle processes one style. The returned error is non-nil only for
// credential failures, which are fatal to the whole batch.
func (s *CatalogService) syncStyle(styleNumber string) (SyncResult, error) {
	result := SyncResult{StyleNumber: styleNumber}

	detail, err := s.supplier.FetchStyleData(styleNumber)
	if err != nil {
		if errors.Is(err, supplier.ErrStyleNotFound) {
			logrus.WithField("style", styleNumber).Warn("style not found in supplier catalog")
			result.Status = "not_found"
			return result, nil
		}
		logrus.WithError(err).WithField("style", styleNumber).Error("supplier sync failed for style")
		result.Status = "error"
		result.Error = err.Error()
		if errors.Is(err, supplier.ErrUnauthorized) || errors.Is(err, supplier.ErrForbidden) {
			return result, err
		}
		return result, nil
	}

	created := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("style_number = ?", styleNumber).First(&product).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("loading product: %w", err)
			}
			product = models.Product{
				StyleNumber: styleNumber,
				Name:        detail.Title,
				IsActive:    false, // new styles stay hidden until priced
			}
			created = true
		}

		s.applyStyleMetadata(&product, detail)
		if created {
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("creating product: %w", err)
			}
		} else if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("saving product: %w", err)
		}

		for _, cv := range detail.ColorVariants {
			if err := s.upsertVariant(tx, &product, cv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("style", styleNumber).Error("supplier sync transaction failed")
		result.Status = "error"
		result.Error = err.Error()
		return result, nil
	}

	result.Colors = len(detail.ColorVariants)
	if created {
		result.Status = "added"
	} else {
		result.Status = "updated"
	}
	return result, nil
}

// applyStyleMetadata copies supplier-reported style data onto the product.
// Pricing is never touched; retail price is an owner decision.
func (s *CatalogService) applyStyleMetadata(product *models.Product, detail *supplier.StyleDetail) {
	now := time.Now()
	product.LastSyncedAt = &now
	product.SupplierStyleID = strconv.Itoa(detail.StyleID)
	product.AvailableSizes = pq.StringArray(detail.Sizes)
	product.AvailableColors = pq.StringArray(detail.Colors)

	if product.Brand == "" {
		product.Brand = detail.BrandName
	}
	if product.Category == "" {
		product.Category = detail.BaseCategory
	}
	if product.Description == "" {
		product.Description = detail.Description
	}
	if product.FitGuide == "" {
		product.FitGuide = detail.FitGuide
	}
	if product.FabricDetails == "" {
		product.FabricDetails = detail.Fabric
	}
	if detail.WholesalePrice > 0 {
		product.WholesaleCost = detail.WholesalePrice
	}
}

// upsertVariant creates or refreshes one color variant from supplier SKU
// data. Inventory always reflects the supplier feed; image fields follow
// the precedence rule, so a stored or locally-resolved image is never
// replaced by a CDN URL.
func (s *CatalogService) upsertVariant(tx *gorm.DB, product *models.Product, cv supplier.ColorVariantData) error {
	now := time.Now()

	var existing models.ColorVariant
	err := tx.Where("product_id = ? AND color_name = ?", product.ID, cv.ColorName).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("loading variant %q: %w", cv.ColorName, err)
		}

		variant := models.ColorVariant{
			ProductID:       product.ID,
			ColorName:       cv.ColorName,
			SizeInventory:   models.SizeInventory(cv.Sizes),
			SupplierColorID: cv.ColorID,
			LastSyncedAt:    &now,
			FrontImageURL:   s.resolver.Resolve(product.StyleNumber, cv.ColorName, mockups.ViewFront),
			BackImageURL:    s.resolver.Resolve(product.StyleNumber, cv.ColorName, mockups.ViewBack),
			SideImageURL:    cv.SideImage,
		}
		if variant.FrontImageURL == "" {
			variant.FrontImageURL = cv.FrontImage
		}
		if variant.BackImageURL == "" {
			variant.BackImageURL = cv.BackImage
		}
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("creating variant %q: %w", cv.ColorName, err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"size_inventory":    models.SizeInventory(cv.Sizes),
		"supplier_color_id": cv.ColorID,
		"last_synced_at":    &now,
	}
	if existing.FrontImageURL == "" {
		if url := s.resolver.Resolve(product.StyleNumber, cv.ColorName, mockups.ViewFront); url != "" {
			updates["front_image_url"] = url
		}
	}
	if existing.BackImageURL == "" {
		if url := s.resolver.Resolve(product.StyleNumber, cv.ColorName, mockups.ViewBack); url != "" {
			updates["back_image_url"] = url
		}
	}
	if existing.SideImageURL == "" && cv.SideImage != "" {
		updates["side_image_url"] = cv.SideImage
	}
	if err := tx.Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating variant %q: %w", cv.ColorName, err)
	}
	return nil
}

// SyncAllProducts runs the supplier sync for every product that carries a
// style number. Used by the scheduled nightly sync and the admin bulk
// sync endpoint.
func (s *CatalogService) SyncAllProducts() (*SyncSummary, error) {
	var styleNumbers []string
	if err := s.db.Model(&models.Product{}).
		Where("style_number <> ''").
		Order("style_number").
		Pluck("style_number", &styleNumbers).Error; err != nil {
		return nil, fmt.Errorf("listing style numbers: %w", err)
	}
	return s.SyncFromSupplier(styleNumbers)
}
