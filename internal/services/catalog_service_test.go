// internal/services/catalog_service_test.go
package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/mockups"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/supplier"
)

func setupCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Product{}, &models.ColorVariant{}))
	return db
}

func writeMockupFile(t *testing.T, root, style, name string) {
	t.Helper()
	dir := filepath.Join(root, style)
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
}

func createProduct(t *testing.T, db *gorm.DB, styleNumber string, sizes ...string) *models.Product {
	t.Helper()
	product := &models.Product{
		StyleNumber:    styleNumber,
		Name:           "Test Tee " + styleNumber,
		BasePrice:      25,
		AvailableSizes: pq.StringArray(sizes),
	}
	assert.NoError(t, db.Create(product).Error)
	return product
}

func variantsFor(t *testing.T, db *gorm.DB, product *models.Product) []models.ColorVariant {
	t.Helper()
	var variants []models.ColorVariant
	assert.NoError(t, db.Where("product_id = ?", product.ID).Order("color_name").Find(&variants).Error)
	return variants
}

func TestReconcileCreatesVariantFromMockups(t *testing.T) {
	db := setupCatalogDB(t)
	root := t.TempDir()
	writeMockupFile(t, root, "3001", "3001_Black_front.jpg")
	writeMockupFile(t, root, "3001", "3001_Black_back.jpg")

	svc := NewCatalogService(db, nil, mockups.NewResolver(root))
	product := createProduct(t, db, "3001", "S", "M", "L")

	assert.NoError(t, svc.ReconcileProductColors(product))

	variants := variantsFor(t, db, product)
	assert.Len(t, variants, 1)
	v := variants[0]
	assert.Equal(t, "Black", v.ColorName)
	assert.Equal(t, "/uploads/mockups/3001/3001_Black_front.jpg", v.FrontImageURL)
	assert.Equal(t, "/uploads/mockups/3001/3001_Black_back.jpg", v.BackImageURL)
	assert.Equal(t, models.SizeInventory{"S": 0, "M": 0, "L": 0}, v.SizeInventory)
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := setupCatalogDB(t)
	root := t.TempDir()
	writeMockupFile(t, root, "3001", "3001_Heather_Mauve_front.jpg")
	writeMockupFile(t, root, "3001", "3001_Solid_White_Blend_front.png")

	svc := NewCatalogService(db, nil, mockups.NewResolver(root))
	product := createProduct(t, db, "3001", "S", "M")

	assert.NoError(t, svc.ReconcileProductColors(product))
	first := variantsFor(t, db, product)
	assert.Len(t, first, 2)

	assert.NoError(t, svc.ReconcileProductColors(product))
	second := variantsFor(t, db, product)
	assert.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].FrontImageURL, second[i].FrontImageURL)
	}
}

func TestReconcileNeverOverwritesStoredImages(t *testing.T) {
	db := setupCatalogDB(t)
	root := t.TempDir()
	writeMockupFile(t, root, "3001", "3001_Black_front.jpg")
	writeMockupFile(t, root, "3001", "3001_Black_back.jpg")

	svc := NewCatalogService(db, nil, mockups.NewResolver(root))
	product := createProduct(t, db, "3001", "S")

	stored := models.ColorVariant{
		ProductID:     product.ID,
		ColorName:     "Black",
		FrontImageURL: "/uploads/custom/black_front_v2.png",
		SizeInventory: models.SizeInventory{"S": 0},
	}
	assert.NoError(t, db.Create(&stored).Error)

	assert.NoError(t, svc.ReconcileProductColors(product))

	variants := variantsFor(t, db, product)
	assert.Len(t, variants, 1)
	// Stored front image wins; the missing back image is filled.
	assert.Equal(t, "/uploads/custom/black_front_v2.png", variants[0].FrontImageURL)
	assert.Equal(t, "/uploads/mockups/3001/3001_Black_back.jpg", variants[0].BackImageURL)
}

func TestReconcileMatchesColorsCaseInsensitively(t *testing.T) {
	db := setupCatalogDB(t)
	root := t.TempDir()
	writeMockupFile(t, root, "3001", "3001_Athletic_Heather_front.jpg")

	svc := NewCatalogService(db, nil, mockups.NewResolver(root))
	product := createProduct(t, db, "3001", "S")

	existing := models.ColorVariant{
		ProductID:     product.ID,
		ColorName:     "athletic heather",
		SizeInventory: models.SizeInventory{"S": 10},
	}
	assert.NoError(t, db.Create(&existing).Error)

	assert.NoError(t, svc.ReconcileProductColors(product))

	// No duplicate row for the same color under a different spelling.
	variants := variantsFor(t, db, product)
	assert.Len(t, variants, 1)
	assert.Equal(t, "/uploads/mockups/3001/3001_Athletic_Heather_front.jpg", variants[0].FrontImageURL)
}

func newSupplierClient(t *testing.T, handler http.Handler) *supplier.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := supplier.NewClient(config.SupplierConfig{
		APIURL:         server.URL,
		AccountNumber:  "12345",
		APIKey:         "key",
		Brand:          "Bella+Canvas",
		TimeoutSeconds: 5,
	})
	assert.NoError(t, err)
	return client
}

func supplierFixture(style string, skus []supplier.SKURecord) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v2/styles" {
			json.NewEncoder(w).Encode([]supplier.StyleSummary{{
				StyleID:   39,
				StyleName: style,
				BrandName: "Bella+Canvas",
				Title:     "Unisex Jersey Tee",
			}})
			return
		}
		if r.URL.Query().Get("partnumber") == style || r.URL.Query().Get("style") == style {
			json.NewEncoder(w).Encode(skus)
			return
		}
		json.NewEncoder(w).Encode([]supplier.SKURecord{})
	})
}

func TestSyncFromSupplierCreatesProductAndVariants(t *testing.T) {
	db := setupCatalogDB(t)
	client := newSupplierClient(t, supplierFixture("3001", []supplier.SKURecord{
		{SKU: "A1", StyleID: 39, ColorName: "White", ColorID: 4, SizeName: "S", Qty: 250, ColorFrontImage: "cdn/white_front.jpg", PiecePrice: 3.42},
		{SKU: "A2", StyleID: 39, ColorName: "White", ColorID: 4, SizeName: "M", Qty: 180},
	}))
	svc := NewCatalogService(db, client, mockups.NewResolver(t.TempDir()))

	summary, err := svc.SyncFromSupplier([]string{"3001"})
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 0, summary.Errors)

	var product models.Product
	assert.NoError(t, db.Where("style_number = ?", "3001").First(&product).Error)
	assert.False(t, product.IsActive)
	assert.Equal(t, "Unisex Jersey Tee", product.Name)
	assert.Equal(t, 3.42, product.WholesaleCost)
	assert.Equal(t, pq.StringArray{"S", "M"}, product.AvailableSizes)
	assert.NotNil(t, product.LastSyncedAt)

	variants := variantsFor(t, db, &product)
	assert.Len(t, variants, 1)
	assert.Equal(t, models.SizeInventory{"S": 250, "M": 180}, variants[0].SizeInventory)
	// No local mockup exists, so the CDN image fills the new variant.
	assert.Equal(t, "cdn/white_front.jpg", variants[0].FrontImageURL)
}

func TestSyncPrefersLocalMockupOverCDN(t *testing.T) {
	db := setupCatalogDB(t)
	root := t.TempDir()
	writeMockupFile(t, root, "3001", "3001_White_front.jpg")

	client := newSupplierClient(t, supplierFixture("3001", []supplier.SKURecord{
		{SKU: "A1", StyleID: 39, ColorName: "White", ColorID: 4, SizeName: "S", Qty: 10, ColorFrontImage: "cdn/white_front.jpg"},
	}))
	svc := NewCatalogService(db, client, mockups.NewResolver(root))

	_, err := svc.SyncFromSupplier([]string{"3001"})
	assert.NoError(t, err)

	var product models.Product
	assert.NoError(t, db.Where("style_number = ?", "3001").First(&product).Error)
	variants := variantsFor(t, db, &product)
	assert.Len(t, variants, 1)
	assert.Equal(t, "/uploads/mockups/3001/3001_White_front.jpg", variants[0].FrontImageURL)
}

func TestSyncOverwritesInventoryButNotImages(t *testing.T) {
	db := setupCatalogDB(t)
	client := newSupplierClient(t, supplierFixture("3001", []supplier.SKURecord{
		{SKU: "A1", StyleID: 39, ColorName: "Black", ColorID: 7, SizeName: "M", Qty: 99, ColorFrontImage: "cdn/black_front.jpg"},
	}))
	svc := NewCatalogService(db, client, mockups.NewResolver(t.TempDir()))

	product := createProduct(t, db, "3001", "M")
	existing := models.ColorVariant{
		ProductID:     product.ID,
		ColorName:     "Black",
		FrontImageURL: "/uploads/custom/black.png",
		SizeInventory: models.SizeInventory{"M": 1},
	}
	assert.NoError(t, db.Create(&existing).Error)

	summary, err := svc.SyncFromSupplier([]string{"3001"})
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	variants := variantsFor(t, db, product)
	assert.Len(t, variants, 1)
	assert.Equal(t, models.SizeInventory{"M": 99}, variants[0].SizeInventory)
	assert.Equal(t, "/uploads/custom/black.png", variants[0].FrontImageURL)
}

func TestSyncContinuesPastMissingStyles(t *testing.T) {
	db := setupCatalogDB(t)
	client := newSupplierClient(t, supplierFixture("3001", []supplier.SKURecord{
		{SKU: "A1", StyleID: 39, ColorName: "White", ColorID: 4, SizeName: "S", Qty: 5},
	}))
	svc := NewCatalogService(db, client, mockups.NewResolver(t.TempDir()))

	summary, err := svc.SyncFromSupplier([]string{"NOPE-99", "3001"})
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.NotFound)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, "not_found", summary.Results[0].Status)
	assert.Equal(t, "added", summary.Results[1].Status)
}

func TestSyncAbortsOnBadCredentials(t *testing.T) {
	db := setupCatalogDB(t)
	var requests int
	client := newSupplierClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	svc := NewCatalogService(db, client, mockups.NewResolver(t.TempDir()))

	summary, err := svc.SyncFromSupplier([]string{"3001", "3001Y", "3413"})
	assert.ErrorIs(t, err, supplier.ErrUnauthorized)
	assert.Equal(t, 1, summary.Errors)
	assert.Len(t, summary.Results, 1)
	// One request, not one per style and strategy.
	assert.Equal(t, 1, requests)
}
