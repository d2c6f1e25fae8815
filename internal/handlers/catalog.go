// internal/handlers/catalog.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// CatalogHandler exposes the admin-side catalog plumbing: uploading
// mockup photos, reconciling them into color variants, and pulling
// style data from the supplier feed.
type CatalogHandler struct {
	catalogService *services.CatalogService
	productService *services.ProductService
	storageService *services.StorageService
}

func NewCatalogHandler(catalogService *services.CatalogService, productService *services.ProductService, storageService *services.StorageService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		productService: productService,
		storageService: storageService,
	}
}

// POST /admin/catalog/mockups/:style (multipart, one or more files)
// Files keep their original names; the style/color/view conventions in
// the filename are what the resolver parses later.
func (h *CatalogHandler) UploadMockups(c *gin.Context) {
	styleNumber := strings.TrimSpace(c.Param("style"))
	if styleNumber == "" {
		utils.BadRequestResponse(c, "Style number is required", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Multipart form is required", err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "At least one file is required", nil)
		return
	}

	uploaded := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read "+header.Filename, nil)
			return
		}
		result, err := h.storageService.UploadMockup(file, header, styleNumber)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		uploaded = append(uploaded, result.URL)
	}

	// Fold the new files into color variants right away when the product
	// already exists; otherwise they sit on disk until it is created.
	if product, err := h.productService.GetProductByStyle(styleNumber); err == nil {
		if err := h.catalogService.ReconcileProductColors(product); err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
	}

	utils.CreatedResponse(c, gin.H{
		"style_number": styleNumber,
		"uploaded":     uploaded,
	})
}

// POST /admin/catalog/reconcile/:id
func (h *CatalogHandler) ReconcileProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.GetProduct(productID)
	if err != nil {
		utils.NotFoundResponse(c, "Product")
		return
	}

	if err := h.catalogService.ReconcileProductColors(product); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	colors, err := h.catalogService.OrderableColors(product)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"colors": colors})
}

// POST /admin/catalog/sync
// Body lists style numbers; an empty list syncs every product that has one.
func (h *CatalogHandler) SyncFromSupplier(c *gin.Context) {
	var req struct {
		StyleNumbers []string `json:"style_numbers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	var summary *services.SyncSummary
	var err error
	if len(req.StyleNumbers) == 0 {
		summary, err = h.catalogService.SyncAllProducts()
	} else {
		summary, err = h.catalogService.SyncFromSupplier(req.StyleNumbers)
	}
	if err != nil {
		// Partial results still come back with the error so the operator
		// can see how far the batch got.
		c.JSON(http.StatusBadGateway, utils.APIResponse{
			Success: false,
			Data:    summary,
			Error:   &utils.APIError{Code: "SUPPLIER_ERROR", Message: err.Error()},
		})
		return
	}
	utils.SuccessResponse(c, summary)
}
