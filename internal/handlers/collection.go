// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

// CollectionHandler serves the /c/{slug} storefront pages for team stores
// and event drops, plus the admin CRUD behind them.
type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
	}
}

// GET /c/:slug
func (h *CollectionHandler) GetStorefront(c *gin.Context) {
	collection, err := h.collectionService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "Collection")
		return
	}

	if collection.IsPasswordProtected {
		// The product list stays hidden until the password checks out.
		utils.SuccessResponse(c, gin.H{
			"name":               collection.Name,
			"slug":               collection.Slug,
			"password_protected": true,
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collection":      collection,
		"deadline_passed": h.collectionService.DeadlinePassed(collection),
	})
}

// POST /c/:slug/unlock
func (h *CollectionHandler) Unlock(c *gin.Context) {
	collection, err := h.collectionService.GetBySlug(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "Collection")
		return
	}

	var req struct {
		Password string `json:"password" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if !h.collectionService.VerifyAccess(collection, req.Password) {
		utils.ForbiddenResponse(c, "Incorrect password")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collection":      collection,
		"deadline_passed": h.collectionService.DeadlinePassed(collection),
	})
}

// Admin endpoints

// POST /admin/collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	collection, err := h.collectionService.CreateCollection(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"collection": collection,
		"share_url":  collection.ShareURL(),
	})
}

// GET /admin/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	collections, total, err := h.collectionService.ListCollections(params, true)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(collections, total, params))
}

// GET /admin/collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid collection ID", nil)
		return
	}

	collection, err := h.collectionService.GetCollection(collectionID)
	if err != nil {
		utils.NotFoundResponse(c, "Collection")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"collection": collection,
		"share_url":  collection.ShareURL(),
	})
}

// PUT /admin/collections/:id
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid collection ID", nil)
		return
	}

	var req services.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	collection, err := h.collectionService.UpdateCollection(collectionID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"collection": collection})
}

// DELETE /admin/collections/:id
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid collection ID", nil)
		return
	}

	if err := h.collectionService.DeleteCollection(collectionID); err != nil {
		utils.NotFoundResponse(c, "Collection")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Collection deleted"})
}
