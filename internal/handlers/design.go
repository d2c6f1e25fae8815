// internal/handlers/design.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type DesignHandler struct {
	designService *services.DesignService
}

func NewDesignHandler(designService *services.DesignService) *DesignHandler {
	return &DesignHandler{
		designService: designService,
	}
}

// GET /designs/gallery
func (h *DesignHandler) ListGallery(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	designs, total, err := h.designService.ListGalleryDesigns(c.Query("folder"), params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(designs, total, params))
}

// GET /designs/gallery/folders
func (h *DesignHandler) ListFolders(c *gin.Context) {
	folders, err := h.designService.GalleryFolders()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"folders": folders})
}

// GET /designs/mine
func (h *DesignHandler) ListMyDesigns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	designs, err := h.designService.ListUserDesigns(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"designs": designs})
}

// POST /designs (multipart: file + optional metadata fields)
func (h *DesignHandler) UploadDesign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Design file is required", nil)
		return
	}
	defer file.Close()

	req := services.UploadDesignRequest{
		Title:  c.PostForm("title"),
		Folder: c.PostForm("folder"),
		SKU:    c.PostForm("sku"),
	}
	if fee := c.PostForm("design_fee"); fee != "" {
		if parsed, err := strconv.ParseFloat(fee, 64); err == nil {
			req.DesignFee = parsed
		}
	}
	// Only admins curate the shared gallery.
	if utils.IsAdminFromContext(c) {
		req.IsGallery = c.PostForm("is_gallery") == "true"
	}

	design, err := h.designService.UploadDesign(file, header, &userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"design": design})
}

// PUT /admin/designs/:id
func (h *DesignHandler) UpdateDesign(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	var req services.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	design, err := h.designService.UpdateDesign(designID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"design": design})
}

// DELETE /admin/designs/:id
func (h *DesignHandler) DeleteDesign(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	if err := h.designService.DeleteDesign(designID); err != nil {
		utils.NotFoundResponse(c, "Design")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Design removed"})
}

// Custom design requests

// POST /custom-requests (multipart: reference image + description)
func (h *DesignHandler) SubmitCustomRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Reference image is required", nil)
		return
	}
	defer file.Close()

	req := services.CustomRequestSubmission{
		Description: c.PostForm("description"),
	}

	request, err := h.designService.SubmitCustomRequest(userID, file, header, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"request": request})
}

// GET /admin/custom-requests
func (h *DesignHandler) ListCustomRequests(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.RequestStatus(c.Query("status"))

	requests, total, err := h.designService.ListCustomRequests(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// PUT /admin/custom-requests/:id
func (h *DesignHandler) ResolveCustomRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	var input services.ResolveCustomRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	request, err := h.designService.ResolveCustomRequest(requestID, &input)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"request": request})
}
