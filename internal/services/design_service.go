// internal/services/design_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

type DesignService struct {
	db                  *gorm.DB
	storageService      *StorageService
	notificationService *NotificationService
}

type UploadDesignRequest struct {
	Title     string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Folder    string  `json:"folder,omitempty" validate:"omitempty,max=100"`
	SKU       string  `json:"sku,omitempty" validate:"omitempty,max=50"`
	IsGallery bool    `json:"is_gallery"`
	DesignFee float64 `json:"design_fee,omitempty" validate:"omitempty,min=0"`
}

type UpdateDesignRequest struct {
	Title     *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Folder    *string  `json:"folder,omitempty" validate:"omitempty,max=100"`
	SKU       *string  `json:"sku,omitempty" validate:"omitempty,max=50"`
	IsGallery *bool    `json:"is_gallery,omitempty"`
	DesignFee *float64 `json:"design_fee,omitempty" validate:"omitempty,min=0"`
}

type CustomRequestSubmission struct {
	Description string `json:"description" validate:"required,min=10,max=2000"`
}

type ResolveCustomRequestInput struct {
	Status          models.RequestStatus `json:"status" validate:"required,oneof=completed declined"`
	CreatedDesignID *uuid.UUID           `json:"created_design_id,omitempty"`
	DesignFee       *float64             `json:"design_fee,omitempty" validate:"omitempty,oneof=0 4 20"`
	AdminNotes      string               `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
}

func NewDesignService(db *gorm.DB, storageService *StorageService, notificationService *NotificationService) *DesignService {
	return &DesignService{
		db:                  db,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

// UploadDesign stores a print-ready PNG and records its dimensions and
// transparency. Non-PNG uploads are rejected up front.
func (s *DesignService) UploadDesign(file multipart.File, header *multipart.FileHeader, uploadedBy *uuid.UUID, req *UploadDesignRequest) (*models.Design, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	width, height, hasAlpha, err := InspectPNG(file)
	if err != nil {
		return nil, err
	}

	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("designs"))
	if err != nil {
		return nil, err
	}

	design := &models.Design{
		Filename:         result.Key,
		OriginalFilename: header.Filename,
		FilePath:         result.URL,
		FileSize:         result.Size,
		Width:            width,
		Height:           height,
		HasTransparency:  hasAlpha,
		IsGallery:        req.IsGallery,
		Title:            req.Title,
		Folder:           req.Folder,
		SKU:              req.SKU,
		UploadedByUserID: uploadedBy,
		DesignFee:        req.DesignFee,
	}
	if err := s.db.Create(design).Error; err != nil {
		return nil, fmt.Errorf("failed to save design: %w", err)
	}
	return design, nil
}

func (s *DesignService) GetDesign(designID uuid.UUID) (*models.Design, error) {
	var design models.Design
	if err := s.db.First(&design, "id = ?", designID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("design not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &design, nil
}

// ListGalleryDesigns returns admin-curated art every shopper can pick
// from, optionally filtered by folder.
func (s *DesignService) ListGalleryDesigns(folder string, params utils.PaginationParams) ([]models.Design, int64, error) {
	query := s.db.Model(&models.Design{}).Where("is_gallery = ?", true)
	if folder != "" {
		query = query.Where("folder = ?", folder)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR sku LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	var designs []models.Design
	query = utils.ApplyPagination(query.Order("folder, title"), params)
	if err := query.Find(&designs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list designs: %w", err)
	}
	return designs, total, nil
}

func (s *DesignService) ListUserDesigns(userID uuid.UUID) ([]models.Design, error) {
	var designs []models.Design
	err := s.db.Where("uploaded_by_user_id = ?", userID).
		Order("created_at DESC").Find(&designs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	return designs, nil
}

func (s *DesignService) GalleryFolders() ([]string, error) {
	var folders []string
	err := s.db.Model(&models.Design{}).
		Where("is_gallery = ? AND folder <> ''", true).
		Distinct().Order("folder").
		Pluck("folder", &folders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

func (s *DesignService) UpdateDesign(designID uuid.UUID, req *UpdateDesignRequest) (*models.Design, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	design, err := s.GetDesign(designID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Folder != nil {
		updates["folder"] = *req.Folder
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.IsGallery != nil {
		updates["is_gallery"] = *req.IsGallery
	}
	if req.DesignFee != nil {
		updates["design_fee"] = *req.DesignFee
	}
	if len(updates) > 0 {
		if err := s.db.Model(design).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update design: %w", err)
		}
	}
	return design, nil
}

func (s *DesignService) DeleteDesign(designID uuid.UUID) error {
	design, err := s.GetDesign(designID)
	if err != nil {
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.OrderItem{}).Where("design_id = ?", designID).Count(&inUse).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if inUse > 0 {
		// Order history references it; hide it instead.
		return s.db.Model(design).Update("is_gallery", false).Error
	}

	if err := s.db.Delete(design).Error; err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	if err := s.storageService.DeleteFile(design.Filename); err != nil {
		return fmt.Errorf("design record deleted but file removal failed: %w", err)
	}
	return nil
}

// SubmitCustomRequest records a "recreate this for me" submission with
// its reference image.
func (s *DesignService) SubmitCustomRequest(userID uuid.UUID, file multipart.File, header *multipart.FileHeader, req *CustomRequestSubmission) (*models.CustomDesignRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("custom_requests"))
	if err != nil {
		return nil, err
	}

	request := &models.CustomDesignRequest{
		UserID:                    userID,
		ReferenceFilePath:         result.URL,
		ReferenceOriginalFilename: header.Filename,
		Description:               req.Description,
		Status:                    models.RequestStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	if s.notificationService != nil {
		var user models.User
		if err := s.db.First(&user, "id = ?", userID).Error; err == nil {
			s.notificationService.SendCustomRequestReceived(request, user.Email)
		}
	}
	return request, nil
}

func (s *DesignService) ListCustomRequests(status models.RequestStatus, params utils.PaginationParams) ([]models.CustomDesignRequest, int64, error) {
	query := s.db.Model(&models.CustomDesignRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	var requests []models.CustomDesignRequest
	query = utils.ApplyPagination(query.Order("created_at DESC"), params)
	if err := query.Preload("User").Preload("CreatedDesign").Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}

// ResolveCustomRequest lets an admin complete or decline a request.
// Completion attaches the finished design and the fee tier.
func (s *DesignService) ResolveCustomRequest(requestID uuid.UUID, input *ResolveCustomRequestInput) (*models.CustomDesignRequest, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var request models.CustomDesignRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("custom design request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if input.Status == models.RequestStatusCompleted && input.CreatedDesignID == nil {
		return nil, errors.New("completing a request requires the created design")
	}

	updates := map[string]interface{}{
		"status":      input.Status,
		"admin_notes": input.AdminNotes,
	}
	if input.CreatedDesignID != nil {
		updates["created_design_id"] = *input.CreatedDesignID
	}
	if input.DesignFee != nil {
		updates["design_fee"] = *input.DesignFee
	}
	if err := s.db.Model(&request).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return &request, nil
}
