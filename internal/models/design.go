// internal/models/design.go
package models

import (
	"github.com/google/uuid"
)

// Design is uploaded artwork, either customer-owned or admin-curated
// gallery art available to every shopper.
type Design struct {
	BaseModel
	Filename         string `json:"filename" gorm:"size:500;not null"`
	OriginalFilename string `json:"original_filename" gorm:"size:500"`
	FilePath         string `json:"file_path" gorm:"size:500;not null"`
	FileSize         int64  `json:"file_size"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	DPI              int    `json:"dpi"`
	HasTransparency  bool   `json:"has_transparency" gorm:"default:false"`

	IsGallery bool   `json:"is_gallery" gorm:"default:false;index"`
	Title     string `json:"title" gorm:"size:200"`
	Folder    string `json:"folder" gorm:"size:100"`
	SKU       string `json:"sku" gorm:"size:50"`

	UploadedByUserID *uuid.UUID `json:"uploaded_by_user_id" gorm:"type:uuid;index"`
	DesignFee        float64    `json:"design_fee" gorm:"type:decimal(10,2);default:0"`

	// Relationships
	UploadedBy *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByUserID"`
}

// CustomDesignRequest is a customer's "have us recreate this" submission:
// a reference image plus a description, completed by an admin attaching a
// finished Design and a fee (0 exact copy, 4 heavy edits, 20 from scratch).
type CustomDesignRequest struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	ReferenceFilePath         string `json:"reference_file_path" gorm:"size:500;not null"`
	ReferenceOriginalFilename string `json:"reference_original_filename" gorm:"size:500"`
	Description               string `json:"description" gorm:"type:text;not null"`

	Status          RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedDesignID *uuid.UUID    `json:"created_design_id" gorm:"type:uuid"`
	DesignFee       float64       `json:"design_fee" gorm:"type:decimal(10,2);default:0"`
	AdminNotes      string        `json:"admin_notes" gorm:"type:text"`

	// Relationships
	User          *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedDesign *Design `json:"created_design,omitempty" gorm:"foreignKey:CreatedDesignID"`
}
