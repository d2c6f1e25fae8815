// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Phone        string     `json:"phone" gorm:"size:20"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	ResetTokenHash      string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relationships
	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Orders    []Order   `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	Designs   []Design  `json:"designs,omitempty" gorm:"foreignKey:UploadedByUserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}

// Address is a saved shipping/billing address.
type Address struct {
	BaseModel
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Label          string    `json:"label" gorm:"size:50"`
	RecipientName  string    `json:"recipient_name" gorm:"size:200"`
	StreetAddress  string    `json:"street_address" gorm:"size:200;not null"`
	StreetAddress2 string    `json:"street_address_2" gorm:"size:200"`
	City           string    `json:"city" gorm:"size:100;not null"`
	State          string    `json:"state" gorm:"size:50;not null"`
	ZipCode        string    `json:"zip_code" gorm:"size:20;not null"`
	Country        string    `json:"country" gorm:"size:50;default:'USA'"`
	IsDefault      bool      `json:"is_default" gorm:"default:false"`
}
