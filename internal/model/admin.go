package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Admin is a back-office account. Admins are permissioned individually
// through AdminPermission rows; they never hold a department/subrole and
// never fall back to RolePermission lookups. Keeping admins in their own
// table is what makes the Admin/SpecialUser classifications structurally
// exclusive.
type Admin struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber  string `gorm:"type:varchar(20)" json:"phone_number"`
	IsSuper      bool   `gorm:"default:false" json:"is_super"` // Bootstrap account, seeded with full rights
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"`
}

// SetPassword hashes and sets the admin's password
func (a *Admin) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (a *Admin) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}

// AdminResponse is used for API responses (without sensitive data)
type AdminResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	IsSuper     bool      `json:"is_super"`
	IsActive    bool      `json:"is_active"`
}

// ToResponse converts Admin to AdminResponse
func (a *Admin) ToResponse() AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		IsSuper:     a.IsSuper,
		IsActive:    a.IsActive,
	}
}
