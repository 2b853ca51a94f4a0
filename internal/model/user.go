package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated CRM user. Regular users inherit rights
// from their (department, subrole) pair; users flagged IsSpecial are granted
// rights individually through SpecialUserPermission rows instead.
type User struct {
	BaseModel
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber  string      `gorm:"type:varchar(20)" json:"phone_number"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Subrole      string      `gorm:"type:varchar(100)" json:"subrole"`
	IsSpecial    bool        `gorm:"default:false" json:"is_special"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	TokenVersion string      `gorm:"type:varchar(255);default:''" json:"-"` // Single session enforcement
	LastSeenAt   *time.Time  `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	FullName     string      `json:"full_name"`
	PhoneNumber  string      `json:"phone_number"`
	DepartmentID *uuid.UUID  `json:"department_id,omitempty"`
	Department   *Department `json:"department,omitempty"`
	Subrole      string      `json:"subrole,omitempty"`
	IsSpecial    bool        `json:"is_special"`
	IsActive     bool        `json:"is_active"`
	LastSeenAt   *time.Time  `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PhoneNumber:  u.PhoneNumber,
		DepartmentID: u.DepartmentID,
		Department:   u.Department,
		Subrole:      u.Subrole,
		IsSpecial:    u.IsSpecial,
		IsActive:     u.IsActive,
		LastSeenAt:   u.LastSeenAt,
	}
}
