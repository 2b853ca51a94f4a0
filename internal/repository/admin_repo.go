package repository

import (
	"go-crm-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByEmail(email string) (*model.Admin, error)
	FindByID(id uuid.UUID) (*model.Admin, error)
	Create(admin *model.Admin) error
	Update(admin *model.Admin) error
	FindAll() ([]model.Admin, error)
	UpdatePassword(adminID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(adminID uuid.UUID, version string) error
	SetActive(id uuid.UUID, active bool, updatedBy string) error
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db}
}

func (r *adminRepo) FindByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByID(id uuid.UUID) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

func (r *adminRepo) Update(admin *model.Admin) error {
	return r.db.Save(admin).Error
}

func (r *adminRepo) FindAll() ([]model.Admin, error) {
	var admins []model.Admin
	err := r.db.Find(&admins).Error
	return admins, err
}

func (r *adminRepo) UpdatePassword(adminID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.Admin{}).Where("id = ?", adminID).Update("password", hashedPassword).Error
}

func (r *adminRepo) UpdateTokenVersion(adminID uuid.UUID, version string) error {
	return r.db.Model(&model.Admin{}).Where("id = ?", adminID).Update("token_version", version).Error
}

func (r *adminRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	return r.db.Model(&model.Admin{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_by": updatedBy,
		}).Error
}
