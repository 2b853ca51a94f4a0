package repository

import (
	"go-crm-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackageRepository interface {
	Create(pkg *model.Package) error
	Update(pkg *model.Package) error
	FindByID(id uuid.UUID) (*model.Package, error)
	FindByName(name string) (*model.Package, error)
	FindAll(activeOnly bool) ([]model.Package, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
}

type packageRepo struct {
	db *gorm.DB
}

func NewPackageRepo(db *gorm.DB) PackageRepository {
	return &packageRepo{db}
}

func (r *packageRepo) Create(pkg *model.Package) error {
	return r.db.Create(pkg).Error
}

func (r *packageRepo) Update(pkg *model.Package) error {
	return r.db.Save(pkg).Error
}

func (r *packageRepo) FindByID(id uuid.UUID) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepo) FindByName(name string) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.Where("name = ?", name).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepo) FindAll(activeOnly bool) ([]model.Package, error) {
	var packages []model.Package
	q := r.db.Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&packages).Error
	return packages, err
}

func (r *packageRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	return r.db.Model(&model.Package{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_by": updatedBy,
		}).Error
}
