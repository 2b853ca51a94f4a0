package repository

import (
	"go-crm-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(department *model.Department) error
	Update(department *model.Department) error
	FindByID(id uuid.UUID) (*model.Department, error)
	FindByName(name string) (*model.Department, error)
	FindAll(activeOnly bool) ([]model.Department, error)
	FindSalesTeam() (*model.Department, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
}

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db}
}

func (r *departmentRepo) Create(department *model.Department) error {
	return r.db.Create(department).Error
}

func (r *departmentRepo) Update(department *model.Department) error {
	return r.db.Save(department).Error
}

func (r *departmentRepo) FindByID(id uuid.UUID) (*model.Department, error) {
	var department model.Department
	if err := r.db.First(&department, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepo) FindByName(name string) (*model.Department, error) {
	var department model.Department
	if err := r.db.Where("name = ?", name).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// FindAll lists departments; activeOnly is what selection dropdowns use so
// deactivated departments disappear from them without losing their rows.
func (r *departmentRepo) FindAll(activeOnly bool) ([]model.Department, error) {
	var departments []model.Department
	q := r.db.Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&departments).Error
	return departments, err
}

func (r *departmentRepo) FindSalesTeam() (*model.Department, error) {
	var department model.Department
	if err := r.db.Where("is_sales_team = ?", true).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	return r.db.Model(&model.Department{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_by": updatedBy,
		}).Error
}
