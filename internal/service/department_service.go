package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-crm-api/internal/model"
	"go-crm-api/internal/repository"
	"go-crm-api/pkg/validator"
)

var (
	ErrDepartmentExists = errors.New("department name already exists")
	ErrSalesTeamTaken   = errors.New("another department is already the sales team")
)

type CreateDepartmentRequest struct {
	Name        string   `json:"department_name" validate:"required"`
	Subroles    []string `json:"subroles" validate:"required,min=1,dive,required"`
	IsSalesTeam bool     `json:"is_sales_team"`
}

type UpdateDepartmentRequest struct {
	Name        string   `json:"department_name" validate:"required"`
	Subroles    []string `json:"subroles" validate:"required,min=1,dive,required"`
	IsSalesTeam *bool    `json:"is_sales_team"`
}

type DepartmentService interface {
	Create(req *CreateDepartmentRequest, createdBy string) (*model.Department, error)
	Update(id uuid.UUID, req *UpdateDepartmentRequest, updatedBy string) (*model.Department, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
	Get(id uuid.UUID) (*model.Department, error)
	List(activeOnly bool) ([]model.Department, error)
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
}

func NewDepartmentService(deptRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{deptRepo: deptRepo}
}

func (s *departmentService) Create(req *CreateDepartmentRequest, createdBy string) (*model.Department, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.deptRepo.FindByName(req.Name); existing != nil {
		return nil, ErrDepartmentExists
	}

	// At most one department may be the sales team
	if req.IsSalesTeam {
		if existing, _ := s.deptRepo.FindSalesTeam(); existing != nil {
			return nil, ErrSalesTeamTaken
		}
	}

	dept := &model.Department{
		Name:        req.Name,
		Subroles:    req.Subroles,
		IsSalesTeam: req.IsSalesTeam,
		IsActive:    true,
	}
	dept.CreatedBy = createdBy
	dept.UpdatedBy = createdBy

	if err := s.deptRepo.Create(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Update(id uuid.UUID, req *UpdateDepartmentRequest, updatedBy string) (*model.Department, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	dept, err := s.deptRepo.FindByID(id)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}

	if req.Name != dept.Name {
		if existing, _ := s.deptRepo.FindByName(req.Name); existing != nil {
			return nil, ErrDepartmentExists
		}
	}

	if req.IsSalesTeam != nil && *req.IsSalesTeam && !dept.IsSalesTeam {
		if existing, _ := s.deptRepo.FindSalesTeam(); existing != nil && existing.ID != dept.ID {
			return nil, ErrSalesTeamTaken
		}
	}

	dept.Name = req.Name
	dept.Subroles = req.Subroles
	if req.IsSalesTeam != nil {
		dept.IsSalesTeam = *req.IsSalesTeam
	}
	dept.UpdatedBy = updatedBy

	if err := s.deptRepo.Update(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// SetActive toggles the status flag. Deactivation intentionally leaves the
// department's RolePermission rows in place; the department just stops
// appearing in active-only listings.
func (s *departmentService) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	if _, err := s.deptRepo.FindByID(id); err != nil {
		return ErrDepartmentNotFound
	}
	return s.deptRepo.SetActive(id, active, updatedBy)
}

func (s *departmentService) Get(id uuid.UUID) (*model.Department, error) {
	return s.deptRepo.FindByID(id)
}

func (s *departmentService) List(activeOnly bool) ([]model.Department, error) {
	return s.deptRepo.FindAll(activeOnly)
}
