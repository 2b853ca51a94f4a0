package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-crm-api/internal/model"
	"go-crm-api/internal/repository"
	"go-crm-api/pkg/validator"
)

var ErrCannotDeactivateSuper = errors.New("the bootstrap super admin cannot be deactivated")

type CreateAdminRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateAdminRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number"`
}

type AdminService interface {
	Create(req *CreateAdminRequest, createdBy string) (*model.Admin, error)
	Update(id uuid.UUID, req *UpdateAdminRequest, updatedBy string) (*model.Admin, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
	Get(id uuid.UUID) (*model.AdminResponse, error)
	List() ([]model.AdminResponse, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
}

func NewAdminService(adminRepo repository.AdminRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) Create(req *CreateAdminRequest, createdBy string) (*model.Admin, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.adminRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	admin := &model.Admin{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}
	admin.CreatedBy = createdBy
	admin.UpdatedBy = createdBy

	if err := admin.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) Update(id uuid.UUID, req *UpdateAdminRequest, updatedBy string) (*model.Admin, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	admin, err := s.adminRepo.FindByID(id)
	if err != nil {
		return nil, ErrAdminNotFound
	}

	if req.Email != admin.Email {
		if existing, _ := s.adminRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	admin.Email = req.Email
	admin.FullName = req.FullName
	admin.PhoneNumber = req.PhoneNumber
	admin.UpdatedBy = updatedBy

	if req.Password != nil && *req.Password != "" {
		if err := admin.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// SetActive soft-deactivates an admin; rows are never deleted so the
// AdminPermission history stays referentially intact
func (s *adminService) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	admin, err := s.adminRepo.FindByID(id)
	if err != nil {
		return ErrAdminNotFound
	}
	if admin.IsSuper && !active {
		return ErrCannotDeactivateSuper
	}
	return s.adminRepo.SetActive(id, active, updatedBy)
}

func (s *adminService) Get(id uuid.UUID) (*model.AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(id)
	if err != nil {
		return nil, ErrAdminNotFound
	}
	resp := admin.ToResponse()
	return &resp, nil
}

func (s *adminService) List() ([]model.AdminResponse, error) {
	admins, err := s.adminRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.AdminResponse, len(admins))
	for i, admin := range admins {
		responses[i] = admin.ToResponse()
	}
	return responses, nil
}
