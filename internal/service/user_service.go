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
	ErrEmailExists     = errors.New("email already exists")
	ErrSubroleRequired = errors.New("a non-special user needs a department and subrole")
)

type CreateUserRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	FullName     string     `json:"full_name" validate:"required"`
	PhoneNumber  string     `json:"phone_number"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Subrole      string     `json:"subrole"`
	IsSpecial    bool       `json:"is_special"`
}

type UpdateUserRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     *string    `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName     string     `json:"full_name" validate:"required"`
	PhoneNumber  string     `json:"phone_number"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Subrole      string     `json:"subrole"`
	IsSpecial    *bool      `json:"is_special"`
	IsActive     *bool      `json:"is_active"`
}

type UserService interface {
	Create(req *CreateUserRequest, createdBy string) (*model.User, error)
	Update(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.User, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
	Get(id uuid.UUID) (*model.UserResponse, error)
	List() ([]model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
}

func NewUserService(userRepo repository.UserRepository, deptRepo repository.DepartmentRepository) UserService {
	return &userService{userRepo: userRepo, deptRepo: deptRepo}
}

// checkRoleAssignment validates the department/subrole pair. Special users
// may omit both (their rights come from individual grants) or keep a nominal
// department for org charts; it plays no part in permission resolution.
func (s *userService) checkRoleAssignment(departmentID *uuid.UUID, subrole string, isSpecial bool) error {
	if departmentID == nil || subrole == "" {
		if isSpecial {
			return nil
		}
		return ErrSubroleRequired
	}
	dept, err := s.deptRepo.FindByID(*departmentID)
	if err != nil {
		return ErrDepartmentNotFound
	}
	if !dept.HasSubrole(subrole) {
		return ErrUnknownSubrole
	}
	return nil
}

func (s *userService) Create(req *CreateUserRequest, createdBy string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}
	if err := s.checkRoleAssignment(req.DepartmentID, req.Subrole, req.IsSpecial); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		DepartmentID: req.DepartmentID,
		Subrole:      req.Subrole,
		IsSpecial:    req.IsSpecial,
		IsActive:     true,
	}
	user.CreatedBy = createdBy
	user.UpdatedBy = createdBy

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	isSpecial := user.IsSpecial
	if req.IsSpecial != nil {
		isSpecial = *req.IsSpecial
	}
	if err := s.checkRoleAssignment(req.DepartmentID, req.Subrole, isSpecial); err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.DepartmentID = req.DepartmentID
	user.Subrole = req.Subrole
	user.IsSpecial = isSpecial
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updatedBy

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(id)
}

func (s *userService) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.SetActive(id, active, updatedBy)
}

func (s *userService) Get(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) List() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}
