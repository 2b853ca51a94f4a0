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
	ErrPackageExists   = errors.New("package name already exists")
	ErrPackageNotFound = errors.New("package not found")
)

type PackageRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Price           int64  `json:"price" validate:"gte=0"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	DurationDays    int    `json:"duration_days" validate:"gt=0"`
}

type PackageService interface {
	Create(req *PackageRequest, createdBy string) (*model.Package, error)
	Update(id uuid.UUID, req *PackageRequest, updatedBy string) (*model.Package, error)
	SetActive(id uuid.UUID, active bool, updatedBy string) error
	Get(id uuid.UUID) (*model.Package, error)
	List(activeOnly bool) ([]model.Package, error)
}

type packageService struct {
	pkgRepo repository.PackageRepository
}

func NewPackageService(pkgRepo repository.PackageRepository) PackageService {
	return &packageService{pkgRepo: pkgRepo}
}

func (s *packageService) Create(req *PackageRequest, createdBy string) (*model.Package, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.pkgRepo.FindByName(req.Name); existing != nil {
		return nil, ErrPackageExists
	}

	pkg := &model.Package{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		DurationDays:    req.DurationDays,
		IsActive:        true,
	}
	pkg.CreatedBy = createdBy
	pkg.UpdatedBy = createdBy

	if err := s.pkgRepo.Create(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) Update(id uuid.UUID, req *PackageRequest, updatedBy string) (*model.Package, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	pkg, err := s.pkgRepo.FindByID(id)
	if err != nil {
		return nil, ErrPackageNotFound
	}

	if req.Name != pkg.Name {
		if existing, _ := s.pkgRepo.FindByName(req.Name); existing != nil {
			return nil, ErrPackageExists
		}
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.Price = req.Price
	pkg.DiscountPercent = req.DiscountPercent
	pkg.DurationDays = req.DurationDays
	pkg.UpdatedBy = updatedBy

	if err := s.pkgRepo.Update(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	if _, err := s.pkgRepo.FindByID(id); err != nil {
		return ErrPackageNotFound
	}
	return s.pkgRepo.SetActive(id, active, updatedBy)
}

func (s *packageService) Get(id uuid.UUID) (*model.Package, error) {
	pkg, err := s.pkgRepo.FindByID(id)
	if err != nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *packageService) List(activeOnly bool) ([]model.Package, error) {
	return s.pkgRepo.FindAll(activeOnly)
}
