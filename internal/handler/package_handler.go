package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
	"go-crm-api/pkg/validator"
)

type PackageHandler struct {
	packages service.PackageService
}

func NewPackageHandler(packages service.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// Create adds a new sellable package
// POST /api/v1/packages
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var req service.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return response.ValidationError(c, response.FromValidator(errs))
	}

	pkg, err := h.packages.Create(&req, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrPackageExists) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Package created", pkg)
}

// Update modifies a package's pricing or duration
// PUT /api/v1/packages/:id
func (h *PackageHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid package ID")
	}

	var req service.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	pkg, err := h.packages.Update(id, &req, updaterID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPackageExists):
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Package updated", pkg)
}

// SetStatus toggles whether the package can be attached to new leads
// PATCH /api/v1/packages/:id/status
func (h *PackageHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid package ID")
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.Error(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := h.packages.SetActive(id, *req.IsActive, updaterID(c)); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update status")
	}
	return response.OK(c, "Package status updated", nil)
}

// Get returns a single package
// GET /api/v1/packages/:id
func (h *PackageHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid package ID")
	}

	pkg, err := h.packages.Get(id)
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Package not found")
	}
	return response.OK(c, "", pkg)
}

// List returns packages, active only unless ?all=true
// GET /api/v1/packages
func (h *PackageHandler) List(c *fiber.Ctx) error {
	all := c.QueryBool("all", false)
	pkgs, err := h.packages.List(!all)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch packages")
	}
	return response.OK(c, "", pkgs)
}
