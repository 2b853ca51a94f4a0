package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
	"go-crm-api/pkg/validator"
)

type AdminHandler struct {
	admins service.AdminService
}

func NewAdminHandler(admins service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// Create registers a new admin account
// POST /api/v1/admins
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req service.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return response.ValidationError(c, response.FromValidator(errs))
	}

	admin, err := h.admins.Create(&req, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Admin created", admin.ToResponse())
}

// Update modifies an existing admin
// PUT /api/v1/admins/:id
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	var req service.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	admin, err := h.admins.Update(id, &req, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, service.ErrEmailExists) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Admin updated", admin.ToResponse())
}

// SetStatus activates or deactivates an admin. The bootstrap super admin
// cannot be deactivated.
// PATCH /api/v1/admins/:id/status
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.Error(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := h.admins.SetActive(id, *req.IsActive, updaterID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeactivateSuper):
			return response.Error(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAdminNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update status")
	}
	return response.OK(c, "Admin status updated", nil)
}

// Get returns a single admin
// GET /api/v1/admins/:id
func (h *AdminHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	admin, err := h.admins.Get(id)
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Admin not found")
	}
	return response.OK(c, "", admin)
}

// List returns all admins
// GET /api/v1/admins
func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.List()
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch admins")
	}
	return response.OK(c, "", admins)
}
