package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
	"go-crm-api/pkg/validator"
)

type DepartmentHandler struct {
	depts service.DepartmentService
}

func NewDepartmentHandler(depts service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{depts: depts}
}

// Create adds a new department with its subrole list
// POST /api/v1/departments
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req service.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return response.ValidationError(c, response.FromValidator(errs))
	}

	dept, err := h.depts.Create(&req, updaterID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDepartmentExists):
			return response.Error(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSalesTeamTaken):
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Department created", dept)
}

// Update modifies a department's name, subroles, or sales-team flag
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid department ID")
	}

	var req service.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	dept, err := h.depts.Update(id, &req, updaterID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDepartmentNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDepartmentExists),
			errors.Is(err, service.ErrSalesTeamTaken):
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Department updated", dept)
}

// SetStatus activates or deactivates a department. Deactivation does not
// delete its permission rows; they go dormant with the department.
// PATCH /api/v1/departments/:id/status
func (h *DepartmentHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid department ID")
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.Error(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := h.depts.SetActive(id, *req.IsActive, updaterID(c)); err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update status")
	}
	return response.OK(c, "Department status updated", nil)
}

// Get returns a single department
// GET /api/v1/departments/:id
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid department ID")
	}

	dept, err := h.depts.Get(id)
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Department not found")
	}
	return response.OK(c, "", dept)
}

// List returns departments, active only unless ?all=true
// GET /api/v1/departments
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	all := c.QueryBool("all", false)
	depts, err := h.depts.List(!all)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch departments")
	}
	return response.OK(c, "", depts)
}
