package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/model"
	"go-crm-api/internal/repository"
	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
	"go-crm-api/pkg/validator"
)

type LeadHandler struct {
	leads service.LeadService
}

func NewLeadHandler(leads service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// Create registers a new lead
// POST /api/v1/leads
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var req service.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return response.ValidationError(c, response.FromValidator(errs))
	}

	lead, err := h.leads.Create(c.UserContext(), &req, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to create lead")
	}
	return response.Created(c, "Lead created", lead)
}

// Update modifies a lead's contact and package details
// PUT /api/v1/leads/:id
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	var req service.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return response.ValidationError(c, response.FromValidator(errs))
	}

	lead, err := h.leads.Update(c.UserContext(), id, &req, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Lead updated", lead)
}

// Get returns a single lead with its assignee and package preloaded
// GET /api/v1/leads/:id
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	lead, err := h.leads.Get(id)
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Lead not found")
	}
	return response.OK(c, "", lead)
}

// List returns leads filtered by status and assignee, paginated
// GET /api/v1/leads?status=&assigned_to=&page=&limit=
func (h *LeadHandler) List(c *fiber.Ctx) error {
	filter := repository.LeadFilter{
		Status: model.LeadStatus(c.Query("status")),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 25),
	}
	if raw := c.Query("assigned_to"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, fiber.StatusBadRequest, "Invalid assigned_to ID")
		}
		filter.AssignedToID = &assigneeID
	}

	leads, total, err := h.leads.List(filter)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch leads")
	}
	return response.OK(c, "", fiber.Map{
		"leads": leads,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// Search runs a full-text query over the lead index, falling back to a
// database scan when the index is unavailable
// GET /api/v1/leads/search?q=&limit=
func (h *LeadHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.Error(c, fiber.StatusBadRequest, "Query parameter 'q' is required")
	}

	leads, err := h.leads.Search(c.UserContext(), query, c.QueryInt("limit", 25))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Search failed")
	}
	return response.OK(c, "", leads)
}

// Assign hands the lead to a user and notifies them
// PATCH /api/v1/leads/:id/assign
func (h *LeadHandler) Assign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return response.Error(c, fiber.StatusBadRequest, "user_id is required")
	}

	lead, err := h.leads.Assign(c.UserContext(), id, req.UserID, updaterID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssigneeInactive):
			return response.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to assign lead")
	}
	return response.OK(c, "Lead assigned", lead)
}

// UpdateStatus moves the lead through its pipeline
// PATCH /api/v1/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	var req struct {
		Status model.LeadStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return response.Error(c, fiber.StatusBadRequest, "status is required")
	}

	lead, err := h.leads.UpdateStatus(c.UserContext(), id, req.Status, updaterID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update status")
	}
	return response.OK(c, "Lead status updated", lead)
}

// Archive retires a lead. Archived is terminal.
// PATCH /api/v1/leads/:id/archive
func (h *LeadHandler) Archive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid lead ID")
	}

	lead, err := h.leads.Archive(c.UserContext(), id, updaterID(c))
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return response.Error(c, fiber.StatusNotFound, err.Error())
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to archive lead")
	}
	return response.OK(c, "Lead archived", lead)
}

// Stats returns the per-status lead counts for the dashboard
// GET /api/v1/leads/stats
func (h *LeadHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.leads.Stats()
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch stats")
	}
	return response.OK(c, "", stats)
}
