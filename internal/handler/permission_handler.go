package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/middleware"
	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
)

type PermissionHandler struct {
	perms service.PermissionService
}

func NewPermissionHandler(perms service.PermissionService) *PermissionHandler {
	return &PermissionHandler{perms: perms}
}

func updaterID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSubjectID).(string); ok {
		return id
	}
	return "system"
}

// ListActivities returns the activity registry
// GET /api/v1/activity/all
func (h *PermissionHandler) ListActivities(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	activities, err := h.perms.ListActivities(includeInactive)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch activities")
	}
	return response.OK(c, "", activities)
}

// MyPermissions returns the caller's resolved rights grid keyed by activity
// name, with every registry activity present
// GET /api/v1/permissions/me
func (h *PermissionHandler) MyPermissions(c *fiber.Ctx) error {
	grantee, ok := middleware.GranteeFromCtx(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return response.OK(c, "", h.perms.ResolveNamed(grantee))
}

// GetRolePermissions lists permission rows for a department, optionally
// filtered by subrole
// GET /api/v1/role-permissions/department/:deptId?role=<subrole>
func (h *PermissionHandler) GetRolePermissions(c *fiber.Ctx) error {
	deptID, err := uuid.Parse(c.Params("deptId"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid department ID")
	}

	rows, err := h.perms.RolePermissions(deptID, c.Query("role"))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch permissions")
	}
	return response.OK(c, "", rows)
}

// AssignRolePermissions upserts rights for a (department, subrole) pair
// POST /api/v1/role-permissions/add
func (h *PermissionHandler) AssignRolePermissions(c *fiber.Ctx) error {
	var req service.AssignRolePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	rows, err := h.perms.AssignRolePermissions(&req, updaterID(c))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Permissions assigned", rows)
}

// UpdateRolePermission replaces the rights block of a single row
// PUT /api/v1/role-permissions/:id
func (h *PermissionHandler) UpdateRolePermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, fiber.StatusBadRequest, "Invalid permission ID")
	}

	var req struct {
		HasAccessTo []string `json:"hasAccessTo"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	row, err := h.perms.UpdateRolePermission(uint(id), req.HasAccessTo, updaterID(c))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Permission updated", row)
}

// GetAdminPermissions lists an admin's individual permission rows
// GET /api/v1/admin-permissions/admin/:adminId
func (h *PermissionHandler) GetAdminPermissions(c *fiber.Ctx) error {
	adminID, err := uuid.Parse(c.Params("adminId"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	rows, err := h.perms.AdminPermissions(adminID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch permissions")
	}
	return response.OK(c, "", rows)
}

// AssignAdminPermissions upserts rights for an individual admin
// POST /api/v1/admin-permissions/admin/:adminId
func (h *PermissionHandler) AssignAdminPermissions(c *fiber.Ctx) error {
	adminID, err := uuid.Parse(c.Params("adminId"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	var req service.AssignGranteePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	rows, err := h.perms.AssignAdminPermissions(adminID, &req, updaterID(c))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Permissions assigned", rows)
}

// GetSpecialUserPermissions lists a special user's permission rows
// GET /api/v1/special-user-permission/:userId
func (h *PermissionHandler) GetSpecialUserPermissions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	rows, err := h.perms.SpecialUserPermissions(userID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch permissions")
	}
	return response.OK(c, "", rows)
}

// AssignSpecialUserPermissions upserts rights for a special user. Targets
// that are not flagged special are rejected.
// POST /api/v1/special-user-permission/:userId
func (h *PermissionHandler) AssignSpecialUserPermissions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req service.AssignGranteePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	rows, err := h.perms.AssignSpecialUserPermissions(userID, &req, updaterID(c))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.Created(c, "Permissions assigned", rows)
}
