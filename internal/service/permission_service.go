package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-crm-api/internal/model"
	"go-crm-api/internal/rbac"
	"go-crm-api/internal/repository"
	"go-crm-api/pkg/validator"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrUnknownSubrole     = errors.New("subrole does not belong to the department")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrNotSpecialUser     = errors.New("user is not flagged special; assign rights through their department role instead")
	ErrUnknownActivity    = errors.New("unknown or inactive activity")
)

// AssignRolePermissionsRequest assigns rights on a set of activities to a
// (department, subrole) pair. Each listed activity's rights block is fully
// replaced; activities not listed are left untouched.
type AssignRolePermissionsRequest struct {
	DepartmentID uuid.UUID         `json:"dept_id" validate:"uuid_required"`
	Subrole      string            `json:"subrole" validate:"required"`
	HasAccessTo  map[uint][]string `json:"hasAccessTo" validate:"required"`
}

// AssignGranteePermissionsRequest is the admin/special-user counterpart
type AssignGranteePermissionsRequest struct {
	HasAccessTo map[uint][]string `json:"hasAccessTo" validate:"required"`
}

type PermissionService interface {
	ListActivities(includeInactive bool) ([]model.Activity, error)

	RolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error)
	AssignRolePermissions(req *AssignRolePermissionsRequest, updatedBy string) ([]model.RolePermission, error)
	UpdateRolePermission(id uint, tokens []string, updatedBy string) (*model.RolePermission, error)

	AdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error)
	AssignAdminPermissions(adminID uuid.UUID, req *AssignGranteePermissionsRequest, updatedBy string) ([]model.AdminPermission, error)

	SpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error)
	AssignSpecialUserPermissions(userID uuid.UUID, req *AssignGranteePermissionsRequest, updatedBy string) ([]model.SpecialUserPermission, error)

	// ResolveNamed returns the grantee's effective matrix keyed by activity
	// name, each entry holding the granted tokens (possibly empty).
	ResolveNamed(g rbac.Grantee) map[string][]string
}

type permissionService struct {
	activityRepo repository.ActivityRepository
	permRepo     repository.PermissionRepository
	deptRepo     repository.DepartmentRepository
	adminRepo    repository.AdminRepository
	userRepo     repository.UserRepository
	resolver     *rbac.Resolver
}

func NewPermissionService(
	activityRepo repository.ActivityRepository,
	permRepo repository.PermissionRepository,
	deptRepo repository.DepartmentRepository,
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	resolver *rbac.Resolver,
) PermissionService {
	return &permissionService{
		activityRepo: activityRepo,
		permRepo:     permRepo,
		deptRepo:     deptRepo,
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		resolver:     resolver,
	}
}

func (s *permissionService) ListActivities(includeInactive bool) ([]model.Activity, error) {
	if includeInactive {
		return s.activityRepo.FindAll()
	}
	return s.activityRepo.FindActive()
}

func (s *permissionService) RolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error) {
	// A nonexistent department simply has no rows; callers treat that the
	// same as "no permissions assigned"
	return s.permRepo.FindRolePermissions(departmentID, subrole)
}

func (s *permissionService) AssignRolePermissions(req *AssignRolePermissionsRequest, updatedBy string) ([]model.RolePermission, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	dept, err := s.deptRepo.FindByID(req.DepartmentID)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}
	if !dept.HasSubrole(req.Subrole) {
		return nil, ErrUnknownSubrole
	}
	if err := s.validateActivityIDs(req.HasAccessTo); err != nil {
		return nil, err
	}

	for activityID, tokens := range req.HasAccessTo {
		row := &model.RolePermission{
			DepartmentID: req.DepartmentID,
			Subrole:      req.Subrole,
			ActivityID:   activityID,
			Rights:       model.RightsFromTokens(tokens),
		}
		if err := s.permRepo.UpsertRolePermission(row); err != nil {
			return nil, err
		}
	}

	return s.permRepo.FindRolePermissions(req.DepartmentID, req.Subrole)
}

func (s *permissionService) UpdateRolePermission(id uint, tokens []string, updatedBy string) (*model.RolePermission, error) {
	row, err := s.permRepo.FindRolePermissionByID(id)
	if err != nil {
		return nil, err
	}
	// Full replacement of the rights block, never a merge
	row.Rights = model.RightsFromTokens(tokens)
	if err := s.permRepo.UpsertRolePermission(row); err != nil {
		return nil, err
	}
	return s.permRepo.FindRolePermissionByID(id)
}

func (s *permissionService) AdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error) {
	return s.permRepo.FindAdminPermissions(adminID)
}

func (s *permissionService) AssignAdminPermissions(adminID uuid.UUID, req *AssignGranteePermissionsRequest, updatedBy string) ([]model.AdminPermission, error) {
	if _, err := s.adminRepo.FindByID(adminID); err != nil {
		return nil, ErrAdminNotFound
	}
	if err := s.validateActivityIDs(req.HasAccessTo); err != nil {
		return nil, err
	}

	for activityID, tokens := range req.HasAccessTo {
		row := &model.AdminPermission{
			AdminID:    adminID,
			ActivityID: activityID,
			Rights:     model.RightsFromTokens(tokens),
		}
		if err := s.permRepo.UpsertAdminPermission(row); err != nil {
			return nil, err
		}
	}

	return s.permRepo.FindAdminPermissions(adminID)
}

func (s *permissionService) SpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error) {
	return s.permRepo.FindSpecialUserPermissions(userID)
}

func (s *permissionService) AssignSpecialUserPermissions(userID uuid.UUID, req *AssignGranteePermissionsRequest, updatedBy string) ([]model.SpecialUserPermission, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	// Individual grants are only valid for special users; everyone else is
	// permissioned through their department role. Rejecting here keeps the
	// classifications exclusive at the data layer.
	if !user.IsSpecial {
		return nil, ErrNotSpecialUser
	}
	if err := s.validateActivityIDs(req.HasAccessTo); err != nil {
		return nil, err
	}

	for activityID, tokens := range req.HasAccessTo {
		row := &model.SpecialUserPermission{
			UserID:     userID,
			ActivityID: activityID,
			Rights:     model.RightsFromTokens(tokens),
		}
		if err := s.permRepo.UpsertSpecialUserPermission(row); err != nil {
			return nil, err
		}
	}

	return s.permRepo.FindSpecialUserPermissions(userID)
}

func (s *permissionService) ResolveNamed(g rbac.Grantee) map[string][]string {
	activities, err := s.activityRepo.FindActive()
	if err != nil {
		return map[string][]string{}
	}
	matrix, err := s.resolver.Resolve(g)
	if err != nil {
		matrix = rbac.NewMatrix(activities)
	}

	out := make(map[string][]string, len(activities))
	for _, a := range activities {
		out[a.Name] = matrix.Rights(a.ID).Tokens()
	}
	return out
}

func (s *permissionService) validateActivityIDs(hasAccessTo map[uint][]string) error {
	activities, err := s.activityRepo.FindActive()
	if err != nil {
		return err
	}
	valid := make(map[uint]bool, len(activities))
	for _, a := range activities {
		valid[a.ID] = true
	}
	for id := range hasAccessTo {
		if !valid[id] {
			return fmt.Errorf("%w: id %d", ErrUnknownActivity, id)
		}
	}
	return nil
}
