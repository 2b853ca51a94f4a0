package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crm-api/internal/model"
	"go-crm-api/internal/rbac"
)

func newPermissionFixture() (PermissionService, *fakePermissionRepo, *fakeDepartmentRepo, *fakeAdminRepo, *fakeUserRepo) {
	activityRepo := &fakeActivityRepo{activities: testActivities()}
	permRepo := &fakePermissionRepo{}
	deptRepo := &fakeDepartmentRepo{}
	adminRepo := &fakeAdminRepo{}
	userRepo := &fakeUserRepo{}
	resolver := rbac.NewResolver(activityRepo, permRepo)
	svc := NewPermissionService(activityRepo, permRepo, deptRepo, adminRepo, userRepo, resolver)
	return svc, permRepo, deptRepo, adminRepo, userRepo
}

func salesDepartment(deptRepo *fakeDepartmentRepo) *model.Department {
	dept := &model.Department{
		Name:        "Sales",
		Subroles:    []string{"Rep", "Manager"},
		IsSalesTeam: true,
		IsActive:    true,
	}
	deptRepo.Create(dept)
	return dept
}

func TestAssignRolePermissionsExactRights(t *testing.T) {
	svc, _, deptRepo, _, _ := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	rows, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		HasAccessTo:  map[uint][]string{7: {"view", "add"}},
	}, "tester")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Rights{CanView: true, CanAdd: true}, rows[0].Rights)

	// Unassigned activities stay absent as rows; resolution reports them
	// all-false instead
	named := svc.ResolveNamed(rbac.DepartmentRoleGrantee(dept.ID, "Rep"))
	assert.ElementsMatch(t, []string{"view", "add"}, named[model.ActivityLeads])
	assert.Empty(t, named[model.ActivityUsers])
	assert.Empty(t, named[model.ActivityPackages])
}

func TestAssignRolePermissionsReplacesNotMerges(t *testing.T) {
	svc, permRepo, deptRepo, _, _ := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	_, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		HasAccessTo:  map[uint][]string{7: {"view", "add", "edit", "delete"}},
	}, "tester")
	require.NoError(t, err)

	rows, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		HasAccessTo:  map[uint][]string{7: {"view"}},
	}, "tester")
	require.NoError(t, err)

	// Still a single row per tuple, holding only the new rights
	require.Len(t, rows, 1)
	assert.Equal(t, model.Rights{CanView: true}, rows[0].Rights)
	assert.Len(t, permRepo.rolePerms, 1)
}

func TestAssignRolePermissionsAllFalseIsRevoke(t *testing.T) {
	svc, _, deptRepo, _, _ := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	_, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		HasAccessTo:  map[uint][]string{7: {"view", "edit"}},
	}, "tester")
	require.NoError(t, err)

	_, err = svc.AssignRolePermissions(&AssignRolePermissionsRequest{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		HasAccessTo:  map[uint][]string{7: {}},
	}, "tester")
	require.NoError(t, err)

	named := svc.ResolveNamed(rbac.DepartmentRoleGrantee(dept.ID, "Rep"))
	assert.Empty(t, named[model.ActivityLeads])
}

func TestAssignRolePermissionsValidation(t *testing.T) {
	svc, _, deptRepo, _, _ := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	t.Run("unknown department", func(t *testing.T) {
		_, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
			DepartmentID: uuid.New(),
			Subrole:      "Rep",
			HasAccessTo:  map[uint][]string{7: {"view"}},
		}, "tester")
		assert.ErrorIs(t, err, ErrDepartmentNotFound)
	})

	t.Run("subrole not in department", func(t *testing.T) {
		_, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
			DepartmentID: dept.ID,
			Subrole:      "Intern",
			HasAccessTo:  map[uint][]string{7: {"view"}},
		}, "tester")
		assert.ErrorIs(t, err, ErrUnknownSubrole)
	})

	t.Run("unknown activity id", func(t *testing.T) {
		_, err := svc.AssignRolePermissions(&AssignRolePermissionsRequest{
			DepartmentID: dept.ID,
			Subrole:      "Rep",
			HasAccessTo:  map[uint][]string{99: {"view"}},
		}, "tester")
		assert.ErrorIs(t, err, ErrUnknownActivity)
	})
}

func TestUpdateRolePermissionFullReplacement(t *testing.T) {
	svc, permRepo, deptRepo, _, _ := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	require.NoError(t, permRepo.UpsertRolePermission(&model.RolePermission{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		ActivityID:   7,
		Rights:       model.Rights{CanView: true, CanAdd: true, CanEdit: true},
	}))

	row, err := svc.UpdateRolePermission(1, []string{"delete"}, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.Rights{CanDelete: true}, row.Rights)
}

func TestAssignAdminPermissions(t *testing.T) {
	svc, _, _, adminRepo, _ := newPermissionFixture()

	admin := &model.Admin{Email: "ops@example.com", IsActive: true}
	require.NoError(t, adminRepo.Create(admin))

	rows, err := svc.AssignAdminPermissions(admin.ID, &AssignGranteePermissionsRequest{
		HasAccessTo: map[uint][]string{8: {"view", "edit"}},
	}, "tester")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Rights{CanView: true, CanEdit: true}, rows[0].Rights)

	_, err = svc.AssignAdminPermissions(uuid.New(), &AssignGranteePermissionsRequest{
		HasAccessTo: map[uint][]string{8: {"view"}},
	}, "tester")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAssignSpecialUserPermissionsRejectsRegularUser(t *testing.T) {
	svc, _, deptRepo, _, userRepo := newPermissionFixture()
	dept := salesDepartment(deptRepo)

	regular := &model.User{
		Email:        "rep@example.com",
		DepartmentID: &dept.ID,
		Subrole:      "Rep",
		IsActive:     true,
	}
	require.NoError(t, userRepo.Create(regular))

	_, err := svc.AssignSpecialUserPermissions(regular.ID, &AssignGranteePermissionsRequest{
		HasAccessTo: map[uint][]string{7: {"view"}},
	}, "tester")
	assert.ErrorIs(t, err, ErrNotSpecialUser)

	special := &model.User{Email: "vip@example.com", IsSpecial: true, IsActive: true}
	require.NoError(t, userRepo.Create(special))

	rows, err := svc.AssignSpecialUserPermissions(special.ID, &AssignGranteePermissionsRequest{
		HasAccessTo: map[uint][]string{7: {"view"}},
	}, "tester")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Rights{CanView: true}, rows[0].Rights)
}

func TestResolveNamedCoversEveryActivity(t *testing.T) {
	svc, _, _, _, _ := newPermissionFixture()

	named := svc.ResolveNamed(rbac.AdminGrantee(uuid.New()))
	require.Len(t, named, len(testActivities()))
	for name, tokens := range named {
		assert.Empty(t, tokens, "expected no rights for %s", name)
	}
}
