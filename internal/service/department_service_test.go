package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crm-api/internal/model"
)

func TestCreateDepartmentDuplicateName(t *testing.T) {
	deptRepo := &fakeDepartmentRepo{}
	svc := NewDepartmentService(deptRepo)

	_, err := svc.Create(&CreateDepartmentRequest{Name: "Sales", Subroles: []string{"Rep"}}, "tester")
	require.NoError(t, err)

	_, err = svc.Create(&CreateDepartmentRequest{Name: "Sales", Subroles: []string{"Agent"}}, "tester")
	assert.ErrorIs(t, err, ErrDepartmentExists)
}

func TestSalesTeamExclusivity(t *testing.T) {
	deptRepo := &fakeDepartmentRepo{}
	svc := NewDepartmentService(deptRepo)

	_, err := svc.Create(&CreateDepartmentRequest{
		Name: "Sales", Subroles: []string{"Rep"}, IsSalesTeam: true,
	}, "tester")
	require.NoError(t, err)

	t.Run("second sales team on create", func(t *testing.T) {
		_, err := svc.Create(&CreateDepartmentRequest{
			Name: "Field Sales", Subroles: []string{"Rep"}, IsSalesTeam: true,
		}, "tester")
		assert.ErrorIs(t, err, ErrSalesTeamTaken)
	})

	t.Run("second sales team on update", func(t *testing.T) {
		support, err := svc.Create(&CreateDepartmentRequest{
			Name: "Support", Subroles: []string{"Agent"},
		}, "tester")
		require.NoError(t, err)

		flag := true
		_, err = svc.Update(support.ID, &UpdateDepartmentRequest{
			Name: "Support", Subroles: []string{"Agent"}, IsSalesTeam: &flag,
		}, "tester")
		assert.ErrorIs(t, err, ErrSalesTeamTaken)
	})

	t.Run("existing sales team can keep its flag", func(t *testing.T) {
		sales, err := deptRepo.FindByName("Sales")
		require.NoError(t, err)

		flag := true
		updated, err := svc.Update(sales.ID, &UpdateDepartmentRequest{
			Name: "Sales", Subroles: []string{"Rep", "Manager"}, IsSalesTeam: &flag,
		}, "tester")
		require.NoError(t, err)
		assert.True(t, updated.IsSalesTeam)
		assert.Equal(t, []string{"Rep", "Manager"}, updated.Subroles)
	})
}

func TestDeactivateDepartmentHidesFromActiveList(t *testing.T) {
	deptRepo := &fakeDepartmentRepo{}
	permRepo := &fakePermissionRepo{}
	svc := NewDepartmentService(deptRepo)

	dept, err := svc.Create(&CreateDepartmentRequest{Name: "Sales", Subroles: []string{"Rep"}}, "tester")
	require.NoError(t, err)

	require.NoError(t, permRepo.UpsertRolePermission(&model.RolePermission{
		DepartmentID: dept.ID,
		Subrole:      "Rep",
		ActivityID:   7,
		Rights:       model.Rights{CanView: true},
	}))

	require.NoError(t, svc.SetActive(dept.ID, false, "tester"))

	active, err := svc.List(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Deactivation keeps the permission rows; reactivating restores access
	// without re-assignment
	rows, err := permRepo.FindRolePermissions(dept.ID, "Rep")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSetActiveUnknownDepartment(t *testing.T) {
	svc := NewDepartmentService(&fakeDepartmentRepo{})
	assert.ErrorIs(t, svc.SetActive(uuid.New(), false, "tester"), ErrDepartmentNotFound)
}
