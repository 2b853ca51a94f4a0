package rbac

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crm-api/internal/model"
)

func TestGateDeniedByDefault(t *testing.T) {
	gate := DeniedGate()
	assert.False(t, gate.Check(model.ActivityLeads, model.ActionView))
	assert.Equal(t, model.Rights{}, gate.Rights(model.ActivityLeads))

	// A nil gate (resolution never ran) also denies
	var nilGate *Gate
	assert.False(t, nilGate.Check(model.ActivityLeads, model.ActionView))
}

func TestGateUnknownActivityAndAction(t *testing.T) {
	activities := testActivities()
	m := NewMatrix(activities)
	m.grant(7, model.Rights{CanView: true, CanAdd: true, CanEdit: true, CanDelete: true})
	gate := NewGate(activities, m)

	assert.False(t, gate.Check("No Such Activity", model.ActionView))
	assert.False(t, gate.Check(model.ActivityLeads, model.Action("export")))
}

// Department "Sales" / subrole "Rep" is granted {view, add} on Lead
// Management; edit stays denied and every other activity stays all-false.
func TestGateSalesRepScenario(t *testing.T) {
	deptID := uuid.New()
	perms := &fakePermissionRepo{
		rolePerms: []model.RolePermission{
			{ID: 1, DepartmentID: deptID, Subrole: "Rep", ActivityID: 7, Rights: model.Rights{CanView: true, CanAdd: true}},
		},
	}
	resolver := NewResolver(&fakeActivityRepo{activities: testActivities()}, perms)

	deptPtr := deptID
	caller := &model.User{DepartmentID: &deptPtr, Subrole: "Rep"}
	grantee, err := ClassifyUser(caller)
	require.NoError(t, err)

	gate := resolver.Gate(grantee)

	assert.True(t, gate.Check(model.ActivityLeads, model.ActionView))
	assert.True(t, gate.Check(model.ActivityLeads, model.ActionAdd))
	assert.False(t, gate.Check(model.ActivityLeads, model.ActionEdit))
	assert.False(t, gate.Check(model.ActivityLeads, model.ActionDelete))
	assert.False(t, gate.Check(model.ActivityUsers, model.ActionView))
	assert.False(t, gate.Check(model.ActivityPackages, model.ActionView))
}

func TestGateActivityRegistryFailureDenies(t *testing.T) {
	resolver := NewResolver(
		&fakeActivityRepo{err: assert.AnError},
		&fakePermissionRepo{},
	)
	gate := resolver.Gate(AdminGrantee(uuid.New()))
	assert.False(t, gate.Check(model.ActivityLeads, model.ActionView))
}

func TestRightsTokensRoundTrip(t *testing.T) {
	r := model.RightsFromTokens([]string{"view", "edit", "bogus"})
	assert.Equal(t, model.Rights{CanView: true, CanEdit: true}, r)
	assert.Equal(t, []string{"view", "edit"}, r.Tokens())
}
