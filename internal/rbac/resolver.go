package rbac

import (
	"go-crm-api/internal/model"
	"go-crm-api/internal/repository"
)

// Matrix is a total mapping from activity ID to rights. Every activity in
// the registry is represented; lookups for anything else return the zero
// (all-deny) rights block, so "missing entry" can never read as access.
type Matrix struct {
	rights map[uint]model.Rights
}

// NewMatrix builds an all-deny matrix covering the given activities
func NewMatrix(activities []model.Activity) Matrix {
	m := Matrix{rights: make(map[uint]model.Rights, len(activities))}
	for _, a := range activities {
		m.rights[a.ID] = model.Rights{}
	}
	return m
}

// grant ORs rights into an existing entry. Rows referencing activities
// outside the registry (e.g. deactivated ones) are dropped.
func (m Matrix) grant(activityID uint, r model.Rights) {
	existing, ok := m.rights[activityID]
	if !ok {
		return
	}
	m.rights[activityID] = existing.Union(r)
}

// Rights is the total lookup: activities without a permission row resolve
// to the zero rights block rather than being absent.
func (m Matrix) Rights(activityID uint) model.Rights {
	return m.rights[activityID]
}

// Allows reports whether the matrix grants the action on the activity
func (m Matrix) Allows(activityID uint, action model.Action) bool {
	return m.Rights(activityID).Allows(action)
}

// Len returns the number of registry activities covered
func (m Matrix) Len() int { return len(m.rights) }

// Map returns a copy of the matrix keyed by activity ID
func (m Matrix) Map() map[uint]model.Rights {
	out := make(map[uint]model.Rights, len(m.rights))
	for id, r := range m.rights {
		out[id] = r
	}
	return out
}

// Resolver turns a grantee into its effective rights matrix. Each resolution
// is a fresh read; there is no caching layer.
type Resolver struct {
	activities  repository.ActivityRepository
	permissions repository.PermissionRepository
}

func NewResolver(activities repository.ActivityRepository, permissions repository.PermissionRepository) *Resolver {
	return &Resolver{activities: activities, permissions: permissions}
}

// Resolve returns the full rights matrix for a grantee. A grantee that
// references a nonexistent admin/user/department simply has no rows and
// resolves to all-deny; only transport/store failures return an error.
func (r *Resolver) Resolve(g Grantee) (Matrix, error) {
	activities, err := r.activities.FindActive()
	if err != nil {
		return Matrix{}, err
	}
	return r.resolve(activities, g)
}

func (r *Resolver) resolve(activities []model.Activity, g Grantee) (Matrix, error) {
	m := NewMatrix(activities)

	switch g.Kind() {
	case KindAdmin:
		rows, err := r.permissions.FindAdminPermissions(g.AdminID())
		if err != nil {
			return Matrix{}, err
		}
		for _, row := range rows {
			m.grant(row.ActivityID, row.Rights)
		}
	case KindSpecialUser:
		rows, err := r.permissions.FindSpecialUserPermissions(g.UserID())
		if err != nil {
			return Matrix{}, err
		}
		for _, row := range rows {
			m.grant(row.ActivityID, row.Rights)
		}
	case KindDepartmentRole:
		rows, err := r.permissions.FindRolePermissions(g.DepartmentID(), g.Subrole())
		if err != nil {
			return Matrix{}, err
		}
		for _, row := range rows {
			m.grant(row.ActivityID, row.Rights)
		}
	default:
		// Unclassified callers resolve to all-deny
	}

	return m, nil
}

// ResolveDepartment returns the matrix for a (department, subrole) pair
// without a classified caller. An empty subrole unions rights across all
// subroles in the department; that form is for admin review screens only,
// never per-caller enforcement.
func (r *Resolver) ResolveDepartment(g Grantee) (Matrix, error) {
	activities, err := r.activities.FindActive()
	if err != nil {
		return Matrix{}, err
	}
	m := NewMatrix(activities)
	rows, err := r.permissions.FindRolePermissions(g.DepartmentID(), g.Subrole())
	if err != nil {
		return Matrix{}, err
	}
	for _, row := range rows {
		m.grant(row.ActivityID, row.Rights)
	}
	return m, nil
}

// Gate resolves the grantee and wraps the result in an enforcement gate.
// Any failure yields the denied gate — resolution never fails open.
func (r *Resolver) Gate(g Grantee) *Gate {
	activities, err := r.activities.FindActive()
	if err != nil {
		return DeniedGate()
	}
	m, err := r.resolve(activities, g)
	if err != nil {
		return DeniedGate()
	}
	return NewGate(activities, m)
}
