package rbac

import "go-crm-api/internal/model"

// Gate converts a resolved matrix plus an (activity name, action) pair into
// an allow/deny decision. The zero/denied gate refuses every check, which is
// what callers hold while resolution is pending or after it failed.
type Gate struct {
	byName   map[string]uint
	matrix   Matrix
	resolved bool
}

// NewGate builds a gate over a resolved matrix
func NewGate(activities []model.Activity, m Matrix) *Gate {
	byName := make(map[string]uint, len(activities))
	for _, a := range activities {
		byName[a.Name] = a.ID
	}
	return &Gate{byName: byName, matrix: m, resolved: true}
}

// DeniedGate returns a gate that denies every check
func DeniedGate() *Gate {
	return &Gate{}
}

// Check reports whether the caller holds the action on the named activity.
// Unknown activities, unknown actions and unresolved gates all deny.
func (g *Gate) Check(activityName string, action model.Action) bool {
	if g == nil || !g.resolved {
		return false
	}
	id, ok := g.byName[activityName]
	if !ok {
		return false
	}
	return g.matrix.Allows(id, action)
}

// Rights returns the rights block for the named activity (all-false when
// unknown or unresolved), for callers that render a whole grid at once
func (g *Gate) Rights(activityName string) model.Rights {
	if g == nil || !g.resolved {
		return model.Rights{}
	}
	id, ok := g.byName[activityName]
	if !ok {
		return model.Rights{}
	}
	return g.matrix.Rights(id)
}
