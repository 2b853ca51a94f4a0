// Package rbac implements permission resolution and enforcement: a closed
// grantee classification, a resolver producing a total rights matrix over
// the activity registry, and a default-deny gate over that matrix.
package rbac

import (
	"errors"

	"github.com/google/uuid"

	"go-crm-api/internal/model"
)

var (
	// ErrAmbiguousGrantee is returned when a caller asserts conflicting
	// classifications (e.g. admin and special-user at once).
	ErrAmbiguousGrantee = errors.New("ambiguous grantee: conflicting classifications")
	// ErrUnclassifiable is returned when no classification applies, such as
	// a non-special user without a department.
	ErrUnclassifiable = errors.New("grantee cannot be classified")
)

// Kind tags the grantee union. Exactly one kind applies per caller.
type Kind uint8

const (
	KindAdmin Kind = iota + 1
	KindSpecialUser
	KindDepartmentRole
)

func (k Kind) String() string {
	switch k {
	case KindAdmin:
		return "admin"
	case KindSpecialUser:
		return "special_user"
	case KindDepartmentRole:
		return "department_role"
	}
	return "unknown"
}

// Grantee is the entity a permission lookup is keyed by. It is constructed
// once at the authentication boundary and passed down; fields are unexported
// so invalid combinations cannot be built outside the constructors.
type Grantee struct {
	kind         Kind
	subjectID    uuid.UUID // admin or user ID, depending on kind
	departmentID uuid.UUID
	subrole      string
}

// AdminGrantee classifies an individual admin account
func AdminGrantee(adminID uuid.UUID) Grantee {
	return Grantee{kind: KindAdmin, subjectID: adminID}
}

// SpecialUserGrantee classifies a user flagged is_special
func SpecialUserGrantee(userID uuid.UUID) Grantee {
	return Grantee{kind: KindSpecialUser, subjectID: userID}
}

// DepartmentRoleGrantee classifies a regular user by department and subrole
func DepartmentRoleGrantee(departmentID uuid.UUID, subrole string) Grantee {
	return Grantee{kind: KindDepartmentRole, departmentID: departmentID, subrole: subrole}
}

// ClassifyUser derives the grantee for an authenticated user. Special users
// are classified individually and never fall back to their nominal
// department/subrole, even when one is set.
func ClassifyUser(u *model.User) (Grantee, error) {
	if u == nil {
		return Grantee{}, ErrUnclassifiable
	}
	if u.IsSpecial {
		return SpecialUserGrantee(u.ID), nil
	}
	if u.DepartmentID == nil || u.Subrole == "" {
		return Grantee{}, ErrUnclassifiable
	}
	return DepartmentRoleGrantee(*u.DepartmentID, u.Subrole), nil
}

func (g Grantee) Kind() Kind { return g.kind }

// AdminID returns the admin account ID; valid only for KindAdmin
func (g Grantee) AdminID() uuid.UUID { return g.subjectID }

// UserID returns the user ID; valid only for KindSpecialUser
func (g Grantee) UserID() uuid.UUID { return g.subjectID }

func (g Grantee) DepartmentID() uuid.UUID { return g.departmentID }

func (g Grantee) Subrole() string { return g.subrole }
