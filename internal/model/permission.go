package model

import (
	"time"

	"github.com/google/uuid"
)

// Action is one of the four rights a permission row can grant
type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Rights is the four-boolean block attached to every permission row.
// The zero value denies everything, which is what makes "no row = no
// access" hold by construction.
type Rights struct {
	CanView   bool `gorm:"default:false" json:"can_view"`
	CanAdd    bool `gorm:"default:false" json:"can_add"`
	CanEdit   bool `gorm:"default:false" json:"can_edit"`
	CanDelete bool `gorm:"default:false" json:"can_delete"`
}

// Allows reports whether the rights block grants the given action.
// Unknown actions are denied.
func (r Rights) Allows(a Action) bool {
	switch a {
	case ActionView:
		return r.CanView
	case ActionAdd:
		return r.CanAdd
	case ActionEdit:
		return r.CanEdit
	case ActionDelete:
		return r.CanDelete
	}
	return false
}

// Union ORs two rights blocks, used for department-wide review lookups
func (r Rights) Union(other Rights) Rights {
	return Rights{
		CanView:   r.CanView || other.CanView,
		CanAdd:    r.CanAdd || other.CanAdd,
		CanEdit:   r.CanEdit || other.CanEdit,
		CanDelete: r.CanDelete || other.CanDelete,
	}
}

// RightsFromTokens builds a rights block from permission tokens
// ("view", "add", "edit", "delete"). Unknown tokens are ignored.
func RightsFromTokens(tokens []string) Rights {
	var r Rights
	for _, t := range tokens {
		switch Action(t) {
		case ActionView:
			r.CanView = true
		case ActionAdd:
			r.CanAdd = true
		case ActionEdit:
			r.CanEdit = true
		case ActionDelete:
			r.CanDelete = true
		}
	}
	return r
}

// Tokens returns the granted actions as permission tokens
func (r Rights) Tokens() []string {
	tokens := []string{}
	if r.CanView {
		tokens = append(tokens, string(ActionView))
	}
	if r.CanAdd {
		tokens = append(tokens, string(ActionAdd))
	}
	if r.CanEdit {
		tokens = append(tokens, string(ActionEdit))
	}
	if r.CanDelete {
		tokens = append(tokens, string(ActionDelete))
	}
	return tokens
}

// RolePermission grants rights on an activity to a (department, subrole)
// pair. At most one row exists per (department, subrole, activity) tuple;
// assignment replaces the whole rights block.
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_permission_tuple" json:"department_id"`
	Subrole      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_role_permission_tuple" json:"subrole"`
	ActivityID   uint      `gorm:"not null;uniqueIndex:idx_role_permission_tuple" json:"activity_id"`
	Activity     *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Rights       `gorm:"embedded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminPermission grants rights on an activity to an individual admin account
type AdminPermission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_admin_permission_tuple" json:"admin_id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_admin_permission_tuple" json:"activity_id"`
	Activity   *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Rights     `gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SpecialUserPermission grants rights on an activity to a user flagged
// is_special, bypassing the department/subrole grants entirely
type SpecialUserPermission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_special_user_permission_tuple" json:"user_id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_special_user_permission_tuple" json:"activity_id"`
	Activity   *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Rights     `gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
