package repository

import (
	"go-crm-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRepository persists the three permission row kinds. Upserts are
// keyed by the (grantee, activity) tuple and replace the whole rights block;
// there is no delete — an all-false upsert is the effective revoke.
type PermissionRepository interface {
	// Department/subrole grants. An empty subrole matches all subroles.
	FindRolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error)
	FindRolePermissionByID(id uint) (*model.RolePermission, error)
	UpsertRolePermission(row *model.RolePermission) error

	// Individual admin grants
	FindAdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error)
	UpsertAdminPermission(row *model.AdminPermission) error

	// Special-user grants
	FindSpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error)
	UpsertSpecialUserPermission(row *model.SpecialUserPermission) error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

var rightsColumns = []string{"can_view", "can_add", "can_edit", "can_delete", "updated_at"}

func (r *permissionRepo) FindRolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error) {
	var rows []model.RolePermission
	q := r.db.Preload("Activity").Where("department_id = ?", departmentID)
	if subrole != "" {
		q = q.Where("subrole = ?", subrole)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *permissionRepo) FindRolePermissionByID(id uint) (*model.RolePermission, error) {
	var row model.RolePermission
	if err := r.db.Preload("Activity").First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *permissionRepo) UpsertRolePermission(row *model.RolePermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "department_id"}, {Name: "subrole"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns(rightsColumns),
	}).Create(row).Error
}

func (r *permissionRepo) FindAdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error) {
	var rows []model.AdminPermission
	err := r.db.Preload("Activity").Where("admin_id = ?", adminID).Find(&rows).Error
	return rows, err
}

func (r *permissionRepo) UpsertAdminPermission(row *model.AdminPermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns(rightsColumns),
	}).Create(row).Error
}

func (r *permissionRepo) FindSpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error) {
	var rows []model.SpecialUserPermission
	err := r.db.Preload("Activity").Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *permissionRepo) UpsertSpecialUserPermission(row *model.SpecialUserPermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns(rightsColumns),
	}).Create(row).Error
}
