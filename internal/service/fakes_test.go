package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"go-crm-api/internal/model"
)

var errNotFound = errors.New("record not found")

type fakeActivityRepo struct {
	activities []model.Activity
	err        error
}

func (f *fakeActivityRepo) FindActive() ([]model.Activity, error) { return f.activities, f.err }
func (f *fakeActivityRepo) FindAll() ([]model.Activity, error)    { return f.activities, f.err }
func (f *fakeActivityRepo) FindByID(id uint) (*model.Activity, error) {
	for i := range f.activities {
		if f.activities[i].ID == id {
			return &f.activities[i], nil
		}
	}
	return nil, errNotFound
}
func (f *fakeActivityRepo) FindByName(name string) (*model.Activity, error) {
	for i := range f.activities {
		if f.activities[i].Name == name {
			return &f.activities[i], nil
		}
	}
	return nil, errNotFound
}
func (f *fakeActivityRepo) SeedDefaults() error { return nil }

type fakePermissionRepo struct {
	rolePerms    []model.RolePermission
	adminPerms   []model.AdminPermission
	specialPerms []model.SpecialUserPermission
}

func (f *fakePermissionRepo) FindRolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error) {
	var out []model.RolePermission
	for _, row := range f.rolePerms {
		if row.DepartmentID != departmentID {
			continue
		}
		if subrole != "" && row.Subrole != subrole {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakePermissionRepo) FindRolePermissionByID(id uint) (*model.RolePermission, error) {
	for i := range f.rolePerms {
		if f.rolePerms[i].ID == id {
			row := f.rolePerms[i]
			return &row, nil
		}
	}
	return nil, errNotFound
}

func (f *fakePermissionRepo) UpsertRolePermission(row *model.RolePermission) error {
	for i := range f.rolePerms {
		existing := &f.rolePerms[i]
		if existing.DepartmentID == row.DepartmentID && existing.Subrole == row.Subrole && existing.ActivityID == row.ActivityID {
			existing.Rights = row.Rights
			return nil
		}
	}
	row.ID = uint(len(f.rolePerms) + 1)
	f.rolePerms = append(f.rolePerms, *row)
	return nil
}

func (f *fakePermissionRepo) FindAdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error) {
	var out []model.AdminPermission
	for _, row := range f.adminPerms {
		if row.AdminID == adminID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakePermissionRepo) UpsertAdminPermission(row *model.AdminPermission) error {
	for i := range f.adminPerms {
		existing := &f.adminPerms[i]
		if existing.AdminID == row.AdminID && existing.ActivityID == row.ActivityID {
			existing.Rights = row.Rights
			return nil
		}
	}
	row.ID = uint(len(f.adminPerms) + 1)
	f.adminPerms = append(f.adminPerms, *row)
	return nil
}

func (f *fakePermissionRepo) FindSpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error) {
	var out []model.SpecialUserPermission
	for _, row := range f.specialPerms {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakePermissionRepo) UpsertSpecialUserPermission(row *model.SpecialUserPermission) error {
	for i := range f.specialPerms {
		existing := &f.specialPerms[i]
		if existing.UserID == row.UserID && existing.ActivityID == row.ActivityID {
			existing.Rights = row.Rights
			return nil
		}
	}
	row.ID = uint(len(f.specialPerms) + 1)
	f.specialPerms = append(f.specialPerms, *row)
	return nil
}

type fakeDepartmentRepo struct {
	departments []model.Department
}

func (f *fakeDepartmentRepo) Create(dept *model.Department) error {
	dept.ID = uuid.New()
	f.departments = append(f.departments, *dept)
	return nil
}

func (f *fakeDepartmentRepo) Update(dept *model.Department) error {
	for i := range f.departments {
		if f.departments[i].ID == dept.ID {
			f.departments[i] = *dept
			return nil
		}
	}
	return errNotFound
}

func (f *fakeDepartmentRepo) FindByID(id uuid.UUID) (*model.Department, error) {
	for i := range f.departments {
		if f.departments[i].ID == id {
			dept := f.departments[i]
			return &dept, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeDepartmentRepo) FindByName(name string) (*model.Department, error) {
	for i := range f.departments {
		if f.departments[i].Name == name {
			dept := f.departments[i]
			return &dept, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeDepartmentRepo) FindAll(activeOnly bool) ([]model.Department, error) {
	var out []model.Department
	for _, dept := range f.departments {
		if activeOnly && !dept.IsActive {
			continue
		}
		out = append(out, dept)
	}
	return out, nil
}

func (f *fakeDepartmentRepo) FindSalesTeam() (*model.Department, error) {
	for i := range f.departments {
		if f.departments[i].IsSalesTeam {
			dept := f.departments[i]
			return &dept, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeDepartmentRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	for i := range f.departments {
		if f.departments[i].ID == id {
			f.departments[i].IsActive = active
			f.departments[i].UpdatedBy = updatedBy
			return nil
		}
	}
	return errNotFound
}

type fakeUserRepo struct {
	users []model.User
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return errNotFound
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) { return f.users, nil }

func (f *fakeUserRepo) FindByDepartment(departmentID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Password = hashedPassword
			return nil
		}
	}
	return errNotFound
}

func (f *fakeUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].TokenVersion = version
			return nil
		}
	}
	return errNotFound
}

func (f *fakeUserRepo) UpdateLastSeen(userID uuid.UUID) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			now := time.Now()
			f.users[i].LastSeenAt = &now
			return nil
		}
	}
	return errNotFound
}

func (f *fakeUserRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].IsActive = active
			f.users[i].UpdatedBy = updatedBy
			return nil
		}
	}
	return errNotFound
}

type fakeAdminRepo struct {
	admins []model.Admin
}

func (f *fakeAdminRepo) FindByEmail(email string) (*model.Admin, error) {
	for i := range f.admins {
		if f.admins[i].Email == email {
			admin := f.admins[i]
			return &admin, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeAdminRepo) FindByID(id uuid.UUID) (*model.Admin, error) {
	for i := range f.admins {
		if f.admins[i].ID == id {
			admin := f.admins[i]
			return &admin, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeAdminRepo) Create(admin *model.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	f.admins = append(f.admins, *admin)
	return nil
}

func (f *fakeAdminRepo) Update(admin *model.Admin) error {
	for i := range f.admins {
		if f.admins[i].ID == admin.ID {
			f.admins[i] = *admin
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAdminRepo) FindAll() ([]model.Admin, error) { return f.admins, nil }

func (f *fakeAdminRepo) UpdatePassword(adminID uuid.UUID, hashedPassword string) error {
	for i := range f.admins {
		if f.admins[i].ID == adminID {
			f.admins[i].Password = hashedPassword
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAdminRepo) UpdateTokenVersion(adminID uuid.UUID, version string) error {
	for i := range f.admins {
		if f.admins[i].ID == adminID {
			f.admins[i].TokenVersion = version
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAdminRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error {
	for i := range f.admins {
		if f.admins[i].ID == id {
			f.admins[i].IsActive = active
			f.admins[i].UpdatedBy = updatedBy
			return nil
		}
	}
	return errNotFound
}

// fakeMailer records sent messages so tests can assert on (or extract) them
type fakeMailer struct {
	otpTo    []string
	otpCodes []string
	assigned []string
	err      error
}

func (f *fakeMailer) SendOTP(to, code string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.otpTo = append(f.otpTo, to)
	f.otpCodes = append(f.otpCodes, code)
	return nil
}

func (f *fakeMailer) SendLeadAssigned(to string, lead *model.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.assigned = append(f.assigned, to)
	return nil
}

func testActivities() []model.Activity {
	return []model.Activity{
		{ID: 7, Name: model.ActivityLeads, Status: model.ActivityActive},
		{ID: 8, Name: model.ActivityUsers, Status: model.ActivityActive},
		{ID: 9, Name: model.ActivityPackages, Status: model.ActivityActive},
	}
}
