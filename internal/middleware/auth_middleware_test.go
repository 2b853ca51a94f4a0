package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-crm-api/internal/model"
	"go-crm-api/internal/rbac"
	"go-crm-api/pkg/jwt"
)

type fakeActivityRepo struct {
	activities []model.Activity
}

func (f *fakeActivityRepo) FindActive() ([]model.Activity, error) { return f.activities, nil }
func (f *fakeActivityRepo) FindAll() ([]model.Activity, error)    { return f.activities, nil }
func (f *fakeActivityRepo) FindByID(id uint) (*model.Activity, error) {
	return nil, errors.New("record not found")
}
func (f *fakeActivityRepo) FindByName(name string) (*model.Activity, error) {
	return nil, errors.New("record not found")
}
func (f *fakeActivityRepo) SeedDefaults() error { return nil }

type fakePermissionRepo struct {
	rolePerms []model.RolePermission
}

func (f *fakePermissionRepo) FindRolePermissions(departmentID uuid.UUID, subrole string) ([]model.RolePermission, error) {
	var out []model.RolePermission
	for _, row := range f.rolePerms {
		if row.DepartmentID == departmentID && (subrole == "" || row.Subrole == subrole) {
			out = append(out, row)
		}
	}
	return out, nil
}
func (f *fakePermissionRepo) FindRolePermissionByID(id uint) (*model.RolePermission, error) {
	return nil, errors.New("record not found")
}
func (f *fakePermissionRepo) UpsertRolePermission(row *model.RolePermission) error { return nil }
func (f *fakePermissionRepo) FindAdminPermissions(adminID uuid.UUID) ([]model.AdminPermission, error) {
	return nil, nil
}
func (f *fakePermissionRepo) UpsertAdminPermission(row *model.AdminPermission) error { return nil }
func (f *fakePermissionRepo) FindSpecialUserPermissions(userID uuid.UUID) ([]model.SpecialUserPermission, error) {
	return nil, nil
}
func (f *fakePermissionRepo) UpsertSpecialUserPermission(row *model.SpecialUserPermission) error {
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}
func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}
func (f *fakeUserRepo) Create(user *model.User) error { return nil }
func (f *fakeUserRepo) Update(user *model.User) error { return nil }
func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByDepartment(departmentID uuid.UUID) ([]model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error { return nil }
func (f *fakeUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error    { return nil }
func (f *fakeUserRepo) UpdateLastSeen(userID uuid.UUID) error                        { return nil }
func (f *fakeUserRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error  { return nil }

type fakeAdminRepo struct {
	admins map[uuid.UUID]*model.Admin
}

func (f *fakeAdminRepo) FindByEmail(email string) (*model.Admin, error) {
	return nil, errors.New("record not found")
}
func (f *fakeAdminRepo) FindByID(id uuid.UUID) (*model.Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, errors.New("record not found")
}
func (f *fakeAdminRepo) Create(admin *model.Admin) error { return nil }
func (f *fakeAdminRepo) Update(admin *model.Admin) error { return nil }
func (f *fakeAdminRepo) FindAll() ([]model.Admin, error) {
	return nil, nil
}
func (f *fakeAdminRepo) UpdatePassword(adminID uuid.UUID, hashedPassword string) error { return nil }
func (f *fakeAdminRepo) UpdateTokenVersion(adminID uuid.UUID, version string) error    { return nil }
func (f *fakeAdminRepo) SetActive(id uuid.UUID, active bool, updatedBy string) error   { return nil }

func newResolver(deptID uuid.UUID) *rbac.Resolver {
	return rbac.NewResolver(
		&fakeActivityRepo{activities: []model.Activity{
			{ID: 7, Name: model.ActivityLeads, Status: model.ActivityActive},
		}},
		&fakePermissionRepo{rolePerms: []model.RolePermission{
			{ID: 1, DepartmentID: deptID, Subrole: "Rep", ActivityID: 7, Rights: model.Rights{CanView: true, CanAdd: true}},
		}},
	)
}

func TestRequirePermission(t *testing.T) {
	deptID := uuid.New()
	resolver := newResolver(deptID)

	newApp := func(grantee *rbac.Grantee, activity string, action model.Action) *fiber.App {
		app := fiber.New()
		app.Get("/probe", func(c *fiber.Ctx) error {
			if grantee != nil {
				c.Locals(LocalGrantee, *grantee)
			}
			return c.Next()
		}, RequirePermission(resolver, activity, action), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	rep := rbac.DepartmentRoleGrantee(deptID, "Rep")

	t.Run("granted action passes", func(t *testing.T) {
		app := newApp(&rep, model.ActivityLeads, model.ActionView)
		resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("ungranted action denied", func(t *testing.T) {
		app := newApp(&rep, model.ActivityLeads, model.ActionDelete)
		resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown activity denied", func(t *testing.T) {
		app := newApp(&rep, "Imaginary", model.ActionView)
		resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing grantee denied", func(t *testing.T) {
		app := newApp(nil, model.ActivityLeads, model.ActionView)
		resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestRequireAuth(t *testing.T) {
	deptID := uuid.New()
	userID := uuid.New()

	user := &model.User{
		BaseModel:    model.BaseModel{ID: userID},
		Email:        "rep@example.com",
		DepartmentID: &deptID,
		Subrole:      "Rep",
		IsActive:     true,
		TokenVersion: "v1",
	}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*model.User{userID: user}}
	adminRepo := &fakeAdminRepo{admins: map[uuid.UUID]*model.Admin{}}

	app := fiber.New()
	app.Get("/me", RequireAuth(userRepo, adminRepo), func(c *fiber.Ctx) error {
		g, ok := GranteeFromCtx(c)
		require.True(t, ok)
		assert.Equal(t, rbac.KindDepartmentRole, g.Kind())
		return c.SendStatus(fiber.StatusOK)
	})

	token := func(kind, version string) string {
		signed, err := jwt.GenerateToken(jwt.Claims{
			SubjectID:    userID,
			SubjectKind:  kind,
			Email:        user.Email,
			TokenVersion: version,
		})
		require.NoError(t, err)
		return signed
	}

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(jwt.SubjectDepartmentRole, "v1"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stale token version rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(jwt.SubjectDepartmentRole, "v0"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("kind mismatch with current classification rejected", func(t *testing.T) {
		// Token minted before the user was flagged special
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(jwt.SubjectSpecialUser, "v1"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
