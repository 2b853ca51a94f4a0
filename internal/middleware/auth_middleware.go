package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-crm-api/internal/metrics"
	"go-crm-api/internal/model"
	"go-crm-api/internal/rbac"
	"go-crm-api/internal/repository"
	"go-crm-api/pkg/jwt"
	"go-crm-api/pkg/response"
)

// Locals keys set by RequireAuth
const (
	LocalGrantee      = "grantee"
	LocalSubjectID    = "subject_id"
	LocalSubjectEmail = "subject_email"
	LocalSubjectName  = "subject_name"
)

// RequireAuth validates the bearer token, checks the strict session against
// the database and stores the classified grantee in the request context. The
// classification recomputed from the database must agree with the token's
// claimed kind; a conflict (e.g. a department token for a user who has since
// been flagged special) is rejected rather than silently re-picked.
func RequireAuth(userRepo repository.UserRepository, adminRepo repository.AdminRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, fiber.StatusUnauthorized, "Missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		var grantee rbac.Grantee

		switch claims.SubjectKind {
		case jwt.SubjectAdmin:
			admin, err := adminRepo.FindByID(claims.SubjectID)
			if err != nil {
				return response.Error(c, fiber.StatusUnauthorized, "Account not found")
			}
			if !admin.IsActive {
				return response.Error(c, fiber.StatusUnauthorized, "Account is inactive")
			}
			if admin.TokenVersion != claims.TokenVersion {
				return response.Error(c, fiber.StatusUnauthorized, "Session expired (logged in on another device)")
			}
			grantee = rbac.AdminGrantee(admin.ID)

		case jwt.SubjectSpecialUser, jwt.SubjectDepartmentRole:
			user, err := userRepo.FindByID(claims.SubjectID)
			if err != nil {
				return response.Error(c, fiber.StatusUnauthorized, "Account not found")
			}
			if !user.IsActive {
				return response.Error(c, fiber.StatusUnauthorized, "Account is inactive")
			}
			if user.TokenVersion != claims.TokenVersion {
				return response.Error(c, fiber.StatusUnauthorized, "Session expired (logged in on another device)")
			}
			grantee, err = rbac.ClassifyUser(user)
			if err != nil {
				return response.Error(c, fiber.StatusForbidden, "Account has no role assignment")
			}
			if grantee.Kind().String() != claims.SubjectKind {
				return response.Error(c, fiber.StatusUnauthorized, "Token no longer matches account classification")
			}

		default:
			return response.Error(c, fiber.StatusUnauthorized, "Unknown subject kind")
		}

		c.Locals(LocalGrantee, grantee)
		c.Locals(LocalSubjectID, claims.SubjectID.String())
		c.Locals(LocalSubjectEmail, claims.Email)
		c.Locals(LocalSubjectName, claims.Name)

		return c.Next()
	}
}

// GranteeFromCtx returns the classified grantee set by RequireAuth
func GranteeFromCtx(c *fiber.Ctx) (rbac.Grantee, bool) {
	g, ok := c.Locals(LocalGrantee).(rbac.Grantee)
	return g, ok
}

// RequirePermission re-runs the resolver server-side and denies the request
// unless the caller holds the action on the activity. The UI-side check is a
// UX convenience only; this middleware is the trust boundary. Denial is
// default: a missing grantee or a failed resolution refuses the request.
func RequirePermission(resolver *rbac.Resolver, activityName string, action model.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grantee, ok := GranteeFromCtx(c)
		if !ok {
			metrics.PermissionChecks.WithLabelValues(activityName, string(action), metrics.Decision(false)).Inc()
			return response.Error(c, fiber.StatusForbidden, "No grantee in request context")
		}

		allowed := resolver.Gate(grantee).Check(activityName, action)
		metrics.PermissionChecks.WithLabelValues(activityName, string(action), metrics.Decision(allowed)).Inc()
		if !allowed {
			return response.Error(c, fiber.StatusForbidden,
				"Forbidden: requires '"+string(action)+"' on "+activityName)
		}
		return c.Next()
	}
}
