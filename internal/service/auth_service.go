package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-crm-api/internal/mailer"
	"go-crm-api/internal/metrics"
	"go-crm-api/internal/otp"
	"go-crm-api/internal/rbac"
	"go-crm-api/internal/repository"
	"go-crm-api/internal/ws"
	"go-crm-api/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

type AuthService interface {
	LoginUser(email, password string) (*LoginResponse, error)
	LoginAdmin(email, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*SessionResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPasswordWithOTP(ctx context.Context, email, code, newPassword string) error
	Heartbeat(userID uuid.UUID) error
}

// LoginResponse carries the token plus everything a shell needs to render:
// the subject, its classification and its resolved permission grid keyed by
// activity name.
type LoginResponse struct {
	Token       string              `json:"token"`
	SubjectKind string              `json:"subject_kind"`
	User        interface{}         `json:"user"`
	Permissions map[string][]string `json:"permissions"`
}

// SessionResponse mirrors LoginResponse without issuing a new token
type SessionResponse struct {
	SubjectKind string              `json:"subject_kind"`
	User        interface{}         `json:"user"`
	Permissions map[string][]string `json:"permissions"`
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	resolver  *rbac.Resolver
	perms     PermissionService
	otpStore  *otp.Store
	mail      mailer.Mailer
	hub       *ws.Hub
	log       *logrus.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	resolver *rbac.Resolver,
	perms PermissionService,
	otpStore *otp.Store,
	mail mailer.Mailer,
	hub *ws.Hub,
	log *logrus.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		resolver:  resolver,
		perms:     perms,
		otpStore:  otpStore,
		mail:      mail,
		hub:       hub,
		log:       log,
	}
}

func (s *authService) LoginUser(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	grantee, err := rbac.ClassifyUser(user)
	if err != nil {
		// A user with no department and no special flag can log in but
		// holds no rights anywhere
		grantee = rbac.Grantee{}
	}

	// Single session: rotate the token version
	newVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newVersion
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	claims := jwt.Claims{
		SubjectID:    user.ID,
		SubjectKind:  jwt.SubjectDepartmentRole,
		Email:        user.Email,
		Name:         user.FullName,
		Subrole:      user.Subrole,
		TokenVersion: newVersion,
	}
	if user.IsSpecial {
		claims.SubjectKind = jwt.SubjectSpecialUser
	}
	if user.DepartmentID != nil {
		claims.DepartmentID = user.DepartmentID.String()
	}

	token, err := jwt.GenerateToken(claims)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		SubjectKind: claims.SubjectKind,
		User:        user.ToResponse(),
		Permissions: s.perms.ResolveNamed(grantee),
	}, nil
}

func (s *authService) LoginAdmin(email, password string) (*LoginResponse, error) {
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}
	if !admin.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	newVersion := uuid.New().String()
	if err := s.adminRepo.UpdateTokenVersion(admin.ID, newVersion); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(jwt.Claims{
		SubjectID:    admin.ID,
		SubjectKind:  jwt.SubjectAdmin,
		Email:        admin.Email,
		Name:         admin.FullName,
		TokenVersion: newVersion,
	})
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		SubjectKind: jwt.SubjectAdmin,
		User:        admin.ToResponse(),
		Permissions: s.perms.ResolveNamed(rbac.AdminGrantee(admin.ID)),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*SessionResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	switch claims.SubjectKind {
	case jwt.SubjectAdmin:
		admin, err := s.adminRepo.FindByID(claims.SubjectID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		if !admin.IsActive {
			return nil, ErrAccountInactive
		}
		if admin.TokenVersion != claims.TokenVersion {
			return nil, errors.New("session expired (logged in on another device)")
		}
		return &SessionResponse{
			SubjectKind: jwt.SubjectAdmin,
			User:        admin.ToResponse(),
			Permissions: s.perms.ResolveNamed(rbac.AdminGrantee(admin.ID)),
		}, nil

	default:
		user, err := s.userRepo.FindByID(claims.SubjectID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
		if user.TokenVersion != claims.TokenVersion {
			return nil, errors.New("session expired (logged in on another device)")
		}
		grantee, err := rbac.ClassifyUser(user)
		if err != nil {
			grantee = rbac.Grantee{}
		}
		return &SessionResponse{
			SubjectKind: grantee.Kind().String(),
			User:        user.ToResponse(),
			Permissions: s.perms.ResolveNamed(grantee),
		}, nil
	}
}

// ForgotPassword issues a fresh OTP and mails it. Issuing replaces any
// outstanding code, so only the newest one verifies. Unknown addresses are
// not distinguishable from the caller's side.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if !s.accountExists(email) {
		s.log.WithField("email", email).Info("password reset requested for unknown address")
		return nil
	}

	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return err
	}
	metrics.OTPIssued.Inc()

	if err := s.mail.SendOTP(email, code, s.otpStore.TTL()); err != nil {
		s.log.WithError(err).WithField("email", email).Error("failed to send OTP mail")
		return errors.New("failed to send reset code")
	}
	return nil
}

func (s *authService) ResetPasswordWithOTP(ctx context.Context, email, code, newPassword string) error {
	if err := s.otpStore.Verify(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return ErrInvalidOTP
		}
		return err
	}

	if user, err := s.userRepo.FindByEmail(email); err == nil {
		if err := user.SetPassword(newPassword); err != nil {
			return errors.New("failed to hash new password")
		}
		if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
			return err
		}
		// Kill any live session
		return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
	}

	if admin, err := s.adminRepo.FindByEmail(email); err == nil {
		if err := admin.SetPassword(newPassword); err != nil {
			return errors.New("failed to hash new password")
		}
		if err := s.adminRepo.UpdatePassword(admin.ID, admin.Password); err != nil {
			return err
		}
		return s.adminRepo.UpdateTokenVersion(admin.ID, uuid.New().String())
	}

	return ErrUserNotFound
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}
	s.hub.BroadcastEvent(ws.EventUserPresence, map[string]interface{}{
		"user_id": userID.String(),
		"status":  "online",
	})
	return nil
}

func (s *authService) accountExists(email string) bool {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return true
	}
	if _, err := s.adminRepo.FindByEmail(email); err == nil {
		return true
	}
	return false
}
