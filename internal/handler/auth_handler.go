package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-crm-api/internal/middleware"
	"go-crm-api/internal/service"
	"go-crm-api/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// Login authenticates a user account
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return response.ValidationError(c, []response.FieldError{
			{Field: "email", Message: "email and password are required"},
		})
	}

	resp, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	return response.OK(c, "Login successful", resp)
}

// AdminLogin authenticates an admin account
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return response.ValidationError(c, []response.FieldError{
			{Field: "email", Message: "email and password are required"},
		})
	}

	resp, err := h.authService.LoginAdmin(req.Email, req.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	return response.OK(c, "Login successful", resp)
}

// ForgotPassword issues a password reset OTP. The response does not reveal
// whether the address exists.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.Email == "" {
		return response.ValidationError(c, []response.FieldError{
			{Field: "email", Message: "email is required"},
		})
	}

	if err := h.authService.ForgotPassword(c.Context(), req.Email); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue reset code")
	}
	return response.OK(c, "If the address exists, a reset code has been sent", fiber.Map{
		"expires_in": 120,
	})
}

// VerifyOTP redeems a reset code and sets the new password
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return response.ValidationError(c, []response.FieldError{
			{Field: "code", Message: "email, code and new_password are required"},
		})
	}
	if len(req.NewPassword) < 6 {
		return response.ValidationError(c, []response.FieldError{
			{Field: "new_password", Message: "must be at least 6 characters"},
		})
	}

	if err := h.authService.ResetPasswordWithOTP(c.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return response.Error(c, fiber.StatusBadRequest, err.Error())
	}
	return response.OK(c, "Password updated successfully", nil)
}

// ValidateToken re-checks a stored session token
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if req.Token == "" {
		return response.ValidationError(c, []response.FieldError{
			{Field: "token", Message: "token is required"},
		})
	}

	resp, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	return response.OK(c, "Token is valid", resp)
}

// Heartbeat records user presence
// POST /api/v1/auth/heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	subjectID, ok := c.Locals(middleware.LocalSubjectID).(string)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(subjectID)
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid subject ID")
	}

	if err := h.authService.Heartbeat(id); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update heartbeat")
	}
	return response.OK(c, "Heartbeat received", fiber.Map{"status": "online"})
}
