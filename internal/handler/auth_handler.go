package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"

	"agencysite/internal/auth"
	"agencysite/internal/errors"
	"agencysite/internal/middleware"
	"agencysite/internal/service"
	"agencysite/internal/session"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *scs.SessionManager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *scs.SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// LoginRequest represents an admin login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest represents a password reset request.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest redeems a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// Login godoc
// @Summary Admin login
// @Description Authenticates an admin and starts a session cookie.
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	admin, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	// New token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		return fail(err)
	}
	h.sessions.Put(ctx, session.KeyAdminID, admin.ID.String())

	return c.JSON(http.StatusOK, UserResponse{
		Message: "login successful",
		User:    admin.Profile(),
	})
}

// Logout godoc
// @Summary Admin logout
// @Description Destroys the current session. Succeeds without a session too.
// @Tags admin-auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c.Request().Context()); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current admin
// @Tags admin-auth
// @Security SessionCookie
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		return fail(errors.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, UserResponse{User: admin.Profile()})
}

// CreateAdmin godoc
// @Summary Create admin account
// @Description Open while bootstrap is enabled and no admin exists; afterwards requires the admin role.
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body service.CreateAdminInput true "Admin account"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/create [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req service.CreateAdminInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.authService.CreateAdmin(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, UserResponse{
		Message: "admin user created",
		User:    admin.Profile(),
	})
}

// RequestPasswordReset godoc
// @Summary Request password reset
// @Description Always returns the same acknowledgment, whether or not the email is registered.
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /admin/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: service.ResetRequestedMessage})
}

// ConfirmPasswordReset godoc
// @Summary Confirm password reset
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body PasswordResetConfirmRequest true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /admin/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req PasswordResetConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset"})
}

// ChangePassword godoc
// @Summary Change own password
// @Tags admin-auth
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	identity, _ := auth.IdentityFrom(ctx)
	if err := h.authService.ChangePassword(ctx, identity.AdminID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags admin-auth
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req service.UpdateProfileInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	identity, _ := auth.IdentityFrom(ctx)
	admin, err := h.authService.UpdateProfile(ctx, identity.AdminID, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "profile updated", User: admin.Profile()})
}
