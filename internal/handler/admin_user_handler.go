package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agencysite/internal/auth"
	"agencysite/internal/service"
)

// AdminUserHandler manages admin accounts.
type AdminUserHandler struct {
	svc service.AdminUserService
}

// NewAdminUserHandler creates a new admin user handler.
func NewAdminUserHandler(svc service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{svc: svc}
}

// ListAdmins godoc
// @Summary List admin accounts
// @Tags admin-users
// @Security SessionCookie
// @Produce json
// @Success 200 {array} model.AdminProfile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminUserHandler) ListAdmins(c echo.Context) error {
	admins, err := h.svc.ListAdmins(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profiles(admins))
}

// GetAdmin godoc
// @Summary Get admin account
// @Tags admin-users
// @Security SessionCookie
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} model.AdminProfile
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminUserHandler) GetAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	admin, err := h.svc.GetAdmin(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, admin.Profile())
}

// UpdateAdmin godoc
// @Summary Update admin account
// @Description Admins cannot demote or deactivate themselves.
// @Tags admin-users
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param request body service.UpdateAdminInput true "Fields to change"
// @Success 200 {object} model.AdminProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminUserHandler) UpdateAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.UpdateAdminInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	actor, _ := auth.IdentityFrom(ctx)
	admin, err := h.svc.UpdateAdmin(ctx, actor.AdminID, id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, admin.Profile())
}

// DeleteAdmin godoc
// @Summary Delete admin account
// @Tags admin-users
// @Security SessionCookie
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminUserHandler) DeleteAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	actor, _ := auth.IdentityFrom(ctx)
	if err := h.svc.DeleteAdmin(ctx, actor.AdminID, id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "admin user deleted"})
}
