package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agencysite/internal/service"
)

// FormConfigHandler handles form configuration endpoints.
type FormConfigHandler struct {
	svc service.FormConfigService
}

// NewFormConfigHandler creates a new form config handler.
func NewFormConfigHandler(svc service.FormConfigService) *FormConfigHandler {
	return &FormConfigHandler{svc: svc}
}

// ListForms godoc
// @Summary List form configurations
// @Tags admin-forms
// @Security SessionCookie
// @Produce json
// @Success 200 {array} model.FormConfig
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/forms [get]
func (h *FormConfigHandler) ListForms(c echo.Context) error {
	forms, err := h.svc.ListForms(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, forms)
}

// GetForm godoc
// @Summary Get form configuration
// @Tags admin-forms
// @Security SessionCookie
// @Produce json
// @Param id path string true "Form config ID"
// @Success 200 {object} model.FormConfig
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/forms/{id} [get]
func (h *FormConfigHandler) GetForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	form, err := h.svc.GetForm(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, form)
}

// CreateForm godoc
// @Summary Create form configuration
// @Tags admin-forms
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param request body service.FormConfigInput true "Form configuration"
// @Success 201 {object} model.FormConfig
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/forms [post]
func (h *FormConfigHandler) CreateForm(c echo.Context) error {
	var req service.FormConfigInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	form, err := h.svc.CreateForm(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, form)
}

// UpdateForm godoc
// @Summary Update form configuration
// @Tags admin-forms
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path string true "Form config ID"
// @Param request body service.FormConfigPatch true "Fields to change"
// @Success 200 {object} model.FormConfig
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/forms/{id} [put]
func (h *FormConfigHandler) UpdateForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.FormConfigPatch
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	form, err := h.svc.UpdateForm(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, form)
}

// DeleteForm godoc
// @Summary Delete form configuration
// @Tags admin-forms
// @Security SessionCookie
// @Produce json
// @Param id path string true "Form config ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/forms/{id} [delete]
func (h *FormConfigHandler) DeleteForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteForm(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "form configuration deleted"})
}
