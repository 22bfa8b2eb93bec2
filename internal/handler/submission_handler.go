package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agencysite/internal/service"
)

// SubmissionHandler handles public lead form intake and submission analytics.
type SubmissionHandler struct {
	svc service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(svc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// SubmitContact godoc
// @Summary Submit contact form
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body service.ContactInput true "Contact form"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *SubmissionHandler) SubmitContact(c echo.Context) error {
	var req service.ContactInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub, err := h.svc.SubmitContact(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Thank you! We'll be in touch soon.", ID: sub.ID})
}

// SubmitDiscoveryCall godoc
// @Summary Book a discovery call
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body service.DiscoveryCallInput true "Discovery call form"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /discovery-calls [post]
func (h *SubmissionHandler) SubmitDiscoveryCall(c echo.Context) error {
	var req service.DiscoveryCallInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub, err := h.svc.SubmitDiscoveryCall(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Discovery call request received.", ID: sub.ID})
}

// SubmitTalkGrowth godoc
// @Summary Request a growth consultation
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body service.TalkGrowthInput true "Growth consultation form"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /talk-growth [post]
func (h *SubmissionHandler) SubmitTalkGrowth(c echo.Context) error {
	var req service.TalkGrowthInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub, err := h.svc.SubmitTalkGrowth(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Growth consultation request received.", ID: sub.ID})
}

// Stats godoc
// @Summary Submission analytics
// @Description Totals per form and the number received in the last 7 days.
// @Tags admin-analytics
// @Security SessionCookie
// @Produce json
// @Success 200 {object} model.SubmissionStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/analytics/submissions [get]
func (h *SubmissionHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, stats)
}
