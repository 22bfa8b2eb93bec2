package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agencysite/internal/errors"
	"agencysite/internal/model"
)

// MessageResponse is a plain acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse carries a sanitized admin profile.
type UserResponse struct {
	Message string             `json:"message,omitempty"`
	User    model.AdminProfile `json:"user"`
}

// CreatedResponse acknowledges a stored submission.
type CreatedResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// fail converts a service error into an echo error carrying an ErrorResponse. The underlying
// error is kept as the internal cause for server-side logging.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequestBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	}).SetInternal(err)
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequestBody(err)
	}
	if err := c.Validate(req); err != nil {
		return fail(err)
	}
	return nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

func profiles(admins []model.AdminUser) []model.AdminProfile {
	out := make([]model.AdminProfile, 0, len(admins))
	for i := range admins {
		out = append(out, admins[i].Profile())
	}
	return out
}
