package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "agencysite/internal/errors"
)

// NewHTTPErrorHandler renders every error as an ErrorResponse and logs server failures with
// their underlying cause.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := render(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", cause,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

func render(err error) (int, apperrors.ErrorResponse, error) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg, cause
		case string:
			if he.Code >= http.StatusInternalServerError {
				msg = "internal server error"
			}
			return he.Code, apperrors.ErrorResponse{Error: msg, Code: statusCode(he.Code)}, cause
		default:
			return he.Code, apperrors.ErrorResponse{Error: strings.ToLower(http.StatusText(he.Code)), Code: statusCode(he.Code)}, cause
		}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse(), err
}

// statusCode turns an HTTP status into an error code such as NOT_FOUND.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
