package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response shape of every endpoint:
// success flag, human-readable message, payload and error detail.
// Error detail is a field→message map for validation and conflict
// failures, a string otherwise.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   any    `json:"error"`
}

// OK writes a success envelope with the given status.
func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope. details carries field-level messages
// when the failure is tied to specific inputs.
func Fail(c echo.Context, status int, message string, details any) error {
	if details == nil {
		details = message
	}
	return c.JSON(status, Envelope{Success: false, Message: message, Error: details})
}

// NewHTTPErrorHandler returns the single global normalizer for errors that
// escape handlers. Expected echo errors keep their status; anything else
// becomes a 500. In production the 500 detail is suppressed from the
// client and only logged server-side.
func NewHTTPErrorHandler(log *slog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := "An unexpected error occurred"
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
			if production {
				message = "Internal Server Error"
			}
		}
		_ = Fail(c, status, message, nil)
	}
}
