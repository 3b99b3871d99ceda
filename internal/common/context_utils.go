package common

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// GetUserIDFromContext extracts the authenticated user id placed into the
// request context by the JWT middleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// ErrorResponse is the standardized error body returned by all handlers.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

func newErrorResponse(code, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

func SendValidationError(c echo.Context, field, message string) error {
	return c.JSON(http.StatusBadRequest, newErrorResponse("validation_error", "Request validation failed", map[string]string{field: message}))
}

func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, newErrorResponse("bad_request", message, nil))
}

func SendNotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, newErrorResponse("not_found", message, nil))
}

func SendConflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, newErrorResponse("conflict", message, nil))
}

func SendForbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, newErrorResponse("forbidden", message, nil))
}

func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, newErrorResponse("internal_error", message, nil))
}
