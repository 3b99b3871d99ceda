package handlers

import (
	"errors"
	"net/http"

	"farmmart/internal/common"
	"farmmart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers exposes signup and login. Everything beyond these two routes
// requires a bearer token.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		var validationErr *common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		case errors.Is(err, common.ErrEmailTaken):
			return common.SendConflict(c, "Email already registered")
		default:
			return common.SendServerError(c, "Failed to create account")
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user": user,
	})
}

// Me handles GET /me and returns the authenticated caller's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	user, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return common.SendNotFound(c, "User not found")
		}
		return common.SendServerError(c, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return common.SendClientError(c, "Missing credentials")
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			return common.SendNotFound(c, "User not found")
		case errors.Is(err, common.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
		default:
			return common.SendServerError(c, "Failed to log in")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
