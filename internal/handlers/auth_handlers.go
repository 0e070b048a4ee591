package handlers

import (
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService *services.AuthService
}

func NewAuthHandlers(authService *services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var input services.RegisterInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	result, err := h.authService.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return common.Created(c, "Account created", result)
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var input services.LoginInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	result, err := h.authService.Login(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return common.OK(c, result)
}

func (h *AuthHandlers) Me(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	profile, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return common.OK(c, profile)
}

// Logout exists for API symmetry. Tokens are stateless, so the client just
// discards its copy.
func (h *AuthHandlers) Logout(c echo.Context) error {
	return common.OKMessage(c, "Logged out", nil)
}
