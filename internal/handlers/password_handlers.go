package handlers

import (
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

type PasswordHandlers struct {
	passwordService *services.PasswordService
}

func NewPasswordHandlers(passwordService *services.PasswordService) *PasswordHandlers {
	return &PasswordHandlers{passwordService: passwordService}
}

func (h *PasswordHandlers) Forgot(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	message, err := h.passwordService.Forgot(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return common.OKMessage(c, message, nil)
}

func (h *PasswordHandlers) Verify(c echo.Context) error {
	if err := h.passwordService.Verify(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return common.OKMessage(c, "Token is valid", nil)
}

func (h *PasswordHandlers) Reset(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.passwordService.Reset(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return common.OKMessage(c, "Password has been reset", nil)
}

func (h *PasswordHandlers) Change(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.passwordService.Change(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return common.OKMessage(c, "Password updated", nil)
}
