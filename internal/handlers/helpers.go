package handlers

import (
	"net/http"
	"strings"

	"tivastore/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// identity pulls the authenticated user and store IDs out of the request
// context. Routes behind RequireStore always resolve both.
func identity(c echo.Context) (userID, storeID uuid.UUID, err error) {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	storeID, ok = common.GetStoreIDFromContext(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "No store associated with this account")
	}
	return userID, storeID, nil
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id format")
	}
	return id, nil
}
