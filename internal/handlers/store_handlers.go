package handlers

import (
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

type StoreHandlers struct {
	storeService *services.StoreService
}

func NewStoreHandlers(storeService *services.StoreService) *StoreHandlers {
	return &StoreHandlers{storeService: storeService}
}

func (h *StoreHandlers) GetMine(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	store, err := h.storeService.GetMine(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return common.OK(c, store)
}

func (h *StoreHandlers) UpdateMine(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	var input services.StoreUpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	store, err := h.storeService.UpdateMine(c.Request().Context(), storeID, input)
	if err != nil {
		return err
	}
	return common.OKMessage(c, "Store updated", store)
}

// CatalogURL refreshes and returns the store's public storefront link.
func (h *StoreHandlers) CatalogURL(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	store, err := h.storeService.EnsureCatalogURL(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return common.OK(c, map[string]string{
		"catalog_id":  store.CatalogID,
		"catalog_url": store.CatalogURL,
	})
}
