package handlers

import (
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

const defaultCatalogPageSize = 24

// PublicHandlers serves the unauthenticated storefront routes. Tenant
// resolution is by catalog slug.
type PublicHandlers struct {
	catalogService *services.CatalogService
}

func NewPublicHandlers(catalogService *services.CatalogService) *PublicHandlers {
	return &PublicHandlers{catalogService: catalogService}
}

func (h *PublicHandlers) GetStore(c echo.Context) error {
	profile, err := h.catalogService.GetStore(c.Request().Context(), c.Param("catalogId"))
	if err != nil {
		return err
	}
	return common.OK(c, profile)
}

func (h *PublicHandlers) ListProducts(c echo.Context) error {
	page, limit := common.ParsePagination(c, defaultCatalogPageSize)
	products, pagination, err := h.catalogService.ListProducts(c.Request().Context(),
		c.Param("catalogId"), c.QueryParam("q"), page, limit)
	if err != nil {
		return err
	}
	return common.List(c, products, pagination)
}

func (h *PublicHandlers) PlaceOrder(c echo.Context) error {
	var input services.OrderInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	order, err := h.catalogService.PlaceOrder(c.Request().Context(), c.Param("catalogId"), input)
	if err != nil {
		return err
	}

	contactLinks := map[string]string{}
	if order.WhatsappLink != nil {
		contactLinks["whatsapp"] = *order.WhatsappLink
	}
	if order.SMSLink != nil {
		contactLinks["sms"] = *order.SMSLink
	}
	return common.Created(c, "Order placed", map[string]interface{}{
		"order_number":  order.OrderNumber,
		"total":         order.Totals.Total,
		"currency":      order.Totals.Currency,
		"contact_links": contactLinks,
		"order":         order,
	})
}
