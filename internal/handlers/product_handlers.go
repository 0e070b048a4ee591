package handlers

import (
	"net/http"

	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

const defaultProductPageSize = 20

type ProductHandlers struct {
	productService *services.ProductService
}

func NewProductHandlers(productService *services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

func (h *ProductHandlers) List(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	page, limit := common.ParsePagination(c, defaultProductPageSize)
	filter := models.ProductSearchFilter{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
		Sort:   c.QueryParam("sort"),
	}
	products, pagination, err := h.productService.List(c.Request().Context(), storeID, filter)
	if err != nil {
		return err
	}
	return common.List(c, products, pagination)
}

func (h *ProductHandlers) Get(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), storeID, id)
	if err != nil {
		return err
	}
	return common.OK(c, product)
}

func (h *ProductHandlers) Create(c echo.Context) error {
	userID, storeID, err := identity(c)
	if err != nil {
		return err
	}
	var input services.ProductInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	product, err := h.productService.Create(c.Request().Context(), storeID, userID, input)
	if err != nil {
		return err
	}
	return common.Created(c, "Product created", product)
}

func (h *ProductHandlers) Update(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var input services.ProductInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	product, err := h.productService.Update(c.Request().Context(), storeID, id, input)
	if err != nil {
		return err
	}
	return common.OKMessage(c, "Product updated", product)
}

func (h *ProductHandlers) Archive(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Archive(c.Request().Context(), storeID, id)
	if err != nil {
		return err
	}
	return common.OKMessage(c, "Product archived", product)
}

func (h *ProductHandlers) Delete(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), storeID, id); err != nil {
		return err
	}
	return common.OKMessage(c, "Product deleted", nil)
}
