package handlers

import (
	"net/http"
	"time"

	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

const defaultOrderPageSize = 20

type OrderHandlers struct {
	orderService *services.OrderService
	storeService *services.StoreService
}

func NewOrderHandlers(orderService *services.OrderService, storeService *services.StoreService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, storeService: storeService}
}

func (h *OrderHandlers) List(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	page, limit := common.ParsePagination(c, defaultOrderPageSize)
	filter := models.OrderSearchFilter{
		Page:  page,
		Limit: limit,
		Sort:  c.QueryParam("sort"),
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}
	if channel := c.QueryParam("channel"); channel != "" {
		filter.Channel = &channel
	}
	if from := c.QueryParam("start_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if to := c.QueryParam("end_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	orders, pagination, err := h.orderService.List(c.Request().Context(), storeID, filter)
	if err != nil {
		return err
	}
	return common.List(c, orders, pagination)
}

func (h *OrderHandlers) Get(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orderService.Get(c.Request().Context(), storeID, id)
	if err != nil {
		return err
	}
	return common.OK(c, order)
}

func (h *OrderHandlers) Create(c echo.Context) error {
	userID, storeID, err := identity(c)
	if err != nil {
		return err
	}
	var input services.OrderInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	store, err := h.storeService.GetMine(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	order, err := h.orderService.Create(c.Request().Context(), storeID, userID, store.Currency, input)
	if err != nil {
		return err
	}
	return common.Created(c, "Order created", order)
}

func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	order, err := h.orderService.UpdateStatus(c.Request().Context(), storeID, id, req.Status)
	if err != nil {
		return err
	}
	return common.OKMessage(c, "Order status updated", order)
}
