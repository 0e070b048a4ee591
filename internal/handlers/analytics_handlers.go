package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/services"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandlers(analyticsService *services.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// Aggregation failures surface as a generic 500; the details go to the log
// only.
func aggregationError(name string, err error) error {
	log.Printf("analytics %s failed: %v", name, err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load analytics")
}

// analyticsRange reads the optional from/to query parameters. Both bounds
// are inclusive; "to" covers the whole named day.
func analyticsRange(c echo.Context) (models.AnalyticsRange, error) {
	var rng models.AnalyticsRange
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return rng, echo.NewHTTPError(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		rng.From = &t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return rng, echo.NewHTTPError(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		rng.To = &end
	}
	return rng, nil
}

// intQueryParam returns the parsed parameter or the fallback when it is
// absent or malformed.
func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func (h *AnalyticsHandlers) Overview(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	rng, err := analyticsRange(c)
	if err != nil {
		return err
	}
	overview, err := h.analyticsService.Overview(c.Request().Context(), storeID, rng)
	if err != nil {
		return aggregationError("overview", err)
	}
	return common.OK(c, overview)
}

func (h *AnalyticsHandlers) TopProducts(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	rng, err := analyticsRange(c)
	if err != nil {
		return err
	}
	limit := intQueryParam(c, "limit", services.DefaultTopProductsLimit)
	products, err := h.analyticsService.TopProducts(c.Request().Context(), storeID, rng, limit)
	if err != nil {
		return aggregationError("top products", err)
	}
	return common.OK(c, products)
}

func (h *AnalyticsHandlers) OrdersByDay(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	days := intQueryParam(c, "days", services.DefaultOrdersByDayDays)
	buckets, err := h.analyticsService.OrdersByDay(c.Request().Context(), storeID, days)
	if err != nil {
		return aggregationError("orders by day", err)
	}
	return common.OK(c, buckets)
}

func (h *AnalyticsHandlers) ChannelStats(c echo.Context) error {
	_, storeID, err := identity(c)
	if err != nil {
		return err
	}
	rng, err := analyticsRange(c)
	if err != nil {
		return err
	}
	stats, err := h.analyticsService.ChannelStats(c.Request().Context(), storeID, rng)
	if err != nil {
		return aggregationError("channel stats", err)
	}
	return common.OK(c, stats)
}
