package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsRange is an optional inclusive created_at window for the
// aggregation queries. A nil bound leaves that side open.
type AnalyticsRange struct {
	From *time.Time
	To   *time.Time
}

func (r AnalyticsRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// AnalyticsOverview is the dashboard summary for one store.
type AnalyticsOverview struct {
	TotalOrders    int                 `json:"total_orders"`
	TotalRevenue   float64             `json:"total_revenue"`
	AvgOrderValue  float64             `json:"avg_order_value"`
	TotalProducts  int                 `json:"total_products"`
	CatalogViews   int                 `json:"catalog_views"`
	TopProduct     *OverviewTopProduct `json:"top_product"`
	OrdersByStatus map[string]int      `json:"orders_by_status"`
	ChannelSplit   []ChannelBreakdown  `json:"channel_split"`
}

// OverviewTopProduct is the single best seller shown on the overview card.
// Nil when the store has no orders yet.
type OverviewTopProduct struct {
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
}

// ChannelBreakdown is one channel's share of all orders. Percentage is a
// rounded integer, so shares may not sum to exactly 100.
type ChannelBreakdown struct {
	Channel    string `json:"channel"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// TopProduct is one row of the best-sellers ranking.
type TopProduct struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalQuantity int       `json:"total_quantity"`
	TotalRevenue  float64   `json:"total_revenue"`
	AvgPrice      float64   `json:"avg_price"`
}

// DayBucket is one calendar day of order volume.
type DayBucket struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ChannelStat is one channel's order count, revenue and average order value.
type ChannelStat struct {
	Channel       string  `json:"channel"`
	Count         int     `json:"count"`
	Revenue       float64 `json:"revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// StatusCount pairs an order status with its order count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
