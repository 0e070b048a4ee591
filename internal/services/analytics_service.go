package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"tivastore/internal/caching"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
)

const (
	analyticsCacheTTL = 5 * time.Minute

	// DefaultTopProductsLimit bounds the best-sellers ranking when the
	// caller does not ask for a specific size.
	DefaultTopProductsLimit = 10
	// DefaultOrdersByDayDays is the trailing window for the daily series.
	DefaultOrdersByDayDays = 30
)

// AnalyticsService computes the dashboard aggregations. The unfiltered
// default views are cached per store and section; writes to products and
// orders invalidate the whole store's analytics namespace. Date-filtered
// queries always hit the database.
type AnalyticsService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	stores   repositories.StoreRepository
	cache    *caching.CacheService
}

func NewAnalyticsService(orders repositories.OrderRepository, products repositories.ProductRepository, stores repositories.StoreRepository, cache *caching.CacheService) *AnalyticsService {
	return &AnalyticsService{orders: orders, products: products, stores: stores, cache: cache}
}

func (s *AnalyticsService) cached(ctx context.Context, storeID uuid.UUID, section string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, caching.AnalyticsKey(storeID, section), dest)
	if err != nil {
		log.Printf("analytics cache read failed: %v", err)
		return false
	}
	return hit
}

func (s *AnalyticsService) remember(ctx context.Context, storeID uuid.UUID, section string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, caching.AnalyticsKey(storeID, section), value, analyticsCacheTTL); err != nil {
		log.Printf("analytics cache write failed: %v", err)
	}
}

// Overview aggregates totals, the best seller, status counts and the channel
// split over an optional date range. With zero orders every rate is zero
// rather than NaN and the top product is nil.
func (s *AnalyticsService) Overview(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) (*models.AnalyticsOverview, error) {
	if rng.IsZero() {
		var cached models.AnalyticsOverview
		if s.cached(ctx, storeID, "overview", &cached) {
			return &cached, nil
		}
	}

	revenue, orderCount, err := s.orders.RevenueAndCount(ctx, storeID, rng)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}
	statusCounts, err := s.orders.StatusCounts(ctx, storeID, rng)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts: %w", err)
	}
	channelStats, err := s.orders.ChannelStats(ctx, storeID, rng)
	if err != nil {
		return nil, fmt.Errorf("aggregate channel stats: %w", err)
	}
	best, err := s.orders.TopProducts(ctx, storeID, rng, 1)
	if err != nil {
		return nil, fmt.Errorf("aggregate top product: %w", err)
	}
	productCount, err := s.products.CountActiveByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	views := 0
	if store, err := s.stores.GetByID(ctx, storeID); err == nil {
		views = store.TotalViews
	}

	overview := &models.AnalyticsOverview{
		TotalOrders:    orderCount,
		TotalRevenue:   revenue,
		TotalProducts:  productCount,
		CatalogViews:   views,
		OrdersByStatus: map[string]int{},
		ChannelSplit:   ChannelSplit(channelStats, orderCount),
	}
	if orderCount > 0 {
		overview.AvgOrderValue = revenue / float64(orderCount)
	}
	if len(best) > 0 {
		overview.TopProduct = &models.OverviewTopProduct{
			Name:    best[0].ProductName,
			Qty:     best[0].TotalQuantity,
			Revenue: best[0].TotalRevenue,
		}
	}
	for _, sc := range statusCounts {
		overview.OrdersByStatus[sc.Status] = sc.Count
	}

	if rng.IsZero() {
		s.remember(ctx, storeID, "overview", overview)
	}
	return overview, nil
}

// ChannelSplit converts channel counts into rounded integer percentages.
// The shares may not sum to exactly 100.
func ChannelSplit(stats []models.ChannelStat, totalOrders int) []models.ChannelBreakdown {
	split := make([]models.ChannelBreakdown, 0, len(stats))
	for _, cs := range stats {
		pct := 0
		if totalOrders > 0 {
			pct = int(math.Round(float64(cs.Count) / float64(totalOrders) * 100))
		}
		split = append(split, models.ChannelBreakdown{
			Channel:    cs.Channel,
			Count:      cs.Count,
			Percentage: pct,
		})
	}
	return split
}

// TopProducts ranks the best sellers by quantity over an optional date
// range. A non-positive limit falls back to the default.
func (s *AnalyticsService) TopProducts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange, limit int) ([]models.TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	cacheable := rng.IsZero() && limit == DefaultTopProductsLimit
	if cacheable {
		var cached []models.TopProduct
		if s.cached(ctx, storeID, "top-products", &cached) {
			return cached, nil
		}
	}

	products, err := s.orders.TopProducts(ctx, storeID, rng, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate top products: %w", err)
	}
	if products == nil {
		products = []models.TopProduct{}
	}

	if cacheable {
		s.remember(ctx, storeID, "top-products", products)
	}
	return products, nil
}

// OrdersByDay returns daily order volume over the trailing window, ascending
// by date. Days without orders are absent.
func (s *AnalyticsService) OrdersByDay(ctx context.Context, storeID uuid.UUID, days int) ([]models.DayBucket, error) {
	if days <= 0 {
		days = DefaultOrdersByDayDays
	}
	cacheable := days == DefaultOrdersByDayDays
	if cacheable {
		var cached []models.DayBucket
		if s.cached(ctx, storeID, "orders-by-day", &cached) {
			return cached, nil
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	buckets, err := s.orders.OrdersByDay(ctx, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders by day: %w", err)
	}
	if buckets == nil {
		buckets = []models.DayBucket{}
	}

	if cacheable {
		s.remember(ctx, storeID, "orders-by-day", buckets)
	}
	return buckets, nil
}

// ChannelStats returns per-channel order counts, revenue and average order
// value over an optional date range, busiest first.
func (s *AnalyticsService) ChannelStats(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.ChannelStat, error) {
	if rng.IsZero() {
		var cached []models.ChannelStat
		if s.cached(ctx, storeID, "channel-stats", &cached) {
			return cached, nil
		}
	}

	stats, err := s.orders.ChannelStats(ctx, storeID, rng)
	if err != nil {
		return nil, fmt.Errorf("aggregate channel stats: %w", err)
	}
	if stats == nil {
		stats = []models.ChannelStat{}
	}

	if rng.IsZero() {
		s.remember(ctx, storeID, "channel-stats", stats)
	}
	return stats, nil
}
