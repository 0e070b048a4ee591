package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"tivastore/internal/caching"
	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CartLine is one requested product in an incoming order.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderInput struct {
	Customer models.OrderCustomer `json:"customer"`
	Items    []CartLine           `json:"items"`
	Channel  string               `json:"channel"`
	Shipping float64              `json:"shipping"`
	Tax      float64              `json:"tax"`
	Notes    *string              `json:"notes"`
}

type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	cache    *caching.CacheService
}

func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, cache *caching.CacheService) *OrderService {
	return &OrderService{orders: orders, products: products, cache: cache}
}

// nextOrderNumber derives the number from the store's current order count.
// Two concurrent creations can read the same count and collide; the unique
// index on (store_id, order_number) turns the loser into an insert error.
func (s *OrderService) nextOrderNumber(ctx context.Context, storeID uuid.UUID) (string, error) {
	count, err := s.orders.CountByStore(ctx, storeID)
	if err != nil {
		return "", fmt.Errorf("count orders: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", count+1), nil
}

// assembleCart re-fetches every product, validates availability and builds
// the item snapshots from the current database prices. Client-supplied
// prices are never used.
func (s *OrderService) assembleCart(ctx context.Context, storeID uuid.UUID, lines []CartLine) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := 0.0
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, echo.NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
		}
		product, err := s.products.GetActiveByID(ctx, storeID, line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, 0, echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("Product not found: %s", line.ProductID))
			}
			return nil, 0, err
		}
		if product.Stock < line.Quantity {
			return nil, 0, echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Insufficient stock for %s", product.Name))
		}
		lineTotal := product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
		subtotal += lineTotal
	}
	return items, subtotal, nil
}

// createOrder persists the assembled order. Stock is validated during cart
// assembly but never reserved or reduced. Shared by the merchant and
// storefront flows, which differ only in status, channel and contact links.
func (s *OrderService) createOrder(ctx context.Context, storeID uuid.UUID, input OrderInput, status string, createdBy *uuid.UUID, currency string) (*models.Order, error) {
	if input.Customer.Name == "" || input.Customer.Phone == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Customer name and phone are required")
	}
	if len(input.Items) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Order must contain at least one item")
	}

	items, subtotal, err := s.assembleCart(ctx, storeID, input.Items)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.nextOrderNumber(ctx, storeID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		StoreID:     storeID,
		OrderNumber: orderNumber,
		Customer:    input.Customer,
		Items:       items,
		Totals: models.OrderTotals{
			Subtotal: subtotal,
			Shipping: input.Shipping,
			Tax:      input.Tax,
			Total:    subtotal + input.Shipping + input.Tax,
			Currency: currency,
		},
		Status:    status,
		Channel:   input.Channel,
		Notes:     input.Notes,
		CreatedBy: createdBy,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.invalidateAnalytics(ctx, storeID)
	return order, nil
}

// Create records a merchant-entered order.
func (s *OrderService) Create(ctx context.Context, storeID, userID uuid.UUID, currency string, input OrderInput) (*models.Order, error) {
	if input.Channel == "" {
		input.Channel = models.ChannelPhone
	}
	if !models.ValidChannel(input.Channel) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid channel")
	}
	return s.createOrder(ctx, storeID, input, models.OrderStatusCreated, &userID, currency)
}

func (s *OrderService) Get(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, storeID uuid.UUID, filter models.OrderSearchFilter) ([]*models.Order, common.Pagination, error) {
	orders, total, err := s.orders.List(ctx, storeID, filter)
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, common.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateStatus sets the order status. Any enumerated status may follow any
// other; there is no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid order status")
	}
	if err := s.orders.UpdateStatus(ctx, storeID, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.invalidateAnalytics(ctx, storeID)
	return s.Get(ctx, storeID, id)
}

func (s *OrderService) invalidateAnalytics(ctx context.Context, storeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, caching.AnalyticsPattern(storeID)); err != nil {
		log.Printf("analytics cache invalidation failed: %v", err)
	}
}
