package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tivastore/internal/caching"
	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/labstack/echo/v4"
)

const storeCacheTTL = 5 * time.Minute

// CatalogService serves the public, unauthenticated storefront. Tenant
// resolution happens by catalog slug instead of a JWT.
type CatalogService struct {
	stores   repositories.StoreRepository
	products repositories.ProductRepository
	orders   *OrderService
	cache    *caching.CacheService
}

func NewCatalogService(stores repositories.StoreRepository, products repositories.ProductRepository, orders *OrderService, cache *caching.CacheService) *CatalogService {
	return &CatalogService{stores: stores, products: products, orders: orders, cache: cache}
}

// resolveStore loads the active store behind a catalog slug, consulting the
// cache first.
func (s *CatalogService) resolveStore(ctx context.Context, catalogID string) (*models.Store, error) {
	if s.cache != nil {
		var cached models.Store
		hit, err := s.cache.Get(ctx, caching.CatalogStoreKey(catalogID), &cached)
		if err != nil {
			log.Printf("catalog cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	store, err := s.stores.GetByCatalogID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Catalog not found")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, caching.CatalogStoreKey(catalogID), store, storeCacheTTL); err != nil {
			log.Printf("catalog cache write failed: %v", err)
		}
	}
	return store, nil
}

// GetStore returns the public store profile and counts the visit.
func (s *CatalogService) GetStore(ctx context.Context, catalogID string) (map[string]interface{}, error) {
	store, err := s.resolveStore(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.IncrementViews(ctx, store.ID, 1); err != nil {
		log.Printf("view counter increment failed for store %s: %v", store.ID, err)
	}
	profile := store.PublicProfile()
	profile["settings"] = store.Settings
	return profile, nil
}

// ListProducts returns the storefront product listing for a catalog slug.
func (s *CatalogService) ListProducts(ctx context.Context, catalogID, query string, page, limit int) ([]*models.Product, common.Pagination, error) {
	store, err := s.resolveStore(ctx, catalogID)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	products, total, err := s.products.ListPublic(ctx, store.ID, query, page, limit)
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("list catalog products: %w", err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, common.NewPagination(page, limit, total), nil
}

// PlaceOrder records a storefront order as pending and attaches contact
// links for whichever channels the store has configured. The total comes
// purely from the re-fetched product prices: anonymous shoppers cannot
// supply shipping or tax.
func (s *CatalogService) PlaceOrder(ctx context.Context, catalogID string, input OrderInput) (*models.Order, error) {
	store, err := s.resolveStore(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	if input.Channel == "" {
		input.Channel = models.ChannelWhatsapp
	}
	if !models.ValidChannel(input.Channel) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid channel")
	}
	input.Shipping = 0
	input.Tax = 0

	order, err := s.orders.createOrder(ctx, store.ID, input, models.OrderStatusPending, nil, store.Currency)
	if err != nil {
		return nil, err
	}

	// The messages reference the persisted order id, so the links can only
	// be generated after creation. They ride on the response, not the row.
	order.WhatsappLink = WhatsappLink(store.WhatsappNumber, whatsappOrderMessage(store.Name, order))
	order.SMSLink = SMSLink(store.SMSNumber, smsOrderMessage(store.Name, order))
	return order, nil
}

// whatsappOrderMessage is the multi-line text prefilled into the wa.me link.
func whatsappOrderMessage(storeName string, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order for %s\n\n", storeName)
	fmt.Fprintf(&b, "Customer: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n\n", order.Customer.Phone)
	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d - %.2f\n", item.ProductName, item.Quantity, item.LineTotal)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f %s\n", order.Totals.Total, order.Totals.Currency)
	if order.Notes != nil && *order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", *order.Notes)
	}
	fmt.Fprintf(&b, "\nOrder ID: %s", order.ID)
	return b.String()
}

// smsOrderMessage is the compact variant for the sms: URI, items joined into
// a single line.
func smsOrderMessage(storeName string, order *models.Order) string {
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		names = append(names, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Order for %s\n", storeName)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.Customer.Name, order.Customer.Phone)
	fmt.Fprintf(&b, "Items: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Total: %.2f %s", order.Totals.Total, order.Totals.Currency)
	if order.Notes != nil && *order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", *order.Notes)
	}
	fmt.Fprintf(&b, "\nID: %s", order.ID)
	return b.String()
}

// WhatsappLink builds a wa.me deep link. Returns nil when the store has no
// WhatsApp number configured.
func WhatsappLink(number, message string) *string {
	if number == "" {
		return nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return nil
	}
	link := fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
	return &link
}

// SMSLink builds an sms: URI. Returns nil when the store has no SMS number
// configured.
func SMSLink(number, message string) *string {
	if number == "" {
		return nil
	}
	link := fmt.Sprintf("sms:%s?body=%s", number, url.QueryEscape(message))
	return &link
}
