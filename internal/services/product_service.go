package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"tivastore/internal/caching"
	"tivastore/internal/common"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	ImageURLs   []string `json:"image_urls"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

type ProductService struct {
	products repositories.ProductRepository
	cache    *caching.CacheService
}

func NewProductService(products repositories.ProductRepository, cache *caching.CacheService) *ProductService {
	return &ProductService{products: products, cache: cache}
}

func (s *ProductService) Create(ctx context.Context, storeID, userID uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input, true); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	product := &models.Product{
		ID:          uuid.New(),
		StoreID:     storeID,
		Name:        strings.TrimSpace(input.Name),
		Description: description,
		Price:       *input.Price,
		Stock:       *input.Stock,
		ImageURLs:   input.ImageURLs,
		Tags:        input.Tags,
		Status:      status,
		IsActive:    true,
		CreatedBy:   userID,
	}
	product.NormalizeTags()

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidateAnalytics(ctx, storeID)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, storeID, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.ImageURLs != nil {
		product.ImageURLs = input.ImageURLs
	}
	if input.Tags != nil {
		product.Tags = input.Tags
		product.NormalizeTags()
	}
	if input.Status != "" {
		if !models.ValidProductStatus(input.Status) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid product status")
		}
		product.Status = input.Status
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidateAnalytics(ctx, storeID)
	return product, nil
}

// Archive flips the product to archived status. Archived products stay in
// the dashboard list but disappear from the storefront.
func (s *ProductService) Archive(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	if err := s.products.UpdateStatus(ctx, storeID, id, models.ProductStatusArchived); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, fmt.Errorf("archive product: %w", err)
	}
	s.invalidateAnalytics(ctx, storeID)
	return s.Get(ctx, storeID, id)
}

// Delete soft deletes: the row stays for order item history but no listing
// returns it again.
func (s *ProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.products.SoftDelete(ctx, storeID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateAnalytics(ctx, storeID)
	return nil
}

func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter models.ProductSearchFilter) ([]*models.Product, common.Pagination, error) {
	products, total, err := s.products.List(ctx, storeID, filter)
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, common.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *ProductService) invalidateAnalytics(ctx context.Context, storeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, caching.AnalyticsPattern(storeID)); err != nil {
		log.Printf("analytics cache invalidation failed: %v", err)
	}
}

func validateProductInput(input ProductInput, creating bool) error {
	if creating {
		if strings.TrimSpace(input.Name) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Product name is required")
		}
		if input.Price == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Price is required")
		}
		if input.Stock == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Stock is required")
		}
	}
	if input.Price != nil && *input.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Price cannot be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Stock cannot be negative")
	}
	if input.Status != "" && !models.ValidProductStatus(input.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product status")
	}
	return nil
}
