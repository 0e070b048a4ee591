package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"tivastore/internal/caching"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a catalog id from a store name: lowercase, runs of
// anything outside [a-z0-9] collapse to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

type StoreUpdateInput struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	Logo           *string               `json:"logo"`
	WhatsappNumber *string               `json:"whatsapp_number"`
	SMSNumber      *string               `json:"sms_number"`
	Currency       *string               `json:"currency"`
	Language       *string               `json:"language"`
	Settings       *models.StoreSettings `json:"settings"`
}

type StoreService struct {
	stores        repositories.StoreRepository
	cache         *caching.CacheService
	publicBaseURL string
}

func NewStoreService(stores repositories.StoreRepository, cache *caching.CacheService, publicBaseURL string) *StoreService {
	return &StoreService{stores: stores, cache: cache, publicBaseURL: publicBaseURL}
}

// CreateForOwner creates the store record during registration. Catalog id
// collisions get a short random suffix.
func (s *StoreService) CreateForOwner(ctx context.Context, ownerID uuid.UUID, name string) (*models.Store, error) {
	catalogID := Slugify(name)
	if catalogID == "" {
		catalogID = "store"
	}
	exists, err := s.stores.CatalogIDExists(ctx, catalogID)
	if err != nil {
		return nil, fmt.Errorf("check catalog id: %w", err)
	}
	if exists {
		catalogID = catalogID + "-" + uuid.NewString()[:6]
	}

	store := &models.Store{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       name,
		Currency:   "COP",
		Language:   "es",
		CatalogID:  catalogID,
		CatalogURL: s.CatalogURL(catalogID),
		IsActive:   true,
		Settings:   models.DefaultStoreSettings(),
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

// CatalogURL builds the public storefront URL for a catalog id.
func (s *StoreService) CatalogURL(catalogID string) string {
	return fmt.Sprintf("%s/catalog/%s", strings.TrimRight(s.publicBaseURL, "/"), catalogID)
}

func (s *StoreService) GetMine(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Store not found")
		}
		return nil, err
	}
	return store, nil
}

// UpdateMine applies the whitelisted fields only. Catalog id, owner and
// counters are not client-writable.
func (s *StoreService) UpdateMine(ctx context.Context, storeID uuid.UUID, input StoreUpdateInput) (*models.Store, error) {
	store, err := s.GetMine(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Store name cannot be empty")
		}
		store.Name = name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Logo != nil {
		store.Logo = *input.Logo
	}
	if input.WhatsappNumber != nil {
		store.WhatsappNumber = strings.TrimSpace(*input.WhatsappNumber)
	}
	if input.SMSNumber != nil {
		store.SMSNumber = strings.TrimSpace(*input.SMSNumber)
	}
	if input.Currency != nil {
		store.Currency = *input.Currency
	}
	if input.Language != nil {
		store.Language = *input.Language
	}
	if input.Settings != nil {
		store.Settings = *input.Settings
	}

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, caching.CatalogStoreKey(store.CatalogID)); err != nil {
			log.Printf("catalog cache invalidation failed: %v", err)
		}
	}
	return store, nil
}

// EnsureCatalogURL regenerates and persists the catalog URL from the current
// base URL without touching the slug itself.
func (s *StoreService) EnsureCatalogURL(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.GetMine(ctx, storeID)
	if err != nil {
		return nil, err
	}
	url := s.CatalogURL(store.CatalogID)
	if store.CatalogURL != url {
		if err := s.stores.UpdateCatalogURL(ctx, store.ID, url); err != nil {
			return nil, fmt.Errorf("update catalog url: %w", err)
		}
		store.CatalogURL = url
	}
	return store, nil
}
