package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product statuses. Soft deletion uses IsActive instead of a status value so
// archived products stay visible in the dashboard while deleted ones do not.
const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
	ProductStatusDraft    = "draft"
)

// ValidProductStatus reports whether status is one of the enumerated values.
func ValidProductStatus(status string) bool {
	switch status {
	case ProductStatusActive, ProductStatusArchived, ProductStatusDraft:
		return true
	}
	return false
}

type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	ImageURLs   []string  `json:"image_urls" db:"image_urls"`
	Tags        []string  `json:"tags" db:"tags"`
	Status      string    `json:"status" db:"status"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeTags lowercases, trims and de-duplicates the product's tags,
// preserving first-seen order.
func (p *Product) NormalizeTags() {
	if len(p.Tags) == 0 {
		return
	}
	seen := make(map[string]bool, len(p.Tags))
	normalized := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	p.Tags = normalized
}

// ProductSearchFilter holds listing criteria for product queries.
type ProductSearchFilter struct {
	Query  string `json:"query,omitempty"`  // Substring match across name, description, tags
	Status string `json:"status,omitempty"` // Status filter; "all" disables it
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Sort   string `json:"sort,omitempty"` // Field name, "-" prefix for descending
}
