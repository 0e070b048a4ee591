package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreSettings holds branding and contact configuration embedded in the
// store record. Stored as a single jsonb column.
type StoreSettings struct {
	Theme   StoreTheme   `json:"theme"`
	Contact StoreContact `json:"contact"`
	Social  StoreSocial  `json:"social"`
}

type StoreTheme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Logo           string `json:"logo"`
}

type StoreContact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type StoreSocial struct {
	Whatsapp  string `json:"whatsapp"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
}

// DefaultStoreSettings mirrors the defaults applied when a store is created
// at registration time.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Theme: StoreTheme{
			PrimaryColor:   "#3B82F6",
			SecondaryColor: "#10B981",
		},
	}
}

// Store is one merchant's isolated partition. CatalogID is the public,
// immutable slug used by the storefront; it is derived from the store name
// once at creation and never regenerated.
type Store struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	OwnerID            uuid.UUID     `json:"owner_id" db:"owner_id"`
	Name               string        `json:"name" db:"name"`
	Description        string        `json:"description" db:"description"`
	Logo               string        `json:"logo" db:"logo"`
	WhatsappNumber     string        `json:"whatsapp_number" db:"whatsapp_number"`
	SMSNumber          string        `json:"sms_number" db:"sms_number"`
	Currency           string        `json:"currency" db:"currency"`
	Language           string        `json:"language" db:"language"`
	CatalogID          string        `json:"catalog_id" db:"catalog_id"`
	CatalogURL         string        `json:"catalog_url" db:"catalog_url"`
	IsActive           bool          `json:"is_active" db:"is_active"`
	Settings           StoreSettings `json:"settings" db:"settings"`
	TotalViews         int           `json:"total_views" db:"total_views"`
	TotalProducts      int           `json:"total_products" db:"total_products"`
	AnalyticsUpdatedAt time.Time     `json:"analytics_updated_at" db:"analytics_updated_at"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// PublicProfile is the storefront-facing subset of the store record.
func (s *Store) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":              s.ID,
		"name":            s.Name,
		"description":     s.Description,
		"logo":            s.Logo,
		"whatsapp_number": s.WhatsappNumber,
		"sms_number":      s.SMSNumber,
		"currency":        s.Currency,
		"language":        s.Language,
	}
}
