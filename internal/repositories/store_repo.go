package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"tivastore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	GetByCatalogID(ctx context.Context, catalogID string) (*models.Store, error)
	CatalogIDExists(ctx context.Context, catalogID string) (bool, error)
	Update(ctx context.Context, store *models.Store) error
	UpdateCatalogURL(ctx context.Context, id uuid.UUID, catalogURL string) error
	ListActive(ctx context.Context) ([]*models.Store, error)
	UpdateProductCount(ctx context.Context, id uuid.UUID, count int) error
	IncrementViews(ctx context.Context, id uuid.UUID, delta int) error
}

type storeRepo struct {
	db Database
}

func NewStoreRepo(db Database) StoreRepository {
	return &storeRepo{db: db}
}

const storeColumns = `id, owner_id, name, description, logo, whatsapp_number, sms_number, currency, language, catalog_id, catalog_url, is_active, settings, total_views, total_products, analytics_updated_at, created_at, updated_at`

func scanStore(row pgx.Row) (*models.Store, error) {
	store := &models.Store{}
	var settings []byte
	err := row.Scan(&store.ID, &store.OwnerID, &store.Name, &store.Description, &store.Logo,
		&store.WhatsappNumber, &store.SMSNumber, &store.Currency, &store.Language,
		&store.CatalogID, &store.CatalogURL, &store.IsActive, &settings,
		&store.TotalViews, &store.TotalProducts, &store.AnalyticsUpdatedAt,
		&store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &store.Settings); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (r *storeRepo) Create(ctx context.Context, store *models.Store) error {
	settings, err := json.Marshal(store.Settings)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stores (id, owner_id, name, description, logo, whatsapp_number, sms_number, currency, language, catalog_id, catalog_url, is_active, settings, total_views, total_products, analytics_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, 0, NOW(), NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, store.ID, store.OwnerID, store.Name, store.Description,
		store.Logo, store.WhatsappNumber, store.SMSNumber, store.Currency, store.Language,
		store.CatalogID, store.CatalogURL, store.IsActive, settings)
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return scanStore(r.db.QueryRow(ctx, query, id))
}

func (r *storeRepo) GetByCatalogID(ctx context.Context, catalogID string) (*models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE catalog_id = $1 AND is_active = true`
	return scanStore(r.db.QueryRow(ctx, query, catalogID))
}

func (r *storeRepo) CatalogIDExists(ctx context.Context, catalogID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM stores WHERE catalog_id = $1)`
	if err := r.db.QueryRow(ctx, query, catalogID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update persists the mutable store fields. The catalog id is immutable and
// deliberately absent from the statement.
func (r *storeRepo) Update(ctx context.Context, store *models.Store) error {
	settings, err := json.Marshal(store.Settings)
	if err != nil {
		return err
	}
	query := `
		UPDATE stores
		SET name = $1, description = $2, logo = $3, whatsapp_number = $4, sms_number = $5,
		    currency = $6, language = $7, settings = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err = r.db.Exec(ctx, query, store.Name, store.Description, store.Logo,
		store.WhatsappNumber, store.SMSNumber, store.Currency, store.Language, settings, store.ID)
	return err
}

func (r *storeRepo) UpdateCatalogURL(ctx context.Context, id uuid.UUID, catalogURL string) error {
	query := `UPDATE stores SET catalog_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, catalogURL, id)
	return err
}

func (r *storeRepo) ListActive(ctx context.Context) ([]*models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE is_active = true ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (r *storeRepo) UpdateProductCount(ctx context.Context, id uuid.UUID, count int) error {
	query := `
		UPDATE stores
		SET total_products = $1, analytics_updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, count, id)
	return err
}

func (r *storeRepo) IncrementViews(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE stores
		SET total_views = total_views + $1, analytics_updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, delta, id)
	return err
}
