package repositories

import (
	"context"
	"fmt"

	"tivastore/internal/common"
	"tivastore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	GetActiveByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error
	SoftDelete(ctx context.Context, storeID, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, filter models.ProductSearchFilter) ([]*models.Product, int, error)
	ListPublic(ctx context.Context, storeID uuid.UUID, query string, page, limit int) ([]*models.Product, int, error)
	CountActiveByStore(ctx context.Context, storeID uuid.UUID) (int, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, store_id, name, description, price, stock, image_urls, tags, status, is_active, created_by, created_at, updated_at`

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.StoreID, &product.Name, &product.Description,
		&product.Price, &product.Stock, &product.ImageURLs, &product.Tags,
		&product.Status, &product.IsActive, &product.CreatedBy,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, store_id, name, description, price, stock, image_urls, tags, status, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.StoreID, product.Name, product.Description,
		product.Price, product.Stock, product.ImageURLs, product.Tags,
		product.Status, product.IsActive, product.CreatedBy)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND store_id = $2 AND is_active = true`
	return scanProduct(r.db.QueryRow(ctx, query, id, storeID))
}

// GetActiveByID returns the product only when it is sellable: not soft
// deleted and status active. Used by the public order flow.
func (r *productRepo) GetActiveByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND store_id = $2 AND is_active = true AND status = 'active'
	`
	return scanProduct(r.db.QueryRow(ctx, query, id, storeID))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, image_urls = $5, tags = $6, status = $7, updated_at = NOW()
		WHERE id = $8 AND store_id = $9 AND is_active = true
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price,
		product.Stock, product.ImageURLs, product.Tags, product.Status,
		product.ID, product.StoreID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error {
	query := `UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2 AND store_id = $3 AND is_active = true`
	tag, err := r.db.Exec(ctx, query, status, id, storeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	query := `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1 AND store_id = $2 AND is_active = true`
	tag, err := r.db.Exec(ctx, query, id, storeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, storeID uuid.UUID, filter models.ProductSearchFilter) ([]*models.Product, int, error) {
	where := `WHERE store_id = $1 AND is_active = true`
	args := []interface{}{storeID}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $%d))`,
			len(args), len(args), len(args))
	}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, direction := common.ParseSort(filter.Sort, productSortColumns, "created_at")
	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}

// ListPublic returns the storefront view: active status only, newest first.
func (r *productRepo) ListPublic(ctx context.Context, storeID uuid.UUID, query string, page, limit int) ([]*models.Product, int, error) {
	return r.List(ctx, storeID, models.ProductSearchFilter{
		Query:  query,
		Status: models.ProductStatusActive,
		Page:   page,
		Limit:  limit,
		Sort:   "-created_at",
	})
}

func (r *productRepo) CountActiveByStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE store_id = $1 AND is_active = true AND status = 'active'`
	if err := r.db.QueryRow(ctx, query, storeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
