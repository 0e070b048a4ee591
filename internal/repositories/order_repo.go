package repositories

import (
	"context"
	"fmt"
	"time"

	"tivastore/internal/common"
	"tivastore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, storeID uuid.UUID, filter models.OrderSearchFilter) ([]*models.Order, int, error)
	CountByStore(ctx context.Context, storeID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error

	RevenueAndCount(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) (float64, int, error)
	StatusCounts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.StatusCount, error)
	TopProducts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange, limit int) ([]models.TopProduct, error)
	OrdersByDay(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.DayBucket, error)
	ChannelStats(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.ChannelStat, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, store_id, order_number, customer_name, customer_phone, customer_email, subtotal, shipping, tax, total, currency, status, channel, whatsapp_link, sms_link, notes, created_by, created_at, updated_at`

var orderSortColumns = map[string]string{
	"created_at":   "created_at",
	"total":        "total",
	"status":       "status",
	"order_number": "order_number",
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.StoreID, &order.OrderNumber,
		&order.Customer.Name, &order.Customer.Phone, &order.Customer.Email,
		&order.Totals.Subtotal, &order.Totals.Shipping, &order.Totals.Tax,
		&order.Totals.Total, &order.Totals.Currency,
		&order.Status, &order.Channel, &order.WhatsappLink, &order.SMSLink,
		&order.Notes, &order.CreatedBy, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// Create persists the order row and then its item rows. There is no
// transaction around the two statements; a failure between them leaves an
// order without items.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, store_id, order_number, customer_name, customer_phone, customer_email, subtotal, shipping, tax, total, currency, status, channel, whatsapp_link, sms_link, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.StoreID, order.OrderNumber,
		order.Customer.Name, order.Customer.Phone, order.Customer.Email,
		order.Totals.Subtotal, order.Totals.Shipping, order.Totals.Tax,
		order.Totals.Total, order.Totals.Currency,
		order.Status, order.Channel, order.WhatsappLink, order.SMSLink,
		order.Notes, order.CreatedBy)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ProductID,
			item.ProductName, item.Price, item.Quantity, item.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND store_id = $2`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id, storeID))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, storeID uuid.UUID, filter models.OrderSearchFilter) ([]*models.Order, int, error) {
	where := `WHERE store_id = $1`
	args := []interface{}{storeID}

	if filter.Status != nil && *filter.Status != "" && *filter.Status != "all" {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Channel != nil && *filter.Channel != "" && *filter.Channel != "all" {
		args = append(args, *filter.Channel)
		where += fmt.Sprintf(` AND channel = $%d`, len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, direction := common.ParseSort(filter.Sort, orderSortColumns, "created_at")
	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		orderColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// loadItems fetches items for all given orders in one query and distributes
// them by order id.
func (r *orderRepo) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
		order.Items = []models.OrderItem{}
	}

	query := `
		SELECT id, order_id, product_id, product_name, price, quantity, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Price, &item.Quantity, &item.LineTotal); err != nil {
			return err
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepo) CountByStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE store_id = $1`
	if err := r.db.QueryRow(ctx, query, storeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND store_id = $3`
	tag, err := r.db.Exec(ctx, query, status, id, storeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// rangeClause appends inclusive created_at bounds to an aggregate query's
// WHERE fragment. Bounds come after the store id in the argument list.
func rangeClause(column string, rng models.AnalyticsRange, args []interface{}) (string, []interface{}) {
	clause := ""
	if rng.From != nil {
		args = append(args, *rng.From)
		clause += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		clause += fmt.Sprintf(" AND %s <= $%d", column, len(args))
	}
	return clause, args
}

func (r *orderRepo) RevenueAndCount(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) (float64, int, error) {
	var revenue float64
	var count int
	clause, args := rangeClause("created_at", rng, []interface{}{storeID})
	query := `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM orders WHERE store_id = $1` + clause
	if err := r.db.QueryRow(ctx, query, args...).Scan(&revenue, &count); err != nil {
		return 0, 0, err
	}
	return revenue, count, nil
}

func (r *orderRepo) StatusCounts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.StatusCount, error) {
	clause, args := rangeClause("created_at", rng, []interface{}{storeID})
	query := `SELECT status, COUNT(*) FROM orders WHERE store_id = $1` + clause + ` GROUP BY status`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// TopProducts ranks by quantity sold using the item snapshots, so deleted
// products still appear under their recorded names.
func (r *orderRepo) TopProducts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange, limit int) ([]models.TopProduct, error) {
	clause, args := rangeClause("o.created_at", rng, []interface{}{storeID})
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT oi.product_id, MAX(oi.product_name), SUM(oi.quantity), SUM(oi.line_total), AVG(oi.price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.store_id = $1%s
		GROUP BY oi.product_id
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $%d
	`, clause, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.TopProduct
	for rows.Next() {
		var tp models.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.ProductName, &tp.TotalQuantity,
			&tp.TotalRevenue, &tp.AvgPrice); err != nil {
			return nil, err
		}
		products = append(products, tp)
	}
	return products, rows.Err()
}

func (r *orderRepo) OrdersByDay(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.DayBucket, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD'), COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE store_id = $1 AND created_at >= $2
		GROUP BY created_at::date
		ORDER BY created_at::date
	`
	rows, err := r.db.Query(ctx, query, storeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.DayBucket
	for rows.Next() {
		var b models.DayBucket
		if err := rows.Scan(&b.Date, &b.Orders, &b.Revenue); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *orderRepo) ChannelStats(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.ChannelStat, error) {
	clause, args := rangeClause("created_at", rng, []interface{}{storeID})
	query := `
		SELECT channel, COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM orders
		WHERE store_id = $1` + clause + `
		GROUP BY channel
		ORDER BY COUNT(*) DESC
	`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.ChannelStat
	for rows.Next() {
		var cs models.ChannelStat
		if err := rows.Scan(&cs.Channel, &cs.Count, &cs.Revenue, &cs.AvgOrderValue); err != nil {
			return nil, err
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}
