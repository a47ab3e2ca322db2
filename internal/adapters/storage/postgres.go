package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

const defaultListLimit = 50

// OrdersStoragePostgres persists one anonymized row per order. The item
// snapshot lives in a jsonb column, so the row is the whole order document.
// Rows are only ever inserted or status-updated, never deleted
type OrdersStoragePostgres struct {
	pool *pgxpool.Pool
}

func NewOrdersStoragePostgres(pool *pgxpool.Pool) *OrdersStoragePostgres {
	return &OrdersStoragePostgres{
		pool: pool,
	}
}

// SaveOrder upserts the order keyed by order id. A re-submitted id overwrites
// the previous row instead of duplicating it
func (o *OrdersStoragePostgres) SaveOrder(ctx context.Context, order models.PersistedOrder) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("couldn't marshal order items: %w", err)
	}

	now := time.Now().UTC()

	sql, args, err := squirrel.Insert("checkout.orders").
		Columns(
			"order_id", "status", "subtotal", "shipping_cost", "total_price",
			"invoice_id", "delivery_city", "delivery_postcode", "items",
			"created_at", "updated_at",
		).
		Values(
			order.OrderID, string(order.Status), order.Subtotal, order.ShippingCost,
			order.TotalPrice, nullableText(order.InvoiceID), order.DeliveryCity,
			order.DeliveryPostcode, itemsJSON, now, now,
		).
		Suffix(`ON CONFLICT (order_id) DO UPDATE SET
			status = EXCLUDED.status,
			subtotal = EXCLUDED.subtotal,
			shipping_cost = EXCLUDED.shipping_cost,
			total_price = EXCLUDED.total_price,
			invoice_id = EXCLUDED.invoice_id,
			delivery_city = EXCLUDED.delivery_city,
			delivery_postcode = EXCLUDED.delivery_postcode,
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("couldn't build order upsert query: %w", err)
	}

	if _, err = o.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error while upserting order: %w", err)
	}

	return nil
}

// GetOrderByID reads one order row including its item snapshot
func (o *OrdersStoragePostgres) GetOrderByID(ctx context.Context, orderID string) (models.PersistedOrder, error) {
	sql, args, err := orderSelect().
		Where(squirrel.Eq{"order_id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.PersistedOrder{}, fmt.Errorf("couldn't build order query: %w", err)
	}

	order, err := scanOrder(o.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PersistedOrder{}, customerrors.ErrOrderNotFound
		}
		return models.PersistedOrder{}, fmt.Errorf("error while mapping order row: %w", err)
	}

	return order, nil
}

// GetLastOrders lists up to limit orders by creation time descending,
// optionally narrowed to one status
func (o *OrdersStoragePostgres) GetLastOrders(ctx context.Context, status models.OrderStatus, limit int) ([]models.PersistedOrder, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := orderSelect().
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if status != "" {
		q = q.Where(squirrel.Eq{"status": string(status)})
	}

	sql, args, err := q.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build orders list query: %w", err)
	}

	rows, err := o.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.PersistedOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("error while mapping orders list row: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error while reading orders list: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus writes the status unconditionally. There is no transition
// legality check here on purpose: only trusted operators reach this path
func (o *OrdersStoragePostgres) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	sql, args, err := squirrel.Update("checkout.orders").
		Set("status", string(status)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"order_id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("couldn't build status update query: %w", err)
	}

	tag, err := o.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error while updating order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customerrors.ErrOrderNotFound
	}

	return nil
}

func orderSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"order_id", "status", "subtotal", "shipping_cost", "total_price",
		"invoice_id", "delivery_city", "delivery_postcode", "items",
		"created_at", "updated_at",
	).From("checkout.orders")
}

func scanOrder(row pgx.Row) (models.PersistedOrder, error) {
	var (
		order     models.PersistedOrder
		status    string
		invoiceID *string
		itemsJSON []byte
	)

	err := row.Scan(
		&order.OrderID, &status, &order.Subtotal, &order.ShippingCost,
		&order.TotalPrice, &invoiceID, &order.DeliveryCity,
		&order.DeliveryPostcode, &itemsJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return models.PersistedOrder{}, err
	}

	order.Status = models.OrderStatus(status)
	if invoiceID != nil {
		order.InvoiceID = *invoiceID
	}
	if err = json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return models.PersistedOrder{}, fmt.Errorf("couldn't unmarshal order items: %w", err)
	}

	return order, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
