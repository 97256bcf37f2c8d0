package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, total, created_at)
		VALUES ($1, $2, $3, $4)`

	createOrderItemsSQL = `INSERT INTO order_items (order_id, position, item_id)
		SELECT $1, t.ordinality, t.item_id
		FROM unnest($2::text[]) WITH ORDINALITY AS t(item_id, ordinality)`

	findOrdersByUserSQL = `SELECT id, user_id, total, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at, id`

	findOrderItemsSQL = `SELECT oi.order_id, i.id, i.name, i.description, i.price
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.position`
)

var _ order.Store = (*OrderStore)(nil)

// OrderStore implements order.Store backed by PostgreSQL. The flattened item
// snapshot lives in order_items, one row per unit.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Save persists a new order and its item snapshot. Orders are append-only;
// the primary key rejects any attempt to write the same ID twice.
func (s *OrderStore) Save(ctx context.Context, o *order.Order) error {
	q := querier(ctx, s.pool)

	_, err := q.Exec(ctx, createOrderSQL, o.ID, o.UserID, o.Total, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if len(o.Items) == 0 {
		return nil
	}
	ids := make([]string, len(o.Items))
	for i, it := range o.Items {
		ids[i] = it.ID
	}
	if _, err := q.Exec(ctx, createOrderItemsSQL, o.ID, ids); err != nil {
		return fmt.Errorf("creating order items for %q: %w", o.ID, err)
	}
	return nil
}

// FindByUser returns all orders owned by the user in submission order, each
// hydrated with its item snapshot from the catalog.
func (s *OrderStore) FindByUser(ctx context.Context, userID string) ([]order.Order, error) {
	q := querier(ctx, s.pool)

	rows, err := q.Query(ctx, findOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("finding orders for user %q: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var o order.Order
		err := row.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("finding orders for user %q: %w", userID, err)
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.loadItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills each order's flattened item sequence in one query.
func (s *OrderStore) loadItems(ctx context.Context, q Querier, orders []order.Order) error {
	ids := make([]string, len(orders))
	byID := make(map[string]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	rows, err := q.Query(ctx, findOrderItemsSQL, ids)
	if err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      item.Item
		)
		if err := rows.Scan(&orderID, &it.ID, &it.Name, &it.Description, &it.Price); err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	return nil
}
