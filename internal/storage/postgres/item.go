package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sareeta/commerce/internal/domain/item"
)

const (
	listItemsSQL = `SELECT id, name, description, price
		FROM items ORDER BY id`

	getItemByIDSQL = `SELECT id, name, description, price
		FROM items WHERE id = $1`

	getItemsByIDsSQL = `SELECT id, name, description, price
		FROM items WHERE id = ANY($1)`

	findItemsByNameSQL = `SELECT id, name, description, price
		FROM items WHERE name = $1 ORDER BY id`

	upsertItemSQL = `INSERT INTO items (id, name, description, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price`
)

var _ item.Repository = (*ItemRepository)(nil)

// ItemRepository implements item.Repository backed by PostgreSQL.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns an ItemRepository that uses the given pool.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// List returns the whole catalog ordered by ID.
func (r *ItemRepository) List(ctx context.Context) ([]item.Item, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return pgx.CollectRows(rows, scanItem)
}

// GetByID returns a single item by its identifier.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, getItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}
	return &it, nil
}

// GetByIDs returns items matching any of the given IDs.
func (r *ItemRepository) GetByIDs(ctx context.Context, ids []string) ([]item.Item, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, getItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanItem)
}

// FindByName returns every item with the given name, which is not unique.
// Returns item.ErrNotFound when nothing matches.
func (r *ItemRepository) FindByName(ctx context.Context, name string) ([]item.Item, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, findItemsByNameSQL, name)
	if err != nil {
		return nil, fmt.Errorf("finding items named %q: %w", name, err)
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("finding items named %q: %w", name, err)
	}
	if len(items) == 0 {
		return nil, item.ErrNotFound
	}
	return items, nil
}

// Upsert inserts or updates a catalog entry. Used by the seeding and catalog
// import tools; the serving path never writes items.
func (r *ItemRepository) Upsert(ctx context.Context, it item.Item) error {
	_, err := querier(ctx, r.pool).Exec(ctx, upsertItemSQL,
		it.ID, it.Name, it.Description, it.Price,
	)
	if err != nil {
		return fmt.Errorf("upserting item %q: %w", it.ID, err)
	}
	return nil
}

func scanItem(row pgx.CollectableRow) (item.Item, error) {
	var it item.Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price)
	return it, err
}
