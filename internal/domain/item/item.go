package item

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no item matches the requested ID or name.
var ErrNotFound = errors.New("item not found")

// Item is an immutable catalog entry. The order-management core only ever
// reads items; creating and editing them is the catalog's business.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// Repository defines read operations over the item catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	// GetByIDs returns items matching any of the given IDs, deduplicated.
	GetByIDs(ctx context.Context, ids []string) ([]Item, error)
	// FindByName returns every item with the given name. Item names are not
	// unique. Returns ErrNotFound when nothing matches.
	FindByName(ctx context.Context, name string) ([]Item, error)
}
