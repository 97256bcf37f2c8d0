package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sareeta/commerce/internal/domain/item"
)

// Order is an immutable record of a past cart submission. Items is the
// flattened snapshot taken at submit time: one entry per unit, in cart order,
// referencing catalog items by identity. Total is frozen at creation and is
// exactly the decimal sum of the unit prices. Nothing ever mutates an order.
type Order struct {
	ID        string
	UserID    string
	Items     []item.Item
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Store is the durable, append-only collection of orders.
type Store interface {
	// Save persists a new order. Orders are never overwritten.
	Save(ctx context.Context, o *Order) error
	// FindByUser returns every order owned by the given user in submission
	// order. No orders is an empty slice, not an error.
	FindByUser(ctx context.Context, userID string) ([]Order, error)
}
