// Package cart models the per-user shopping cart: an ordered sequence of
// (item, quantity) lines with a derived total. The total is never stored, it
// is recomputed from the lines on every read so it cannot drift.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sareeta/commerce/internal/domain/item"
)

// ErrInvalidQuantity is returned when a mutation asks for a quantity below 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is a single (item, quantity) pairing. Quantity is always >= 1 for a
// line that exists; a line that would drop to zero is removed instead.
type Line struct {
	Item     item.Item
	Quantity int
}

// Cart is the mutable collection of lines owned by exactly one user. It lives
// as long as the user does; submitting an order empties it but never destroys it.
type Cart struct {
	UserID string
	Lines  []Line
}

// Add increases the quantity of the given item, appending a new line when the
// item is not in the cart yet.
func (c *Cart) Add(it item.Item, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID == it.ID {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{Item: it, Quantity: quantity})
	return nil
}

// Remove decreases the quantity of the given item. A line that reaches zero
// (or would go below) is dropped entirely. Removing an item that is not in
// the cart is a no-op, matching how the store's UI treats it.
func (c *Cart) Remove(itemID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID != itemID {
			continue
		}
		if c.Lines[i].Quantity > quantity {
			c.Lines[i].Quantity -= quantity
			return nil
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	return nil
}

// Total is the exact decimal sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Snapshot expands every line into quantity individual item references,
// preserving line order, and returns them with the exact decimal total.
// It never mutates the cart; calling it twice on an unchanged cart yields
// identical results.
func (c *Cart) Snapshot() ([]item.Item, decimal.Decimal) {
	var items []item.Item
	total := decimal.Zero
	for _, l := range c.Lines {
		for range l.Quantity {
			items = append(items, l.Item)
			total = total.Add(l.Item.Price)
		}
	}
	return items, total
}

// Reset clears every line. Afterwards the cart has zero lines and a zero total.
func (c *Cart) Reset() {
	c.Lines = nil
}
