package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareeta/commerce/internal/domain/item"
)

func newTestItem(id, name, price string) item.Item {
	return item.Item{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func TestAdd(t *testing.T) {
	c := &Cart{UserID: "u1"}
	widget := newTestItem("i1", "Round Widget", "2.99")

	require.NoError(t, c.Add(widget, 2))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)

	// Adding the same item again grows the existing line.
	require.NoError(t, c.Add(widget, 3))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestAdd_InvalidQuantity(t *testing.T) {
	c := &Cart{UserID: "u1"}
	widget := newTestItem("i1", "Round Widget", "2.99")

	require.ErrorIs(t, c.Add(widget, 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.Add(widget, -1), ErrInvalidQuantity)
	assert.Empty(t, c.Lines)
}

func TestRemove(t *testing.T) {
	c := &Cart{UserID: "u1"}
	widget := newTestItem("i1", "Round Widget", "2.99")
	require.NoError(t, c.Add(widget, 3))

	require.NoError(t, c.Remove("i1", 1))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestRemove_DropsLineAtZero(t *testing.T) {
	c := &Cart{UserID: "u1"}
	widget := newTestItem("i1", "Round Widget", "2.99")
	require.NoError(t, c.Add(widget, 2))

	// Removing the full quantity (or more) drops the line; a zero-quantity
	// line is never stored.
	require.NoError(t, c.Remove("i1", 5))
	assert.Empty(t, c.Lines)
	assert.True(t, decimal.Zero.Equal(c.Total()))
}

func TestRemove_UnknownItemIsNoop(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 1))

	require.NoError(t, c.Remove("missing", 1))
	require.Len(t, c.Lines, 1)
}

func TestRemove_InvalidQuantity(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.ErrorIs(t, c.Remove("i1", 0), ErrInvalidQuantity)
}

func TestTotal(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 2))
	require.NoError(t, c.Add(newTestItem("i2", "Square Widget", "1.99"), 1))

	assert.True(t, decimal.RequireFromString("7.97").Equal(c.Total()))
}

func TestSnapshot_FlattensLines(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 2))
	require.NoError(t, c.Add(newTestItem("i2", "Square Widget", "1.99"), 1))

	items, total := c.Snapshot()

	require.Len(t, items, 3)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, "i1", items[1].ID)
	assert.Equal(t, "i2", items[2].ID)
	assert.True(t, decimal.RequireFromString("7.97").Equal(total))
}

func TestSnapshot_SingleItem(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 1))

	items, total := c.Snapshot()

	require.Len(t, items, 1)
	assert.Equal(t, "2.99", total.StringFixed(2))
}

func TestSnapshot_DoesNotMutate(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 2))

	first, firstTotal := c.Snapshot()
	second, secondTotal := c.Snapshot()

	assert.Equal(t, first, second)
	assert.True(t, firstTotal.Equal(secondTotal))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestSnapshot_EmptyCart(t *testing.T) {
	c := &Cart{UserID: "u1"}

	items, total := c.Snapshot()

	assert.Empty(t, items)
	assert.True(t, decimal.Zero.Equal(total))
}

func TestReset(t *testing.T) {
	c := &Cart{UserID: "u1"}
	require.NoError(t, c.Add(newTestItem("i1", "Round Widget", "2.99"), 2))

	c.Reset()

	assert.Empty(t, c.Lines)
	assert.True(t, decimal.Zero.Equal(c.Total()))
}
