package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareeta/commerce/internal/domain/cart"
	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/user"
)

// --- Mock implementations ---

type mockDirectory struct {
	byUsername    map[string]*user.User
	saveCartCalls int
	saveCartErr   error
}

func (m *mockDirectory) FindByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockDirectory) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockDirectory) Create(_ context.Context, u *user.User) error {
	m.byUsername[u.Username] = u
	return nil
}

func (m *mockDirectory) SaveCart(_ context.Context, _ *cart.Cart) error {
	if m.saveCartErr != nil {
		return m.saveCartErr
	}
	m.saveCartCalls++
	return nil
}

type mockStore struct {
	orders  []Order
	saveErr error
}

func (m *mockStore) Save(_ context.Context, o *Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *mockStore) FindByUser(_ context.Context, userID string) ([]Order, error) {
	found := make([]Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			found = append(found, o)
		}
	}
	return found, nil
}

// mockTx runs the callback directly. Rollback semantics are covered by the
// postgres integration tests; here we only verify what the service does and
// does not attempt.
type mockTx struct {
	calls int
}

func (m *mockTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// --- Helpers ---

func newTestItem(id, name, price string) item.Item {
	return item.Item{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func newTestUser(t *testing.T, username string, lines ...cart.Line) *user.User {
	t.Helper()
	u := &user.User{
		ID:       "id-" + username,
		Username: username,
	}
	u.Cart = cart.Cart{UserID: u.ID, Lines: lines}
	return u
}

func newDirectory(users ...*user.User) *mockDirectory {
	byUsername := make(map[string]*user.User, len(users))
	for _, u := range users {
		byUsername[u.Username] = u
	}
	return &mockDirectory{byUsername: byUsername}
}

// --- Tests ---

func TestSubmit(t *testing.T) {
	widget := newTestItem("i1", "Round Widget", "2.99")
	u := newTestUser(t, "jbond", cart.Line{Item: widget, Quantity: 1})
	dir := newDirectory(u)
	store := &mockStore{}
	tx := &mockTx{}
	svc := NewService(dir, store, tx)

	o, err := svc.Submit(context.Background(), "jbond")

	require.NoError(t, err)
	assert.Equal(t, u.ID, o.UserID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "i1", o.Items[0].ID)
	assert.Equal(t, "2.99", o.Total.StringFixed(2))
	assert.NotEmpty(t, o.ID)

	// The order was persisted and the cart reset inside one transaction.
	require.Len(t, store.orders, 1)
	assert.Empty(t, u.Cart.Lines)
	assert.Equal(t, 1, dir.saveCartCalls)
	assert.Equal(t, 1, tx.calls)
}

func TestSubmit_FlattensQuantities(t *testing.T) {
	u := newTestUser(t, "jbond",
		cart.Line{Item: newTestItem("i1", "Round Widget", "2.99"), Quantity: 2},
		cart.Line{Item: newTestItem("i2", "Square Widget", "1.99"), Quantity: 1},
	)
	svc := NewService(newDirectory(u), &mockStore{}, &mockTx{})

	o, err := svc.Submit(context.Background(), "jbond")

	require.NoError(t, err)
	require.Len(t, o.Items, 3)
	assert.Equal(t, []string{"i1", "i1", "i2"}, []string{o.Items[0].ID, o.Items[1].ID, o.Items[2].ID})
	assert.Equal(t, "7.97", o.Total.StringFixed(2))
}

func TestSubmit_EmptyCart(t *testing.T) {
	// Submitting an empty cart is permitted: it yields a valid order with no
	// items and a zero total.
	u := newTestUser(t, "jbond")
	store := &mockStore{}
	svc := NewService(newDirectory(u), store, &mockTx{})

	o, err := svc.Submit(context.Background(), "jbond")

	require.NoError(t, err)
	assert.Empty(t, o.Items)
	assert.True(t, decimal.Zero.Equal(o.Total))
	require.Len(t, store.orders, 1)
}

func TestSubmit_UserNotFound(t *testing.T) {
	dir := newDirectory()
	store := &mockStore{}
	svc := NewService(dir, store, &mockTx{})

	_, err := svc.Submit(context.Background(), "nonexistent-user")

	require.ErrorIs(t, err, user.ErrNotFound)
	// No side effects: no order stored, no cart touched.
	assert.Empty(t, store.orders)
	assert.Zero(t, dir.saveCartCalls)
}

func TestSubmit_SaveOrderFails(t *testing.T) {
	widget := newTestItem("i1", "Round Widget", "2.99")
	u := newTestUser(t, "jbond", cart.Line{Item: widget, Quantity: 1})
	dir := newDirectory(u)
	store := &mockStore{saveErr: errors.New("db write failed")}
	svc := NewService(dir, store, &mockTx{})

	_, err := svc.Submit(context.Background(), "jbond")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save order")
	// The reset step is never reached when order persistence fails.
	assert.Zero(t, dir.saveCartCalls)
	require.Len(t, u.Cart.Lines, 1)
}

func TestSubmit_SaveCartFails(t *testing.T) {
	widget := newTestItem("i1", "Round Widget", "2.99")
	u := newTestUser(t, "jbond", cart.Line{Item: widget, Quantity: 1})
	dir := newDirectory(u)
	dir.saveCartErr = errors.New("db write failed")
	svc := NewService(dir, &mockStore{}, &mockTx{})

	_, err := svc.Submit(context.Background(), "jbond")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset cart")
}

func TestHistory(t *testing.T) {
	u := newTestUser(t, "jbond")
	dir := newDirectory(u)
	store := &mockStore{}
	svc := NewService(dir, store, &mockTx{})

	// Two sequential submits of single items priced 2.99 and 1.99.
	u.Cart.Lines = []cart.Line{{Item: newTestItem("i1", "Round Widget", "2.99"), Quantity: 1}}
	first, err := svc.Submit(context.Background(), "jbond")
	require.NoError(t, err)

	u.Cart.Lines = []cart.Line{{Item: newTestItem("i2", "Square Widget", "1.99"), Quantity: 1}}
	second, err := svc.Submit(context.Background(), "jbond")
	require.NoError(t, err)

	orders, err := svc.History(context.Background(), "jbond")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Submission order is preserved.
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	assert.Equal(t, "4.98", fmt.Sprintf("%.2f", total.InexactFloat64()))
}

func TestHistory_IsolatedBetweenUsers(t *testing.T) {
	alice := newTestUser(t, "alice", cart.Line{Item: newTestItem("i1", "Round Widget", "2.99"), Quantity: 1})
	bob := newTestUser(t, "bob")
	svc := NewService(newDirectory(alice, bob), &mockStore{}, &mockTx{})

	_, err := svc.Submit(context.Background(), "alice")
	require.NoError(t, err)

	aliceOrders, err := svc.History(context.Background(), "alice")
	require.NoError(t, err)
	bobOrders, err := svc.History(context.Background(), "bob")
	require.NoError(t, err)

	assert.Len(t, aliceOrders, 1)
	assert.Empty(t, bobOrders)
}

func TestHistory_Idempotent(t *testing.T) {
	u := newTestUser(t, "jbond", cart.Line{Item: newTestItem("i1", "Round Widget", "2.99"), Quantity: 1})
	svc := NewService(newDirectory(u), &mockStore{}, &mockTx{})

	_, err := svc.Submit(context.Background(), "jbond")
	require.NoError(t, err)

	first, err := svc.History(context.Background(), "jbond")
	require.NoError(t, err)
	second, err := svc.History(context.Background(), "jbond")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHistory_UserNotFound(t *testing.T) {
	svc := NewService(newDirectory(), &mockStore{}, &mockTx{})

	orders, err := svc.History(context.Background(), "nonexistent-user")

	require.ErrorIs(t, err, user.ErrNotFound)
	assert.Nil(t, orders)
}
