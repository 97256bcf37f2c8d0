package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sareeta/commerce/internal/domain/cart"
	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/user"
)

const (
	getUserByUsernameSQL = `SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1`

	getUserByIDSQL = `SELECT id, username, password_hash, created_at
		FROM users WHERE id = $1`

	createUserSQL = `INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	getCartLinesSQL = `SELECT i.id, i.name, i.description, i.price, ci.quantity
		FROM cart_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.user_id = $1
		ORDER BY ci.position`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`

	insertCartLineSQL = `INSERT INTO cart_items (user_id, item_id, quantity, position)
		VALUES ($1, $2, $3, $4)`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ user.Directory = (*UserRepository)(nil)

// UserRepository implements user.Directory backed by PostgreSQL. Users are
// always loaded together with their current cart lines.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByUsername resolves a username to the user and its cart.
// Returns user.ErrNotFound when the username does not exist.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, getUserByUsernameSQL, username)
}

// FindByID resolves a user ID to the user and its cart.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, getUserByIDSQL, id)
}

func (r *UserRepository) findOne(ctx context.Context, sql, arg string) (*user.User, error) {
	q := querier(ctx, r.pool)

	var u user.User
	err := q.QueryRow(ctx, sql, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}

	lines, err := r.loadCartLines(ctx, q, u.ID)
	if err != nil {
		return nil, err
	}
	u.Cart = cart.Cart{UserID: u.ID, Lines: lines}
	return &u, nil
}

func (r *UserRepository) loadCartLines(ctx context.Context, q Querier, userID string) ([]cart.Line, error) {
	rows, err := q.Query(ctx, getCartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("loading cart for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Line, error) {
		var (
			it item.Item
			l  cart.Line
		)
		if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &l.Quantity); err != nil {
			return l, err
		}
		l.Item = it
		return l, nil
	})
}

// Create persists a new user with an empty cart. Returns user.ErrUsernameTaken
// when the username is already in use.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := querier(ctx, r.pool).Exec(ctx, createUserSQL,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	return nil
}

// SaveCart replaces the stored cart lines with the cart's in-memory state.
// An emptied cart simply deletes all rows.
func (r *UserRepository) SaveCart(ctx context.Context, c *cart.Cart) error {
	q := querier(ctx, r.pool)

	if _, err := q.Exec(ctx, clearCartSQL, c.UserID); err != nil {
		return fmt.Errorf("clearing cart for user %q: %w", c.UserID, err)
	}
	for pos, l := range c.Lines {
		if _, err := q.Exec(ctx, insertCartLineSQL, c.UserID, l.Item.ID, l.Quantity, pos); err != nil {
			return fmt.Errorf("saving cart line %d for user %q: %w", pos, c.UserID, err)
		}
	}
	return nil
}
