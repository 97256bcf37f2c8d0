package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sareeta/commerce/internal/domain/cart"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 7

// Sentinel errors for user resolution and creation.
var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrWeakPassword  = errors.Errorf("password must be at least %d characters", MinPasswordLength)
)

// User owns exactly one Cart, created with the user and living as long as the
// user does. Orders reference the user by ID only; the user does not hold them.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Cart         cart.Cart
	CreatedAt    time.Time
}

// New builds a user with a fresh ID, a bcrypt-hashed password, and an empty
// cart. The raw password is never retained.
func New(username, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	id := uuid.New().String()
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Cart:         cart.Cart{UserID: id},
	}, nil
}

// Directory resolves and persists users. FindByUsername and FindByID load the
// user together with its current cart lines.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// Create persists a new user and its empty cart. Returns ErrUsernameTaken
	// when the username is already in use.
	Create(ctx context.Context, u *User) error
	// SaveCart replaces the stored cart lines with the in-memory ones. The
	// cart is the only mutable part of a user, so saving a user means saving
	// its cart.
	SaveCart(ctx context.Context, c *cart.Cart) error
}
