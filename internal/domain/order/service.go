package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sareeta/commerce/internal/domain/user"
)

// Tx runs fn inside a single all-or-nothing transaction. Every repository
// call made with the context fn receives joins that transaction.
type Tx interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service orchestrates the cart-to-order transition and order-history reads.
// All collaborators are injected at construction; the service holds no state
// of its own, so a single instance serves concurrent requests.
type Service struct {
	users  user.Directory
	orders Store
	tx     Tx
}

// NewService creates an order Service with the required collaborators.
func NewService(users user.Directory, orders Store, tx Tx) *Service {
	return &Service{
		users:  users,
		orders: orders,
		tx:     tx,
	}
}

// Submit converts the named user's cart into a persisted order and empties
// the cart. Resolving the user, snapshotting, saving the order, and resetting
// the cart all run in one transaction: a failed save leaves the cart
// untouched, and no reader ever observes an emptied cart without its order.
//
// An unknown username fails with user.ErrNotFound before any mutation. An
// empty cart is not rejected; it yields a valid order with no items and a
// zero total.
func (s *Service) Submit(ctx context.Context, username string) (*Order, error) {
	var submitted *Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return errors.Wrapf(err, "resolve user %q", username)
		}

		items, total := u.Cart.Snapshot()
		o := &Order{
			ID:        uuid.New().String(),
			UserID:    u.ID,
			Items:     items,
			Total:     total,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return errors.Wrapf(err, "save order for user %q", username)
		}

		u.Cart.Reset()
		if err := s.users.SaveCart(ctx, &u.Cart); err != nil {
			return errors.Wrapf(err, "reset cart for user %q", username)
		}

		submitted = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

// History returns every order the named user has submitted, oldest first.
// It mutates nothing and is safe to call concurrently with submits.
func (s *Service) History(ctx context.Context, username string) ([]Order, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve user %q", username)
	}

	orders, err := s.orders.FindByUser(ctx, u.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "find orders for user %q", username)
	}
	return orders, nil
}
