package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/sareeta/commerce/internal/domain/cart"
	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/user"
)

// modifyCartRequest is the payload for both cart add and cart remove.
type modifyCartRequest struct {
	Username string `json:"username"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type cartLineView struct {
	Item     itemView `json:"item"`
	Quantity int      `json:"quantity"`
}

type cartView struct {
	UserID string         `json:"userId"`
	Lines  []cartLineView `json:"lines"`
	Total  float64        `json:"total"`
}

func toCartView(c *cart.Cart) cartView {
	lines := make([]cartLineView, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = cartLineView{Item: toItemView(l.Item), Quantity: l.Quantity}
	}
	return cartView{
		UserID: c.UserID,
		Lines:  lines,
		Total:  c.Total().InexactFloat64(),
	}
}

// addToCart handles POST /api/cart/add.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.modifyCart(w, r, func(c *cart.Cart, it item.Item, quantity int) error {
		return c.Add(it, quantity)
	})
}

// removeFromCart handles POST /api/cart/remove.
func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.modifyCart(w, r, func(c *cart.Cart, it item.Item, quantity int) error {
		return c.Remove(it.ID, quantity)
	})
}

// modifyCart resolves the user and item, applies the mutation, and persists
// the cart inside one transaction so a concurrent submit can never see a
// half-applied change.
func (h *Handler) modifyCart(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(c *cart.Cart, it item.Item, quantity int) error,
) {
	var req modifyCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	var updated *cart.Cart
	err := h.tx.WithinTx(r.Context(), func(ctx context.Context) error {
		u, err := h.users.FindByUsername(ctx, req.Username)
		if err != nil {
			return errors.Wrapf(err, "resolve user %q", req.Username)
		}
		it, err := h.items.GetByID(ctx, req.ItemID)
		if err != nil {
			return errors.Wrapf(err, "resolve item %q", req.ItemID)
		}
		if err := mutate(&u.Cart, *it, req.Quantity); err != nil {
			return err
		}
		if err := h.users.SaveCart(ctx, &u.Cart); err != nil {
			return errors.Wrapf(err, "save cart for user %q", req.Username)
		}
		updated = &u.Cart
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound), errors.Is(err, item.ErrNotFound):
			respondNotFound(w)
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, toCartView(updated))
}
