package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/sareeta/commerce/internal/domain/order"
	"github.com/sareeta/commerce/internal/domain/user"
)

// orderView is the JSON representation of an order. Items carry the full
// snapshot, flattened to one entry per unit, exactly as the order froze them.
type orderView struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId"`
	Items  []itemView `json:"items"`
	Total  float64    `json:"total"`
}

func toOrderView(o *order.Order) orderView {
	items := make([]itemView, len(o.Items))
	for i, it := range o.Items {
		items[i] = toItemView(it)
	}
	return orderView{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  items,
		Total:  o.Total.InexactFloat64(),
	}
}

// submitOrder handles POST /api/order/submit/{username}.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	o, err := h.orders.Submit(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderView(o))
}

// orderHistory handles GET /api/order/history/{username}.
func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	orders, err := h.orders.History(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = toOrderView(&orders[i])
	}
	respondJSON(w, http.StatusOK, views)
}
