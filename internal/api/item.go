package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/sareeta/commerce/internal/domain/item"
)

type itemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func toItemView(it item.Item) itemView {
	return itemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.InexactFloat64(),
	}
}

func toItemViews(items []item.Item) []itemView {
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = toItemView(it)
	}
	return views
}

// listItems handles GET /api/item.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemViews(items))
}

// itemByID handles GET /api/item/{id}.
func (h *Handler) itemByID(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemView(*it))
}

// itemsByName handles GET /api/item/name/{name}. Item names are not unique,
// so the response is a list; an unknown name is a 404.
func (h *Handler) itemsByName(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemViews(items))
}
