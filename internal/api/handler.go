// Package api exposes the HTTP surface of the commerce service.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/order"
	"github.com/sareeta/commerce/internal/domain/user"
)

// Tx runs a callback inside a single transaction. Cart mutations use it so a
// concurrent submit can never interleave with an add or remove.
type Tx interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Handler holds the HTTP handlers for every route, delegating business logic
// to the injected domain collaborators.
type Handler struct {
	orders *order.Service
	users  user.Directory
	items  item.Repository
	tx     Tx
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(orders *order.Service, users user.Directory, items item.Repository, tx Tx) *Handler {
	return &Handler{
		orders: orders,
		users:  users,
		items:  items,
		tx:     tx,
	}
}

// Routes builds the full router. All routes live under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/order", func(r chi.Router) {
			r.Post("/submit/{username}", h.submitOrder)
			r.Get("/history/{username}", h.orderHistory)
		})
		r.Route("/user", func(r chi.Router) {
			r.Post("/create", h.createUser)
			r.Get("/id/{id}", h.userByID)
			r.Get("/{username}", h.userByUsername)
		})
		r.Route("/item", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Get("/name/{name}", h.itemsByName)
			r.Get("/{id}", h.itemByID)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Post("/add", h.addToCart)
			r.Post("/remove", h.removeFromCart)
		})
	})
	return r
}

// errorBody is the JSON shape for 4xx/5xx responses that carry a body.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Code: status, Message: message})
}

// respondNotFound writes a bare 404 with an empty body, matching the
// behaviour callers of this API have always depended on.
func respondNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

// respondInternal logs the error and answers 500 without leaking details.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
