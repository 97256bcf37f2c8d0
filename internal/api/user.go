package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/sareeta/commerce/internal/domain/user"
)

// createUserRequest is the signup payload. The password is write-only: no
// response ever echoes it or its hash.
type createUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userView struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Cart     cartView `json:"cart"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:       u.ID,
		Username: u.Username,
		Cart:     toCartView(&u.Cart),
	}
}

// createUser handles POST /api/user/create.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "username required")
		return
	}
	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	u, err := user.New(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrWeakPassword) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(w, r, err)
		return
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			respondError(w, http.StatusBadRequest, "username already taken")
			return
		}
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserView(u))
}

// userByUsername handles GET /api/user/{username}.
func (h *Handler) userByUsername(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(u))
}

// userByID handles GET /api/user/id/{id}.
func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondNotFound(w)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(u))
}
