package httpapi

import (
	"context"
	"net/http"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/domain"
)

// UserLister lists back-office accounts for the settings screen.
type UserLister interface {
	List(ctx context.Context) ([]*domain.User, error)
}

type UserHandler struct {
	users UserLister
}

func NewUserHandler(users UserLister) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Session returns the resolved actor and its effective permissions.
func (h *UserHandler) Session(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          actor.ID,
		"name":        actor.DisplayName(),
		"email":       actor.Email,
		"role":        actor.Role,
		"permissions": actor.Role.Permissions(),
	})
}
