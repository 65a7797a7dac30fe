package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/auth"
	"github.com/smartpos/backoffice/internal/domain"
)

// UserDirectory resolves request credentials to a back-office account.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ResolveActor resolves request credentials to an actor and stores it on the
// context. A bearer token carries a base64 "userID:secret" pair; the X-User-Id
// header is accepted as a fallback. Unknown or missing credentials resolve to
// Anonymous; the permission gates decide what that actor may do.
func ResolveActor(users UserDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := auth.Anonymous
			if id, ok := requestUserID(r); ok {
				user, err := users.FindByID(r.Context(), id)
				switch {
				case err == nil:
					actor = auth.Actor{
						ID:    user.ID.String(),
						Name:  user.Name,
						Email: user.Email,
						Role:  auth.Role(user.Role),
					}
				case errors.Is(err, domain.ErrNotFound):
					// Unknown account stays anonymous.
				default:
					log.Printf("[auth] resolve %s: %v", id, err)
				}
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithActor(r.Context(), actor)))
		})
	}
}

// requestUserID extracts the user id from the Authorization bearer token or
// the X-User-Id header. Malformed credentials are treated as absent.
func requestUserID(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-User-Id")
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if decoded, err := base64.StdEncoding.DecodeString(token); err == nil {
			if id, _, _ := strings.Cut(string(decoded), ":"); id != "" {
				raw = id
			}
		}
	}
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequirePermission rejects the request with 403 unless the actor's role
// carries the permission.
func RequirePermission(permission auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := auth.ActorFromContext(r.Context())
			if !actor.Role.Has(permission) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Permission denied for " + string(permission) + ".",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
