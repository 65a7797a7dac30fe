package auth

import (
	"context"

	"github.com/smartpos/backoffice/internal/domain"
)

// Actor is the authenticated identity performing a mutation. It doubles as
// the permission capability object injected into the catalog services.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Anonymous is the fallback actor when no credentials resolve.
var Anonymous = Actor{Name: "Anonymous", Role: RoleViewer}

// DisplayName returns the name recorded as changedBy/lastEditedBy. An empty
// identity is recorded as "System".
func (a Actor) DisplayName() string {
	if a.Name == "" {
		return domain.SystemActor
	}
	return a.Name
}

func (a Actor) CanEdit() bool    { return a.Role.Has(PermContentEdit) }
func (a Actor) CanPublish() bool { return a.Role.Has(PermContentPublish) }
func (a Actor) CanImport() bool  { return a.Role.Has(PermContentImport) }
func (a Actor) CanDelete() bool  { return a.Role.Has(PermContentDelete) }

type contextKey string

const actorKey contextKey = "actor"

// ContextWithActor returns a context carrying the authenticated actor.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the authenticated actor, defaulting to Anonymous.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Anonymous
	}
	if actor, ok := ctx.Value(actorKey).(Actor); ok {
		return actor
	}
	return Anonymous
}
