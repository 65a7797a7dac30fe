// Package catalog implements the content-versioning and publish engine shared
// by products and categories: normalization of loosely-typed input, natural
// key and identifier resolution, an append-only version ledger with rollback,
// the draft/published lifecycle, and batch reconciliation of external rows.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/domain"
)

// Entity is the capability surface the engine needs from a catalog record.
// S is the kind-specific snapshot type captured into the version ledger.
type Entity[S any] interface {
	EntityID() uuid.UUID
	// Key returns the normalized natural key (SKU, category code).
	Key() string
	Lifecycle() *domain.PublishState
	History() *[]domain.VersionEntry[S]
	Capture() S
	Restore(S)
	// EnsureDefaults fills derivable blanks (SEO title/slug) without touching
	// explicit values.
	EnsureDefaults()
	Touch(now time.Time)
}

// Store is the generic document-store contract for one entity kind. Lookup
// misses return domain.ErrNotFound; Save reports natural-key collisions as
// domain.ErrDuplicateKey and lost optimistic races as domain.ErrStaleWrite.
type Store[E any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (E, error)
	FindByKey(ctx context.Context, key string) (E, error)
	List(ctx context.Context) ([]E, error)
	Save(ctx context.Context, entity E) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductStore adds the product-specific reads the engine needs.
type ProductStore interface {
	Store[*domain.Product]
	// ExistsByCategory reports whether any product references the category.
	ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// CategoryStore adds the lookups category references resolve through.
type CategoryStore interface {
	Store[*domain.Category]
	FindByCode(ctx context.Context, code string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
}

// RawInput is a loosely-typed external payload: a decoded JSON object, a bulk
// item, or a CSV row mapped to input keys. Only keys present in the map are
// applied downstream (partial-update semantics).
type RawInput map[string]any

// NormalizeOptions controls normalization per call site.
type NormalizeOptions struct {
	// AllowStatus admits the status field; it is set only when the caller
	// holds publish authority (bulk/import paths).
	AllowStatus bool
}

// Patch is a normalized partial update for one entity kind. Absent fields are
// never written.
type Patch[E any] interface {
	// Apply writes every present field onto the entity.
	Apply(entity E)
	// Key returns the normalized natural key, or "" when absent.
	Key() string
	// Status returns the requested lifecycle status when present.
	Status() (domain.Status, bool)
	// ValidateCreate checks the required fields for the create path.
	ValidateCreate() error
}

// Authority is the permission capability injected into batch reconciliation.
type Authority interface {
	CanPublish() bool
}
