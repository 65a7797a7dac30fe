package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/domain"
)

// resolveFunc maps a category reference to its id. It returns uuid.Nil when
// the reference does not resolve; a non-nil error means storage failed.
type resolveFunc func(ctx context.Context, ref string) (uuid.UUID, error)

// CategoryResolver resolves loose category references (id, code, or name, in
// that order) against the category store.
type CategoryResolver struct {
	categories CategoryStore
}

func NewCategoryResolver(categories CategoryStore) *CategoryResolver {
	return &CategoryResolver{categories: categories}
}

// Resolve looks up one reference with per-call store queries. Batch paths
// should build a Lookup instead.
func (r *CategoryResolver) Resolve(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return uuid.Nil, nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		category, err := r.categories.FindByID(ctx, id)
		if err == nil {
			return category.ID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	category, err := r.categories.FindByCode(ctx, strings.ToUpper(ref))
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, err
	}
	category, err = r.categories.FindByName(ctx, ref)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, err
	}
	return uuid.Nil, nil
}

// Lookup loads every category once and returns an in-memory index for batch
// resolution.
func (r *CategoryResolver) Lookup(ctx context.Context) (*CategoryLookup, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	lookup := &CategoryLookup{
		byID:   make(map[uuid.UUID]uuid.UUID, len(categories)),
		byCode: make(map[string]uuid.UUID, len(categories)),
		byName: make(map[string]uuid.UUID, len(categories)),
	}
	for _, category := range categories {
		lookup.byID[category.ID] = category.ID
		lookup.byCode[strings.ToUpper(category.Code)] = category.ID
		lookup.byName[strings.ToLower(category.Name)] = category.ID
	}
	return lookup, nil
}

// CategoryLookup is a point-in-time category index keyed by id, code, and
// lower-cased name.
type CategoryLookup struct {
	byID   map[uuid.UUID]uuid.UUID
	byCode map[string]uuid.UUID
	byName map[string]uuid.UUID
}

// Resolve mirrors CategoryResolver.Resolve against the index.
func (l *CategoryLookup) Resolve(ref string) uuid.UUID {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		if resolved, ok := l.byID[id]; ok {
			return resolved
		}
	}
	if resolved, ok := l.byCode[strings.ToUpper(ref)]; ok {
		return resolved
	}
	if resolved, ok := l.byName[strings.ToLower(ref)]; ok {
		return resolved
	}
	return uuid.Nil
}

// ResolveColumns resolves the three import columns in precedence order:
// explicit id, then code, then name. The second return reports whether any
// column carried a value.
func (l *CategoryLookup) ResolveColumns(id, code, name string) (uuid.UUID, bool) {
	provided := false
	for _, ref := range []string{id, code, name} {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		provided = true
		if resolved := l.Resolve(ref); resolved != uuid.Nil {
			return resolved, true
		}
	}
	return uuid.Nil, provided
}

func (l *CategoryLookup) resolveFunc() resolveFunc {
	return func(_ context.Context, ref string) (uuid.UUID, error) {
		return l.Resolve(ref), nil
	}
}
