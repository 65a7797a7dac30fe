package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/domain"
)

// BatchPipeline is the per-batch row machinery a kind provides: a column
// mapper for tabular rows and a normalize function bound to a lookup built
// once for the batch.
type BatchPipeline[E any] struct {
	MapRow    func(cells map[string]string) (RawInput, error)
	Normalize func(ctx context.Context, raw RawInput, opts NormalizeOptions) (Patch[E], error)
}

// Config wires one entity kind into the engine.
type Config[S any, E Entity[S]] struct {
	// Label names the kind in errors and logs ("Product", "Category").
	Label string
	// KeyLabel names the natural key in errors ("SKU", "code").
	KeyLabel     string
	New          func() E
	Normalize    func(ctx context.Context, raw RawInput, opts NormalizeOptions) (Patch[E], error)
	PrepareBatch func(ctx context.Context) (*BatchPipeline[E], error)
	// BeforeDelete vetoes deletion, e.g. when the entity is still referenced.
	BeforeDelete func(ctx context.Context, entity E) error
}

// Service drives the write lifecycle of one entity kind: normalize, apply,
// version, persist. All writes go through a single Save so every version
// append and field mutation land atomically.
type Service[S any, E Entity[S]] struct {
	cfg   Config[S, E]
	store Store[E]
	now   func() time.Time
}

func NewService[S any, E Entity[S]](store Store[E], cfg Config[S, E]) *Service[S, E] {
	return &Service[S, E]{cfg: cfg, store: store, now: time.Now}
}

// Create normalizes raw input into a new draft entity and records version 1.
// Status in the input is ignored; direct creates always start as drafts.
func (s *Service[S, E]) Create(ctx context.Context, raw RawInput, actor string) (E, error) {
	var zero E
	patch, err := s.cfg.Normalize(ctx, raw, NormalizeOptions{})
	if err != nil {
		return zero, err
	}
	if err := patch.ValidateCreate(); err != nil {
		return zero, err
	}
	now := s.now()
	entity := s.cfg.New()
	patch.Apply(entity)
	entity.EnsureDefaults()
	entity.Lifecycle().LastEditedBy = actor
	AppendVersion[S](entity, domain.ActionCreated, actor, "", now)
	entity.Touch(now)
	if err := s.save(ctx, entity, patch.Key()); err != nil {
		return zero, err
	}
	log.Printf("[catalog] created %s %s (%s)", strings.ToLower(s.cfg.Label), patch.Key(), entity.EntityID())
	return entity, nil
}

// Update applies a partial update and appends an updated version. An empty
// note is recorded as "manual save".
func (s *Service[S, E]) Update(ctx context.Context, id uuid.UUID, raw RawInput, actor, note string) (E, error) {
	var zero E
	entity, err := s.load(ctx, id)
	if err != nil {
		return zero, err
	}
	patch, err := s.cfg.Normalize(ctx, raw, NormalizeOptions{})
	if err != nil {
		return zero, err
	}
	now := s.now()
	patch.Apply(entity)
	entity.EnsureDefaults()
	entity.Lifecycle().LastEditedBy = actor
	if note == "" {
		note = "manual save"
	}
	AppendVersion[S](entity, domain.ActionUpdated, actor, note, now)
	entity.Touch(now)
	if err := s.save(ctx, entity, patch.Key()); err != nil {
		return zero, err
	}
	return entity, nil
}

// Publish transitions the entity to published and records the transition.
func (s *Service[S, E]) Publish(ctx context.Context, id uuid.UUID, actor, note string) (E, error) {
	var zero E
	entity, err := s.load(ctx, id)
	if err != nil {
		return zero, err
	}
	now := s.now()
	Publish[S](entity, actor, note, now)
	entity.Touch(now)
	if err := s.save(ctx, entity, entity.Key()); err != nil {
		return zero, err
	}
	log.Printf("[catalog] published %s %s", strings.ToLower(s.cfg.Label), entity.Key())
	return entity, nil
}

// ListVersions returns the entity's history newest-first, snapshots omitted.
func (s *Service[S, E]) ListVersions(ctx context.Context, id uuid.UUID) ([]domain.VersionInfo, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ListVersions[S](entity), nil
}

// Rollback restores the snapshot at version and appends a rollback entry on
// top. Publish provenance is not part of snapshots, so a rollback never
// rewrites publishedAt/publishedBy.
func (s *Service[S, E]) Rollback(ctx context.Context, id uuid.UUID, version int, actor string) (E, error) {
	var zero E
	entity, err := s.load(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := RestoreVersion[S](entity, version); err != nil {
		return zero, err
	}
	now := s.now()
	entity.EnsureDefaults()
	entity.Lifecycle().LastEditedBy = actor
	AppendVersion[S](entity, domain.ActionRollback, actor, fmt.Sprintf("Rolled back to version %d", version), now)
	entity.Touch(now)
	if err := s.save(ctx, entity, entity.Key()); err != nil {
		return zero, err
	}
	log.Printf("[catalog] rolled back %s %s to version %d", strings.ToLower(s.cfg.Label), entity.Key(), version)
	return entity, nil
}

// Delete removes the entity after the kind's referential check passes.
func (s *Service[S, E]) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if s.cfg.BeforeDelete != nil {
		if err := s.cfg.BeforeDelete(ctx, entity); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", strings.ToLower(s.cfg.Label), err)
	}
	log.Printf("[catalog] deleted %s %s", strings.ToLower(s.cfg.Label), entity.Key())
	return nil
}

// Get returns the entity by id.
func (s *Service[S, E]) Get(ctx context.Context, id uuid.UUID) (E, error) {
	return s.load(ctx, id)
}

// List returns every entity of the kind.
func (s *Service[S, E]) List(ctx context.Context) ([]E, error) {
	return s.store.List(ctx)
}

func (s *Service[S, E]) load(ctx context.Context, id uuid.UUID) (E, error) {
	var zero E
	entity, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, domain.NotFound(s.cfg.Label)
		}
		return zero, fmt.Errorf("load %s: %w", strings.ToLower(s.cfg.Label), err)
	}
	return entity, nil
}

// save persists the entity and maps storage sentinels to the caller-facing
// error taxonomy.
func (s *Service[S, E]) save(ctx context.Context, entity E, key string) error {
	err := s.store.Save(ctx, entity)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrDuplicateKey) {
		return domain.Validationf("A %s with this %s already exists.", strings.ToLower(s.cfg.Label), s.cfg.KeyLabel)
	}
	if errors.Is(err, domain.ErrStaleWrite) {
		return domain.Conflictf("%s was modified concurrently, please retry.", s.cfg.Label)
	}
	if key == "" {
		key = entity.EntityID().String()
	}
	return fmt.Errorf("save %s %s: %w", strings.ToLower(s.cfg.Label), key, err)
}
