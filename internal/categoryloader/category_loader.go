// Package categoryloader batches category lookups so product listings resolve
// their category references with a single store read per request window.
package categoryloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/domain"
)

type CategoryLoader struct {
	Loader *dataloader.Loader
}

func NewCategoryLoader(categories catalog.CategoryStore) *CategoryLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		// The loader contract requires one result per key, in key order.
		results := make([]*dataloader.Result, len(keys))

		// One store read serves the whole batch.
		all, err := categories.List(ctx)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		categoryMap := make(map[uuid.UUID]*domain.Category, len(all))
		for _, c := range all {
			categoryMap[c.ID] = c
		}

		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				results[i] = &dataloader.Result{Error: fmt.Errorf("invalid category id %q: %w", k.String(), err)}
				continue
			}
			if c, ok := categoryMap[id]; ok {
				results[i] = &dataloader.Result{Data: c}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}

		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))

	return &CategoryLoader{Loader: loader}
}

// Get resolves one category id, or nil when the reference is dangling.
func (l *CategoryLoader) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	value, err := l.Loader.Load(ctx, dataloader.StringKey(id.String()))()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return value.(*domain.Category), nil
}
