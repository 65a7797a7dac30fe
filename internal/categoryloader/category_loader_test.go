package categoryloader

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/domain"
)

type stubCategoryStore struct {
	categories []*domain.Category
	listCalls  int
}

var _ catalog.CategoryStore = (*stubCategoryStore)(nil)

func (s *stubCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) FindByKey(_ context.Context, key string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Code == key {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) FindByCode(ctx context.Context, code string) (*domain.Category, error) {
	return s.FindByKey(ctx, code)
}

func (s *stubCategoryStore) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) List(_ context.Context) ([]*domain.Category, error) {
	s.listCalls++
	return s.categories, nil
}

func (s *stubCategoryStore) Save(_ context.Context, _ *domain.Category) error { return nil }

func (s *stubCategoryStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func seededStore() (*stubCategoryStore, *domain.Category) {
	category := domain.NewCategory()
	category.Name = "Beverages"
	category.Code = "BEV"
	return &stubCategoryStore{categories: []*domain.Category{category}}, category
}

func TestLoaderResolvesKnownCategory(t *testing.T) {
	store, category := seededStore()
	loader := NewCategoryLoader(store)

	got, err := loader.Get(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Code != "BEV" {
		t.Fatalf("resolved category = %+v", got)
	}
}

func TestLoaderReturnsNilForDanglingReference(t *testing.T) {
	store, _ := seededStore()
	loader := NewCategoryLoader(store)

	got, err := loader.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("dangling reference should resolve to nil, got %+v", got)
	}
}

func TestBatchIsolatesMalformedKeys(t *testing.T) {
	store, category := seededStore()
	loader := NewCategoryLoader(store)

	ctx := context.Background()
	badThunk := loader.Loader.Load(ctx, dataloader.StringKey("not-a-uuid"))
	goodThunk := loader.Loader.Load(ctx, dataloader.StringKey(category.ID.String()))

	if _, err := badThunk(); err == nil {
		t.Fatalf("malformed key should error")
	}
	value, err := goodThunk()
	if err != nil {
		t.Fatalf("valid key in the same batch must still resolve: %v", err)
	}
	got, ok := value.(*domain.Category)
	if !ok || got.ID != category.ID {
		t.Fatalf("resolved value = %#v", value)
	}
}

func TestBatchReadsStoreOnce(t *testing.T) {
	store, category := seededStore()
	loader := NewCategoryLoader(store)

	ctx := context.Background()
	first := loader.Loader.Load(ctx, dataloader.StringKey(category.ID.String()))
	second := loader.Loader.Load(ctx, dataloader.StringKey(uuid.New().String()))
	if _, err := first(); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := second(); err != nil {
		t.Fatalf("second: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("store reads = %d, want 1", store.listCalls)
	}
}
