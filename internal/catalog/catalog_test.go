package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/domain"
)

type stubProductStore struct {
	products map[uuid.UUID]*domain.Product
	saveErr  error
}

var _ ProductStore = (*stubProductStore)(nil)

func newStubProductStore() *stubProductStore {
	return &stubProductStore{products: make(map[uuid.UUID]*domain.Product)}
}

func (s *stubProductStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductStore) FindByKey(_ context.Context, key string) (*domain.Product, error) {
	for _, p := range s.products {
		if strings.EqualFold(p.SKU, key) {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductStore) List(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductStore) Save(_ context.Context, p *domain.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, other := range s.products {
		if other.ID != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicateKey
		}
	}
	s.products[p.ID] = p
	return nil
}

func (s *stubProductStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductStore) ExistsByCategory(_ context.Context, categoryID uuid.UUID) (bool, error) {
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type stubCategoryStore struct {
	categories map[uuid.UUID]*domain.Category
}

var _ CategoryStore = (*stubCategoryStore)(nil)

func newStubCategoryStore() *stubCategoryStore {
	return &stubCategoryStore{categories: make(map[uuid.UUID]*domain.Category)}
}

func (s *stubCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) FindByKey(ctx context.Context, key string) (*domain.Category, error) {
	return s.FindByCode(ctx, key)
}

func (s *stubCategoryStore) FindByCode(_ context.Context, code string) (*domain.Category, error) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryStore) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCategoryStore) Save(_ context.Context, c *domain.Category) error {
	for _, other := range s.categories {
		if other.ID != c.ID && strings.EqualFold(other.Code, c.Code) {
			return domain.ErrDuplicateKey
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *stubCategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

type stubAuthority struct {
	publish bool
}

func (a stubAuthority) CanPublish() bool { return a.publish }

type fixture struct {
	products   *stubProductStore
	categories *stubCategoryStore
	service    *ProductService
	beverages  *domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := newStubProductStore()
	categories := newStubCategoryStore()
	beverages := seedCategory(t, categories, "Beverages", "BEV")
	return &fixture{
		products:   products,
		categories: categories,
		service:    NewProductService(products, categories),
		beverages:  beverages,
	}
}

func seedCategory(t *testing.T, store *stubCategoryStore, name, code string) *domain.Category {
	t.Helper()
	category := domain.NewCategory()
	category.Name = name
	category.Code = code
	if err := store.Save(context.Background(), category); err != nil {
		t.Fatalf("seed category %s: %v", code, err)
	}
	return category
}

func (f *fixture) createProduct(t *testing.T, raw RawInput) *domain.Product {
	t.Helper()
	product, err := f.service.Create(context.Background(), raw, "Alice")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func espressoInput() RawInput {
	return RawInput{
		"name":     "Organic Espresso Beans (500g)",
		"sku":      "esp-500",
		"category": "BEV",
		"price":    12.5,
	}
}

func assertValidation(t *testing.T, err error, wantMessage string) {
	t.Helper()
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *domain.ValidationError
	errors.As(err, &ve)
	if wantMessage != "" && ve.Message != wantMessage {
		t.Fatalf("expected message %q, got %q", wantMessage, ve.Message)
	}
}
