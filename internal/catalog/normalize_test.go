package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/smartpos/backoffice/internal/domain"
)

func TestNormalizeProductCoercions(t *testing.T) {
	f := newFixture(t)
	resolve := NewCategoryResolver(f.categories).Resolve

	patch, err := normalizeProduct(context.Background(), RawInput{
		"name":         "  Organic Espresso Beans (500g)  ",
		"sku":          "  esp-500 ",
		"category":     "bev",
		"price":        "12.50",
		"cost":         -3,
		"stock":        "41.6",
		"reorderLevel": "not a number",
		"tags":         " coffee , beans,coffee, ,organic ",
		"isActive":     "No",
	}, NormalizeOptions{}, resolve)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if got := *patch.Name; got != "Organic Espresso Beans (500g)" {
		t.Errorf("name not trimmed: %q", got)
	}
	if got := *patch.SKU; got != "ESP-500" {
		t.Errorf("sku not upper-cased: %q", got)
	}
	if *patch.CategoryID != f.beverages.ID {
		t.Errorf("category code did not resolve")
	}
	if *patch.Price != 12.5 {
		t.Errorf("price = %v, want 12.5", *patch.Price)
	}
	if *patch.Cost != 0 {
		t.Errorf("negative cost not clamped: %v", *patch.Cost)
	}
	if *patch.Stock != 42 {
		t.Errorf("stock not rounded: %v", *patch.Stock)
	}
	if *patch.ReorderLevel != 5 {
		t.Errorf("unparseable reorderLevel should default to 5, got %v", *patch.ReorderLevel)
	}
	if want := []string{"coffee", "beans", "organic"}; !reflect.DeepEqual(*patch.Tags, want) {
		t.Errorf("tags = %v, want %v", *patch.Tags, want)
	}
	if *patch.IsActive {
		t.Errorf(`isActive "No" should normalize to false`)
	}
}

func TestNormalizeStatusRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	resolve := NewCategoryResolver(f.categories).Resolve

	patch, err := normalizeProduct(context.Background(), RawInput{"status": "published"}, NormalizeOptions{}, resolve)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, ok := patch.Status(); ok {
		t.Fatalf("status should be dropped without AllowStatus")
	}

	patch, err = normalizeProduct(context.Background(), RawInput{"status": "PUBLISHED"}, NormalizeOptions{AllowStatus: true}, resolve)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if status, ok := patch.Status(); !ok || status != domain.StatusPublished {
		t.Fatalf("status = %v (%v), want published", status, ok)
	}

	patch, err = normalizeProduct(context.Background(), RawInput{"status": "archived"}, NormalizeOptions{AllowStatus: true}, resolve)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if status, _ := patch.Status(); status != domain.StatusDraft {
		t.Fatalf("unknown status should collapse to draft, got %v", status)
	}
}

func TestNormalizeUnknownCategoryFails(t *testing.T) {
	f := newFixture(t)
	resolve := NewCategoryResolver(f.categories).Resolve

	_, err := normalizeProduct(context.Background(), RawInput{"category": "SNACKS"}, NormalizeOptions{}, resolve)
	assertValidation(t, err, "Invalid category.")
}

func TestNormalizeSEOSlug(t *testing.T) {
	seo := normSEO(map[string]any{
		"title":    "Coffee & Beans!",
		"keywords": "coffee, beans",
	})
	if seo.Slug != "coffee-beans" {
		t.Errorf("slug = %q, want coffee-beans", seo.Slug)
	}

	seo = normSEO(map[string]any{"title": "Coffee", "slug": "Custom Slug Here"})
	if seo.Slug != "custom-slug-here" {
		t.Errorf("explicit slug should be re-slugified, got %q", seo.Slug)
	}
}

func TestNormalizeImageMimeAllowList(t *testing.T) {
	image := normImage(map[string]any{"original": "a.png", "mimeType": "IMAGE/PNG", "width": "120"})
	if image.MimeType != "image/png" {
		t.Errorf("mimeType = %q, want image/png", image.MimeType)
	}
	if image.Width != 120 {
		t.Errorf("width = %d, want 120", image.Width)
	}

	image = normImage(map[string]any{"mimeType": "application/pdf"})
	if image.MimeType != "" {
		t.Errorf("disallowed mime type should be cleared, got %q", image.MimeType)
	}
}

func TestValidateCreateRequiredFields(t *testing.T) {
	patch := &ProductPatch{}
	assertValidation(t, patch.ValidateCreate(), "Product name, SKU, category and price are required.")

	zero := 0.0
	f := newFixture(t)
	patch = &ProductPatch{
		Name:       stringPtr("Water"),
		SKU:        stringPtr("WAT-1"),
		CategoryID: &f.beverages.ID,
		Price:      &zero,
	}
	if err := patch.ValidateCreate(); err != nil {
		t.Fatalf("zero price should be accepted when present: %v", err)
	}

	categoryPatch := &CategoryPatch{Name: stringPtr("Beverages")}
	assertValidation(t, categoryPatch.ValidateCreate(), "Category name and code are required.")
}
