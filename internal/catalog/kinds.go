package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/smartpos/backoffice/internal/domain"
)

// ProductService is the engine instantiated for products.
type ProductService = Service[domain.ProductSnapshot, *domain.Product]

// CategoryService is the engine instantiated for categories.
type CategoryService = Service[domain.CategorySnapshot, *domain.Category]

// NewProductService wires the product kind: category references resolve
// through the category store, and batches resolve against a lookup built once
// per batch.
func NewProductService(products ProductStore, categories CategoryStore) *ProductService {
	resolver := NewCategoryResolver(categories)
	cfg := Config[domain.ProductSnapshot, *domain.Product]{
		Label:    "Product",
		KeyLabel: "SKU",
		New:      domain.NewProduct,
		Normalize: func(ctx context.Context, raw RawInput, opts NormalizeOptions) (Patch[*domain.Product], error) {
			return normalizeProduct(ctx, raw, opts, resolver.Resolve)
		},
		PrepareBatch: func(ctx context.Context) (*BatchPipeline[*domain.Product], error) {
			lookup, err := resolver.Lookup(ctx)
			if err != nil {
				return nil, err
			}
			return &BatchPipeline[*domain.Product]{
				MapRow: mapProductRow(lookup),
				Normalize: func(ctx context.Context, raw RawInput, opts NormalizeOptions) (Patch[*domain.Product], error) {
					return normalizeProduct(ctx, raw, opts, lookup.resolveFunc())
				},
			}, nil
		},
	}
	return NewService[domain.ProductSnapshot](products, cfg)
}

// NewCategoryService wires the category kind. Deletion is vetoed while any
// product still references the category.
func NewCategoryService(categories CategoryStore, products ProductStore) *CategoryService {
	cfg := Config[domain.CategorySnapshot, *domain.Category]{
		Label:    "Category",
		KeyLabel: "code",
		New:      domain.NewCategory,
		Normalize: func(_ context.Context, raw RawInput, opts NormalizeOptions) (Patch[*domain.Category], error) {
			return normalizeCategory(raw, opts), nil
		},
		PrepareBatch: func(_ context.Context) (*BatchPipeline[*domain.Category], error) {
			return &BatchPipeline[*domain.Category]{
				MapRow: mapCategoryRow,
				Normalize: func(_ context.Context, raw RawInput, opts NormalizeOptions) (Patch[*domain.Category], error) {
					return normalizeCategory(raw, opts), nil
				},
			}, nil
		},
		BeforeDelete: func(ctx context.Context, category *domain.Category) error {
			inUse, err := products.ExistsByCategory(ctx, category.ID)
			if err != nil {
				return err
			}
			if inUse {
				return domain.Conflictf("Category is in use by existing products.")
			}
			return nil
		},
	}
	return NewService[domain.CategorySnapshot](categories, cfg)
}

var productRowFields = []string{
	"name", "sku", "price", "cost", "stock", "reorderLevel",
	"unit", "description", "barcode", "tags", "status", "isActive",
}

var categoryRowFields = []string{
	"name", "code", "description", "displayOrder", "status", "isActive",
}

// mapProductRow converts a tabular row into raw input. Empty cells are
// treated as absent so partial rows never blank existing fields. Category
// columns are resolved eagerly; an unresolvable reference fails the row.
func mapProductRow(lookup *CategoryLookup) func(cells map[string]string) (RawInput, error) {
	return func(cells map[string]string) (RawInput, error) {
		raw := rowFields(cells, productRowFields)
		id, provided := lookup.ResolveColumns(cells["categoryId"], cells["categoryCode"], cells["categoryName"])
		if provided {
			if id == uuid.Nil {
				return nil, domain.Validationf("Category not found for row.")
			}
			raw["category"] = id.String()
		}
		addSubDoc(raw, cells)
		return raw, nil
	}
}

func mapCategoryRow(cells map[string]string) (RawInput, error) {
	raw := rowFields(cells, categoryRowFields)
	addSubDoc(raw, cells)
	return raw, nil
}

func rowFields(cells map[string]string, fields []string) RawInput {
	raw := RawInput{}
	for _, field := range fields {
		if value := strings.TrimSpace(cells[field]); value != "" {
			raw[field] = value
		}
	}
	return raw
}

// addSubDoc folds the flattened seo*/image* columns back into sub-documents.
func addSubDoc(raw RawInput, cells map[string]string) {
	seo := map[string]any{}
	for column, field := range map[string]string{
		"seoTitle":       "title",
		"seoDescription": "description",
		"seoKeywords":    "keywords",
		"seoSlug":        "slug",
	} {
		if value := strings.TrimSpace(cells[column]); value != "" {
			seo[field] = value
		}
	}
	if len(seo) > 0 {
		raw["seo"] = seo
	}
	image := map[string]any{}
	for column, field := range map[string]string{
		"imageOriginal":  "original",
		"imageThumbnail": "thumbnail",
		"imageAltText":   "altText",
		"imageMimeType":  "mimeType",
		"imageWidth":     "width",
		"imageHeight":    "height",
		"imageSize":      "size",
	} {
		if value := strings.TrimSpace(cells[column]); value != "" {
			image[field] = value
		}
	}
	if len(image) > 0 {
		raw["image"] = image
	}
}
