package catalog

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/smartpos/backoffice/internal/domain"
)

// ProductPatch is a normalized partial product update. Nil fields were absent
// from the input and are never applied.
type ProductPatch struct {
	Name         *string
	SKU          *string
	CategoryID   *uuid.UUID
	Price        *float64
	Cost         *float64
	Stock        *int
	ReorderLevel *int
	Unit         *string
	Description  *string
	Barcode      *string
	Tags         *[]string
	SEO          *domain.SEO
	Image        *domain.Image
	StatusValue  *domain.Status
	IsActive     *bool
}

func (p *ProductPatch) Apply(product *domain.Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Cost != nil {
		product.Cost = *p.Cost
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.ReorderLevel != nil {
		product.ReorderLevel = *p.ReorderLevel
	}
	if p.Unit != nil {
		product.Unit = *p.Unit
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Barcode != nil {
		product.Barcode = *p.Barcode
	}
	if p.Tags != nil {
		product.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.SEO != nil {
		product.SEO = *p.SEO
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.StatusValue != nil {
		product.Status = *p.StatusValue
	}
	if p.IsActive != nil {
		product.IsActive = *p.IsActive
	}
}

func (p *ProductPatch) Key() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

func (p *ProductPatch) Status() (domain.Status, bool) {
	if p.StatusValue == nil {
		return "", false
	}
	return *p.StatusValue, true
}

// ValidateCreate enforces the required product fields. Price counts as
// provided even when zero; only its absence fails.
func (p *ProductPatch) ValidateCreate() error {
	if p.Name == nil || *p.Name == "" ||
		p.SKU == nil || *p.SKU == "" ||
		p.CategoryID == nil ||
		p.Price == nil {
		return domain.Validationf("Product name, SKU, category and price are required.")
	}
	return nil
}

// CategoryPatch is a normalized partial category update.
type CategoryPatch struct {
	Name         *string
	Code         *string
	Description  *string
	DisplayOrder *int
	SEO          *domain.SEO
	Image        *domain.Image
	StatusValue  *domain.Status
	IsActive     *bool
}

func (p *CategoryPatch) Apply(category *domain.Category) {
	if p.Name != nil {
		category.Name = *p.Name
	}
	if p.Code != nil {
		category.Code = *p.Code
	}
	if p.Description != nil {
		category.Description = *p.Description
	}
	if p.DisplayOrder != nil {
		category.DisplayOrder = *p.DisplayOrder
	}
	if p.SEO != nil {
		category.SEO = *p.SEO
	}
	if p.Image != nil {
		category.Image = *p.Image
	}
	if p.StatusValue != nil {
		category.Status = *p.StatusValue
	}
	if p.IsActive != nil {
		category.IsActive = *p.IsActive
	}
}

func (p *CategoryPatch) Key() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

func (p *CategoryPatch) Status() (domain.Status, bool) {
	if p.StatusValue == nil {
		return "", false
	}
	return *p.StatusValue, true
}

func (p *CategoryPatch) ValidateCreate() error {
	if p.Name == nil || *p.Name == "" || p.Code == nil || *p.Code == "" {
		return domain.Validationf("Category name and code are required.")
	}
	return nil
}

// normalizeProduct coerces a raw product payload into a patch. resolve maps a
// category reference (id, code, or name) to a category id; it is either
// repository-backed for single writes or a per-batch lookup for bulk paths.
func normalizeProduct(ctx context.Context, raw RawInput, opts NormalizeOptions, resolve resolveFunc) (*ProductPatch, error) {
	patch := &ProductPatch{}
	if v, ok := raw["name"]; ok {
		patch.Name = stringPtr(normString(v))
	}
	if v, ok := raw["sku"]; ok {
		patch.SKU = stringPtr(strings.ToUpper(normString(v)))
	}
	if v, ok := raw["category"]; ok {
		ref := normString(v)
		id, err := resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		if id == uuid.Nil {
			return nil, domain.Validationf("Invalid category.")
		}
		patch.CategoryID = &id
	}
	if v, ok := raw["price"]; ok {
		patch.Price = float64Ptr(normNumber(v, 0))
	}
	if v, ok := raw["cost"]; ok {
		patch.Cost = float64Ptr(normNumber(v, 0))
	}
	if v, ok := raw["stock"]; ok {
		patch.Stock = intPtr(normInt(v, 0))
	}
	if v, ok := raw["reorderLevel"]; ok {
		patch.ReorderLevel = intPtr(normInt(v, 5))
	}
	if v, ok := raw["unit"]; ok {
		patch.Unit = stringPtr(normString(v))
	}
	if v, ok := raw["description"]; ok {
		patch.Description = stringPtr(normString(v))
	}
	if v, ok := raw["barcode"]; ok {
		patch.Barcode = stringPtr(normString(v))
	}
	if v, ok := raw["tags"]; ok {
		tags := normList(v)
		patch.Tags = &tags
	}
	if v, ok := raw["seo"]; ok {
		seo := normSEO(v)
		patch.SEO = &seo
	}
	if v, ok := raw["image"]; ok {
		image := normImage(v)
		patch.Image = &image
	}
	if v, ok := raw["status"]; ok && opts.AllowStatus {
		status := domain.ParseStatus(cast.ToString(v))
		patch.StatusValue = &status
	}
	if v, ok := raw["isActive"]; ok {
		patch.IsActive = boolPtr(normBool(v, true))
	}
	return patch, nil
}

// normalizeCategory coerces a raw category payload into a patch.
func normalizeCategory(raw RawInput, opts NormalizeOptions) *CategoryPatch {
	patch := &CategoryPatch{}
	if v, ok := raw["name"]; ok {
		patch.Name = stringPtr(normString(v))
	}
	if v, ok := raw["code"]; ok {
		patch.Code = stringPtr(strings.ToUpper(normString(v)))
	}
	if v, ok := raw["description"]; ok {
		patch.Description = stringPtr(normString(v))
	}
	if v, ok := raw["displayOrder"]; ok {
		patch.DisplayOrder = intPtr(normInt(v, 0))
	}
	if v, ok := raw["seo"]; ok {
		seo := normSEO(v)
		patch.SEO = &seo
	}
	if v, ok := raw["image"]; ok {
		image := normImage(v)
		patch.Image = &image
	}
	if v, ok := raw["status"]; ok && opts.AllowStatus {
		status := domain.ParseStatus(cast.ToString(v))
		patch.StatusValue = &status
	}
	if v, ok := raw["isActive"]; ok {
		patch.IsActive = boolPtr(normBool(v, true))
	}
	return patch
}

func normString(v any) string {
	return strings.TrimSpace(cast.ToString(v))
}

// normNumber coerces to a non-negative float, falling back to def on
// unparseable, NaN, or infinite input.
func normNumber(v any, def float64) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = def
	}
	if f < 0 {
		return 0
	}
	return f
}

// normInt coerces to a non-negative integer, rounding fractional input.
func normInt(v any, def int) int {
	return int(math.Round(normNumber(v, float64(def))))
}

// normBool accepts booleans and the usual string spellings; anything else
// falls back to def.
func normBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(normString(v)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n":
		return false
	}
	return def
}

// normList accepts an array or a comma-separated string, trims entries, drops
// empties, and dedupes preserving first occurrence.
func normList(v any) []string {
	var parts []string
	switch value := v.(type) {
	case string:
		parts = strings.Split(value, ",")
	default:
		coerced, err := cast.ToStringSliceE(v)
		if err != nil {
			return []string{}
		}
		parts = coerced
	}
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// normSEO normalizes the seo sub-document. An explicit slug is re-slugified;
// a missing slug is derived from the title when one is present. Name-based
// fallbacks happen later via EnsureDefaults.
func normSEO(v any) domain.SEO {
	m := cast.ToStringMap(v)
	seo := domain.SEO{
		Title:       normString(m["title"]),
		Description: normString(m["description"]),
		Keywords:    normList(m["keywords"]),
	}
	if slug := normString(m["slug"]); slug != "" {
		seo.Slug = domain.Slugify(slug)
	} else if seo.Title != "" {
		seo.Slug = domain.Slugify(seo.Title)
	}
	return seo
}

// normImage normalizes the image sub-document. Mime types outside the
// allow-list are cleared rather than rejected.
func normImage(v any) domain.Image {
	m := cast.ToStringMap(v)
	image := domain.Image{
		Original:  normString(m["original"]),
		Thumbnail: normString(m["thumbnail"]),
		AltText:   normString(m["altText"]),
		Width:     normInt(m["width"], 0),
		Height:    normInt(m["height"], 0),
		Size:      normInt(m["size"], 0),
	}
	if mime := normString(m["mimeType"]); domain.AllowedImageMimeType(mime) {
		image.MimeType = strings.ToLower(mime)
	}
	return image
}

func stringPtr(s string) *string    { return &s }
func intPtr(i int) *int             { return &i }
func float64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool          { return &b }
