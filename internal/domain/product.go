package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog item. The SKU is its natural key.
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	CategoryID   uuid.UUID `json:"category"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"`
	Stock        int       `json:"stock"`
	ReorderLevel int       `json:"reorderLevel"`
	Unit         string    `json:"unit"`
	Description  string    `json:"description"`
	Barcode      string    `json:"barcode"`
	Tags         []string  `json:"tags"`
	SEO          SEO       `json:"seo"`
	Image        Image     `json:"image"`
	PublishState

	VersionHistory []VersionEntry[ProductSnapshot] `json:"versionHistory"`
	CreatedAt      time.Time                       `json:"createdAt"`
	UpdatedAt      time.Time                       `json:"updatedAt"`

	// Revision is the storage optimistic-concurrency token. It never leaves
	// the repository layer.
	Revision int64 `json:"-"`
}

// ProductSnapshot is the fixed allow-list of product fields captured in a
// version entry. Publish provenance and the history itself are deliberately
// outside the list.
type ProductSnapshot struct {
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	CategoryID   uuid.UUID `json:"category"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"`
	Stock        int       `json:"stock"`
	ReorderLevel int       `json:"reorderLevel"`
	Unit         string    `json:"unit"`
	Description  string    `json:"description"`
	Barcode      string    `json:"barcode"`
	Tags         []string  `json:"tags"`
	SEO          SEO       `json:"seo"`
	Image        Image     `json:"image"`
	Status       Status    `json:"status"`
	IsActive     bool      `json:"isActive"`
}

// NewProduct returns a draft product with the model defaults.
func NewProduct() *Product {
	now := time.Now()
	return &Product{
		ID:           uuid.New(),
		ReorderLevel: 5,
		Unit:         "pcs",
		PublishState: PublishState{Status: StatusDraft, IsActive: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *Product) EntityID() uuid.UUID { return p.ID }

// Key returns the normalized natural key (upper-cased SKU).
func (p *Product) Key() string { return p.SKU }

func (p *Product) Lifecycle() *PublishState { return &p.PublishState }

func (p *Product) History() *[]VersionEntry[ProductSnapshot] { return &p.VersionHistory }

func (p *Product) Touch(now time.Time) { p.UpdatedAt = now }

// Capture copies the allow-listed fields into a snapshot.
func (p *Product) Capture() ProductSnapshot {
	return ProductSnapshot{
		Name:         p.Name,
		SKU:          p.SKU,
		CategoryID:   p.CategoryID,
		Price:        p.Price,
		Cost:         p.Cost,
		Stock:        p.Stock,
		ReorderLevel: p.ReorderLevel,
		Unit:         p.Unit,
		Description:  p.Description,
		Barcode:      p.Barcode,
		Tags:         append([]string(nil), p.Tags...),
		SEO:          copySEO(p.SEO),
		Image:        p.Image,
		Status:       p.Status,
		IsActive:     p.IsActive,
	}
}

// Restore writes every snapshot field back onto the product. Fields outside
// the allow-list, including publishedAt/publishedBy, are left untouched.
func (p *Product) Restore(s ProductSnapshot) {
	p.Name = s.Name
	p.SKU = s.SKU
	p.CategoryID = s.CategoryID
	p.Price = s.Price
	p.Cost = s.Cost
	p.Stock = s.Stock
	p.ReorderLevel = s.ReorderLevel
	p.Unit = s.Unit
	p.Description = s.Description
	p.Barcode = s.Barcode
	p.Tags = append([]string(nil), s.Tags...)
	p.SEO = copySEO(s.SEO)
	p.Image = s.Image
	p.Status = s.Status
	p.IsActive = s.IsActive
}

// EnsureDefaults fills empty SEO title/slug from the display name. Explicit
// values are never overwritten, so it is safe after every mutation.
func (p *Product) EnsureDefaults() {
	ensureSEODefaults(&p.SEO, p.Name)
}

func copySEO(s SEO) SEO {
	s.Keywords = append([]string(nil), s.Keywords...)
	return s
}

func ensureSEODefaults(seo *SEO, displayName string) {
	if seo.Title == "" {
		seo.Title = displayName
	}
	if seo.Slug == "" {
		seo.Slug = Slugify(seo.Title)
	}
}
