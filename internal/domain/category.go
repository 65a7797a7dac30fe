package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. The code is its natural key; the name is also
// unique and resolvable (products may reference a category by name).
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"displayOrder"`
	SEO          SEO       `json:"seo"`
	Image        Image     `json:"image"`
	PublishState

	VersionHistory []VersionEntry[CategorySnapshot] `json:"versionHistory"`
	CreatedAt      time.Time                        `json:"createdAt"`
	UpdatedAt      time.Time                        `json:"updatedAt"`

	Revision int64 `json:"-"`
}

// CategorySnapshot is the fixed allow-list of category fields captured in a
// version entry.
type CategorySnapshot struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
	SEO          SEO    `json:"seo"`
	Image        Image  `json:"image"`
	Status       Status `json:"status"`
	IsActive     bool   `json:"isActive"`
}

// NewCategory returns a draft category with the model defaults.
func NewCategory() *Category {
	now := time.Now()
	return &Category{
		ID:           uuid.New(),
		PublishState: PublishState{Status: StatusDraft, IsActive: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Category) EntityID() uuid.UUID { return c.ID }

// Key returns the normalized natural key (upper-cased code).
func (c *Category) Key() string { return c.Code }

func (c *Category) Lifecycle() *PublishState { return &c.PublishState }

func (c *Category) History() *[]VersionEntry[CategorySnapshot] { return &c.VersionHistory }

func (c *Category) Touch(now time.Time) { c.UpdatedAt = now }

func (c *Category) Capture() CategorySnapshot {
	return CategorySnapshot{
		Name:         c.Name,
		Code:         c.Code,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		SEO:          copySEO(c.SEO),
		Image:        c.Image,
		Status:       c.Status,
		IsActive:     c.IsActive,
	}
}

func (c *Category) Restore(s CategorySnapshot) {
	c.Name = s.Name
	c.Code = s.Code
	c.Description = s.Description
	c.DisplayOrder = s.DisplayOrder
	c.SEO = copySEO(s.SEO)
	c.Image = s.Image
	c.Status = s.Status
	c.IsActive = s.IsActive
}

func (c *Category) EnsureDefaults() {
	ensureSEODefaults(&c.SEO, c.Name)
}
