package domain

import (
	"strings"
	"time"
)

// Status is the draft/published lifecycle state of a catalog entity.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus normalizes loosely-typed status input. Anything that is not
// exactly "published" (case-insensitive) collapses to draft.
func ParseStatus(value string) Status {
	if strings.EqualFold(strings.TrimSpace(value), string(StatusPublished)) {
		return StatusPublished
	}
	return StatusDraft
}

// Action identifies what kind of mutation produced a version entry.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionPublished Action = "published"
	ActionRollback  Action = "rollback"
	ActionImported  Action = "imported"
	ActionBulk      Action = "bulk"
)

// MaxVersionHistory bounds the per-entity version history. Older entries are
// trimmed first; version numbers are never renumbered or reused.
const MaxVersionHistory = 40

// SystemActor is recorded as the acting identity when none is known.
const SystemActor = "System"

// SEO holds the search metadata sub-document shared by catalog entities.
type SEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Slug        string   `json:"slug"`
}

// Image holds the image sub-document shared by catalog entities.
type Image struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	AltText   string `json:"altText"`
	MimeType  string `json:"mimeType"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int    `json:"size"`
}

// allowedImageMimeTypes is the closed set of accepted image content types.
// Anything else is cleared during normalization.
var allowedImageMimeTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/webp":    {},
	"image/gif":     {},
	"image/svg+xml": {},
}

// AllowedImageMimeType reports whether mime is on the image allow-list.
func AllowedImageMimeType(mime string) bool {
	_, ok := allowedImageMimeTypes[strings.ToLower(strings.TrimSpace(mime))]
	return ok
}

// PublishState carries the lifecycle and provenance fields shared by catalog
// entities. It is embedded so the fields serialize inline.
type PublishState struct {
	Status       Status     `json:"status"`
	PublishedAt  *time.Time `json:"publishedAt"`
	PublishedBy  string     `json:"publishedBy"`
	LastEditedBy string     `json:"lastEditedBy"`
	IsActive     bool       `json:"isActive"`
}

// VersionEntry is one immutable snapshot in an entity's version history.
// S is the kind-specific snapshot record (the allow-listed field set).
type VersionEntry[S any] struct {
	Version   int       `json:"version"`
	Action    Action    `json:"action"`
	Note      string    `json:"note"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
	Snapshot  S         `json:"snapshot"`
}

// VersionInfo is the listing payload for a version entry. The snapshot itself
// is restore-only and never exposed through listings.
type VersionInfo struct {
	Version   int       `json:"version"`
	Action    Action    `json:"action"`
	Note      string    `json:"note"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}
