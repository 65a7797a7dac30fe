package catalog

import (
	"time"

	"github.com/smartpos/backoffice/internal/domain"
)

// Publish moves the entity to the published state and records the transition.
// publishedAt is stamped once and preserved by later publishes; re-publishing
// only restamps publishedBy/lastEditedBy and appends another version. The
// only way back to draft is restoring a snapshot captured while draft.
func Publish[S any, E Entity[S]](entity E, actor, note string, now time.Time) {
	state := entity.Lifecycle()
	state.Status = domain.StatusPublished
	if state.PublishedAt == nil {
		at := now
		state.PublishedAt = &at
	}
	state.PublishedBy = actor
	state.LastEditedBy = actor
	AppendVersion[S](entity, domain.ActionPublished, actor, note, now)
}
