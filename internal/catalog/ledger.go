package catalog

import (
	"fmt"
	"time"

	"github.com/smartpos/backoffice/internal/domain"
)

// AppendVersion captures the entity's current allow-listed fields into a new
// version entry. It must run after the field mutation it records, as part of
// the same logical write. Version numbers are contiguous for the entity's
// lifetime; trimming the history never renumbers or resets them.
func AppendVersion[S any, E Entity[S]](entity E, action domain.Action, changedBy, note string, now time.Time) {
	if changedBy == "" {
		changedBy = domain.SystemActor
	}
	history := entity.History()
	last := 0
	if n := len(*history); n > 0 {
		last = (*history)[n-1].Version
	}
	*history = append(*history, domain.VersionEntry[S]{
		Version:   last + 1,
		Action:    action,
		Note:      note,
		ChangedBy: changedBy,
		ChangedAt: now,
		Snapshot:  entity.Capture(),
	})
	if n := len(*history); n > domain.MaxVersionHistory {
		trimmed := make([]domain.VersionEntry[S], domain.MaxVersionHistory)
		copy(trimmed, (*history)[n-domain.MaxVersionHistory:])
		*history = trimmed
	}
}

// ListVersions returns the entity's history newest-first, without snapshot
// payloads.
func ListVersions[S any, E Entity[S]](entity E) []domain.VersionInfo {
	history := *entity.History()
	infos := make([]domain.VersionInfo, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		entry := history[i]
		infos = append(infos, domain.VersionInfo{
			Version:   entry.Version,
			Action:    entry.Action,
			Note:      entry.Note,
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
		})
	}
	return infos
}

// RestoreVersion writes the snapshot stored at targetVersion back onto the
// entity. The caller records the restoration itself by appending a rollback
// version afterwards. The entity is left untouched when the version is absent.
func RestoreVersion[S any, E Entity[S]](entity E, targetVersion int) error {
	for _, entry := range *entity.History() {
		if entry.Version == targetVersion {
			entity.Restore(entry.Snapshot)
			return nil
		}
	}
	return domain.NotFound(fmt.Sprintf("Version %d", targetVersion))
}
