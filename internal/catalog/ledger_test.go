package catalog

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smartpos/backoffice/internal/domain"
)

func TestAppendVersionNumbersAreContiguous(t *testing.T) {
	product := domain.NewProduct()
	now := time.Now()
	for i := 0; i < 3; i++ {
		product.Stock = i
		AppendVersion[domain.ProductSnapshot](product, domain.ActionUpdated, "Alice", "", now)
	}

	for i, entry := range product.VersionHistory {
		if entry.Version != i+1 {
			t.Fatalf("entry %d has version %d", i, entry.Version)
		}
	}
	if product.VersionHistory[2].Snapshot.Stock != 2 {
		t.Errorf("snapshot captured stale stock %d", product.VersionHistory[2].Snapshot.Stock)
	}
}

func TestAppendVersionTrimsOldestWithoutRenumbering(t *testing.T) {
	product := domain.NewProduct()
	now := time.Now()
	for i := 0; i < domain.MaxVersionHistory+7; i++ {
		AppendVersion[domain.ProductSnapshot](product, domain.ActionUpdated, "Alice", fmt.Sprintf("save %d", i), now)
	}

	if len(product.VersionHistory) != domain.MaxVersionHistory {
		t.Fatalf("history length = %d, want %d", len(product.VersionHistory), domain.MaxVersionHistory)
	}
	if got := product.VersionHistory[0].Version; got != 8 {
		t.Errorf("oldest surviving version = %d, want 8", got)
	}
	if got := product.VersionHistory[len(product.VersionHistory)-1].Version; got != domain.MaxVersionHistory+7 {
		t.Errorf("newest version = %d, want %d", got, domain.MaxVersionHistory+7)
	}
}

func TestAppendVersionDefaultsActorToSystem(t *testing.T) {
	product := domain.NewProduct()
	AppendVersion[domain.ProductSnapshot](product, domain.ActionCreated, "", "", time.Now())
	if got := product.VersionHistory[0].ChangedBy; got != domain.SystemActor {
		t.Errorf("changedBy = %q, want %q", got, domain.SystemActor)
	}
}

func TestListVersionsNewestFirst(t *testing.T) {
	product := domain.NewProduct()
	now := time.Now()
	AppendVersion[domain.ProductSnapshot](product, domain.ActionCreated, "Alice", "", now)
	AppendVersion[domain.ProductSnapshot](product, domain.ActionUpdated, "Bob", "manual save", now)

	infos := ListVersions[domain.ProductSnapshot](product)
	if len(infos) != 2 {
		t.Fatalf("got %d versions", len(infos))
	}
	if infos[0].Version != 2 || infos[1].Version != 1 {
		t.Errorf("versions not newest-first: %v, %v", infos[0].Version, infos[1].Version)
	}
	if infos[0].Action != domain.ActionUpdated || infos[0].ChangedBy != "Bob" {
		t.Errorf("unexpected head entry: %+v", infos[0])
	}
}

func TestRestoreVersionMissing(t *testing.T) {
	product := domain.NewProduct()
	AppendVersion[domain.ProductSnapshot](product, domain.ActionCreated, "Alice", "", time.Now())

	err := RestoreVersion[domain.ProductSnapshot](product, 9)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if got := err.Error(); got != "Version 9 not found." {
		t.Errorf("message = %q", got)
	}
}
