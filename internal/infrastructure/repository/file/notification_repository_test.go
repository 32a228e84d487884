package file

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/razorbill/livematch/internal/platform/storage"
)

func openStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestNotificationRepositoryAddDedups(t *testing.T) {
	t.Parallel()

	repo := NewNotificationRepository(openStore(t, filepath.Join(t.TempDir(), "store.json")))
	ctx := context.Background()

	added, err := repo.Add(ctx, "m1")
	if err != nil || !added {
		t.Fatalf("first Add: added=%v err=%v", added, err)
	}
	added, err = repo.Add(ctx, "m1")
	if err != nil || added {
		t.Fatalf("duplicate Add must report false: added=%v err=%v", added, err)
	}

	known, err := repo.Has(ctx, "m1")
	if err != nil || !known {
		t.Fatalf("Has: known=%v err=%v", known, err)
	}
	known, err = repo.Has(ctx, "m2")
	if err != nil || known {
		t.Fatalf("Has for absent id: known=%v err=%v", known, err)
	}
}

func TestNotificationRepositorySurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	repo := NewNotificationRepository(openStore(t, path))
	if _, err := repo.Add(ctx, "m1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(ctx, "m2"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened := NewNotificationRepository(openStore(t, path))
	records, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].MatchID != "m1" || records[1].MatchID != "m2" {
		t.Fatalf("unexpected records after reopen: %v", records)
	}
	added, err := reopened.Add(ctx, "m1")
	if err != nil || added {
		t.Fatalf("persisted id must dedup across sessions: added=%v err=%v", added, err)
	}
}
