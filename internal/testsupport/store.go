package testsupport

import (
	"context"
	"testing"

	"mediadepot/internal/config"
	"mediadepot/internal/jobs"
	"mediadepot/internal/media"
)

// MustOpenMediaStore opens a media.Store for tests and registers cleanup.
func MustOpenMediaStore(t testing.TB, cfg *config.Config) *media.Store {
	t.Helper()

	store, err := media.Open(context.Background(), cfg.Paths.MediaDB)
	if err != nil {
		t.Fatalf("media.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustOpenJobStore opens a jobs.Store for tests and registers cleanup.
func MustOpenJobStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(context.Background(), cfg.Paths.JobsDB)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewAsset inserts one asset row for tests and returns its file id.
func NewAsset(t testing.TB, store *media.Store, table media.Table, fields map[string]string) string {
	t.Helper()

	id, err := store.Insert(context.Background(), table, fields)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return id
}
