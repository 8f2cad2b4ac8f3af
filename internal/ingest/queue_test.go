package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediadepot/internal/depot"
	"mediadepot/internal/media"
	"mediadepot/internal/probe"
)

type fakeExtractor struct {
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (probe.Metadata, error) {
	f.calls++
	return probe.Metadata{Resolution: "1920x1080", Duration: "10.00", Format: "mov"}, nil
}

type queueEnv struct {
	queue     *Queue
	store     *media.Store
	extractor *fakeExtractor
	stateDir  string
	depotRoot string
	srcDir    string
}

func newQueueEnv(t *testing.T) *queueEnv {
	t.Helper()
	base := t.TempDir()
	env := &queueEnv{
		stateDir:  filepath.Join(base, "state"),
		depotRoot: filepath.Join(base, "depot"),
		srcDir:    filepath.Join(base, "src"),
		extractor: &fakeExtractor{},
	}
	for _, dir := range []string{env.stateDir, env.depotRoot, env.srcDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	store, err := media.Open(context.Background(), filepath.Join(base, "media.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	env.store = store

	resolver, err := depot.NewResolver(env.depotRoot)
	if err != nil {
		t.Fatal(err)
	}

	queue, err := NewQueue(Options{
		Store:     store,
		Resolver:  resolver,
		Extractor: env.extractor,
		StateDir:  env.stateDir,
	})
	if err != nil {
		t.Fatal(err)
	}
	env.queue = queue
	return env
}

func (e *queueEnv) sourceFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.srcDir, name)
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func validFields() map[string]string {
	return map[string]string{
		"subject":  "harbor",
		"genre":    "nature",
		"category": "stock",
	}
}

func TestAddFilesDedupsBySourcePath(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	added, err := env.queue.AddFiles(ctx, []string{src, src})
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}

	added, err = env.queue.AddFiles(ctx, []string{src})
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Fatalf("re-add added = %d, want 0", added)
	}
	if len(env.queue.Items()) != 1 {
		t.Fatalf("queue has %d items, want 1", len(env.queue.Items()))
	}
}

func TestAddFlagsDuplicateWhenDestExists(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")

	destDir := filepath.Join(env.depotRoot, "videos")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destDir, "clip.mp4"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := env.queue.AddFiles(context.Background(), []string{src}); err != nil {
		t.Fatal(err)
	}
	item, err := env.queue.Item(0)
	if err != nil {
		t.Fatal(err)
	}
	if item.Status != StatusDuplicate {
		t.Fatalf("status = %s, want duplicate", item.Status)
	}
}

func TestAddFlagsDuplicateOnStoreFilenameMatch(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	if _, err := env.store.Insert(ctx, media.TableArchive, map[string]string{
		"file_path": "$DEPOT_ALL/videos/clip.mp4",
	}); err != nil {
		t.Fatal(err)
	}

	src := env.sourceFile(t, "clip.mp4")
	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	item, _ := env.queue.Item(0)
	if item.Status != StatusDuplicate {
		t.Fatalf("status = %s, want duplicate", item.Status)
	}
}

func TestAddFolderRecurses(t *testing.T) {
	env := newQueueEnv(t)
	nested := filepath.Join(env.srcDir, "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	env.sourceFile(t, "a.mp4")
	if err := os.WriteFile(filepath.Join(nested, "b.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	added, err := env.queue.AddFolder(context.Background(), env.srcDir)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
}

func TestSubmitRejectsMissingRequiredFields(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	cursorBefore := env.queue.Cursor()

	err := env.queue.Submit(ctx, 0, map[string]string{"subject": "harbor"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}

	if env.queue.Cursor() != cursorBefore {
		t.Fatal("cursor moved on rejected submit")
	}
	count, err := env.store.Count(ctx, media.TableArchive, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("store has %d rows after rejected submit", count)
	}
	item, _ := env.queue.Item(0)
	if item.Status != StatusPending {
		t.Fatalf("status = %s, want pending", item.Status)
	}
}

func TestSubmitIngestsAndPushesUndo(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.queue.EnsureMetadata(ctx, 0); err != nil {
		t.Fatal(err)
	}

	if err := env.queue.Submit(ctx, 0, validFields()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	item, _ := env.queue.Item(0)
	if item.Status != StatusCompleted {
		t.Fatalf("status = %s", item.Status)
	}
	if _, err := os.Stat(item.DestPath); err != nil {
		t.Fatalf("destination file missing: %v", err)
	}

	assets, err := env.store.Select(ctx, media.TableArchive, "", nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 {
		t.Fatalf("store has %d rows, want 1", len(assets))
	}
	asset := assets[0]
	if asset.Subject != "harbor" || asset.FileResolution != "1920x1080" {
		t.Fatalf("asset = %+v", asset)
	}
	if asset.FilePath != "$DEPOT_ALL/videos/clip.mp4" {
		t.Fatalf("file_path = %q, want symbolic", asset.FilePath)
	}
}

func TestSubmitSavesCategoryTemplate(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	if err := env.queue.Submit(ctx, 0, validFields()); err != nil {
		t.Fatal(err)
	}

	template := env.queue.Template("videos")
	if template["subject"] != "harbor" || template["genre"] != "nature" {
		t.Fatalf("template = %v", template)
	}
	if _, ok := template["file_name"]; ok {
		t.Fatal("template must exclude per-file fields")
	}
}

func TestUndoRemovesRowAndFile(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	if err := env.queue.Submit(ctx, 0, validFields()); err != nil {
		t.Fatal(err)
	}
	item, _ := env.queue.Item(0)

	record, err := env.queue.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if record.DestPath != item.DestPath {
		t.Fatalf("undo record dest = %q, want %q", record.DestPath, item.DestPath)
	}

	if _, err := os.Stat(item.DestPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("destination file still present after undo")
	}
	count, err := env.store.Count(ctx, media.TableArchive, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("store has %d rows after undo", count)
	}

	if _, err := env.queue.Undo(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second undo err = %v, want ErrNothingToUndo", err)
	}
}

func TestRetryOnlyFromError(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	if err := env.queue.Retry(0); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("retry from pending err = %v, want ErrBadStatus", err)
	}
	if err := env.queue.Skip(0); err != nil {
		t.Fatal(err)
	}
	item, _ := env.queue.Item(0)
	if item.Status != StatusSkipped {
		t.Fatalf("status = %s", item.Status)
	}
}

func TestEnsureMetadataCaches(t *testing.T) {
	env := newQueueEnv(t)
	src := env.sourceFile(t, "clip.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{src}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.queue.EnsureMetadata(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := env.queue.EnsureMetadata(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if env.extractor.calls != 1 {
		t.Fatalf("extractor ran %d times, want 1", env.extractor.calls)
	}
}

func TestClearCompletedKeepsBacklog(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()
	first := env.sourceFile(t, "a.mp4")
	second := env.sourceFile(t, "b.mp4")

	if _, err := env.queue.AddFiles(ctx, []string{first, second}); err != nil {
		t.Fatal(err)
	}
	if err := env.queue.Submit(ctx, 0, validFields()); err != nil {
		t.Fatal(err)
	}

	if err := env.queue.ClearCompleted(); err != nil {
		t.Fatal(err)
	}
	items := env.queue.Items()
	if len(items) != 1 || items[0].SourcePath != second {
		t.Fatalf("items after clear = %+v", items)
	}

	stats := env.queue.Stats()
	if stats.Total != 1 || stats.Pending != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestQueueRestoresAcrossSessions(t *testing.T) {
	env := newQueueEnv(t)
	kept := env.sourceFile(t, "kept.mp4")
	vanishing := env.sourceFile(t, "vanishing.mp4")
	ctx := context.Background()

	if _, err := env.queue.AddFiles(ctx, []string{kept, vanishing}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(vanishing); err != nil {
		t.Fatal(err)
	}

	resolver, err := depot.NewResolver(env.depotRoot)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := NewQueue(Options{
		Store:     env.store,
		Resolver:  resolver,
		Extractor: env.extractor,
		StateDir:  env.stateDir,
	})
	if err != nil {
		t.Fatal(err)
	}

	items := restored.Items()
	if len(items) != 1 {
		t.Fatalf("restored %d items, want 1", len(items))
	}
	if items[0].SourcePath != kept {
		t.Fatalf("restored item = %q", items[0].SourcePath)
	}
}
