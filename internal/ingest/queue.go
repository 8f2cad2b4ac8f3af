package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mediadepot/internal/depot"
	"mediadepot/internal/fileutil"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/probe"
)

var (
	// ErrIndexOutOfRange indicates a queue position that does not exist.
	ErrIndexOutOfRange = errors.New("queue index out of range")
	// ErrMissingFields indicates a submit with an empty required field.
	ErrMissingFields = errors.New("required fields missing")
	// ErrBadStatus indicates an operation invalid for the item's status.
	ErrBadStatus = errors.New("operation not valid for item status")
	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// requiredFields must be non-empty (and not the sentinel) before a submit
// is accepted.
var requiredFields = []media.Field{
	media.FieldSubject, media.FieldGenre, media.FieldCategory,
}

// Options configures a Queue.
type Options struct {
	Store     *media.Store
	Resolver  *depot.Resolver
	Extractor probe.Extractor
	StateDir  string
	// Table is the destination table for submissions. Defaults to the
	// archive table.
	Table  media.Table
	Logger *slog.Logger
}

// Queue is the ordered ingestion backlog. All methods are safe for
// concurrent use, though the expected writer count is one.
type Queue struct {
	mu        sync.Mutex
	store     *media.Store
	resolver  *depot.Resolver
	extractor probe.Extractor
	logger    *slog.Logger
	stateDir  string
	table     media.Table
	templates *Templates

	items  []Item
	undo   []UndoRecord
	cursor int
}

// NewQueue restores (or starts) an ingestion session from the state dir.
// Restored items whose source file has vanished are dropped, except
// completed and skipped ones kept for the session record.
func NewQueue(opts Options) (*Queue, error) {
	if opts.Table == "" {
		opts.Table = media.TableArchive
	}
	templates, err := LoadTemplates(opts.StateDir)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		store:     opts.Store,
		resolver:  opts.Resolver,
		extractor: opts.Extractor,
		logger:    logging.WithComponent(opts.Logger, "ingest"),
		stateDir:  opts.StateDir,
		table:     opts.Table,
		templates: templates,
	}

	var persisted persistedQueue
	found, err := readLocked(q.queuePath(), &persisted)
	if err != nil {
		return nil, err
	}
	if found {
		for _, item := range persisted.Items {
			if !item.Status.Valid() {
				item.Status = StatusPending
			}
			if !item.Status.Terminal() {
				if _, err := os.Stat(item.SourcePath); errors.Is(err, fs.ErrNotExist) {
					q.logger.Warn("dropping queue item with missing source",
						logging.String("source", item.SourcePath))
					continue
				}
			}
			// A restored in-flight item goes back to pending.
			if item.Status == StatusProcessing {
				item.Status = StatusPending
			}
			q.items = append(q.items, item)
		}
		q.undo = persisted.Undo
		q.advanceCursorLocked()
	}
	return q, nil
}

func (q *Queue) queuePath() string {
	return filepath.Join(q.stateDir, queueFileName)
}

// AddFiles appends queue items for each path, silently skipping paths
// already queued. Returns how many items were added.
func (q *Queue) AddFiles(ctx context.Context, paths []string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	existing := make(map[string]bool, len(q.items))
	for _, item := range q.items {
		existing[item.SourcePath] = true
	}

	added := 0
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if existing[abs] {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		item, err := q.buildItem(ctx, abs)
		if err != nil {
			return added, err
		}
		q.items = append(q.items, item)
		existing[abs] = true
		added++
	}
	if added > 0 {
		if err := q.saveLocked(); err != nil {
			return added, err
		}
	}
	return added, nil
}

// AddFolder walks dir recursively and queues every regular file.
func (q *Queue) AddFolder(ctx context.Context, dir string) (int, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", dir, err)
	}
	return q.AddFiles(ctx, paths)
}

// buildItem computes the destination and runs advisory duplicate
// detection: existing destination file, or a trailing-filename match in
// the store. A duplicate is flagged, not blocked.
func (q *Queue) buildItem(ctx context.Context, source string) (Item, error) {
	name := fileutil.SafeName(filepath.Base(source))
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	category := depot.QueueCategory(ext)
	dest := filepath.Join(q.resolver.Root(), category, name)

	item := Item{
		SourcePath: source,
		DestPath:   dest,
		Category:   category,
		Status:     StatusPending,
	}

	if _, err := os.Stat(dest); err == nil {
		item.Status = StatusDuplicate
		return item, nil
	}
	inStore, err := q.store.HasFileName(ctx, q.table, name)
	if err != nil {
		return Item{}, err
	}
	if inStore {
		item.Status = StatusDuplicate
	}
	return item, nil
}

// Items returns a snapshot of the queue.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Item(nil), q.items...)
}

// Item returns the queue entry at index.
func (q *Queue) Item(index int) (Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return Item{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return q.items[index], nil
}

// Cursor returns the position of the next pending item.
func (q *Queue) Cursor() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor
}

// Skip marks a pending item as skipped by operator action.
func (q *Queue) Skip(index int) error {
	return q.transition(index, StatusSkipped, StatusPending, StatusDuplicate)
}

// Retry returns an errored item to pending.
func (q *Queue) Retry(index int) error {
	return q.transition(index, StatusPending, StatusError)
}

func (q *Queue) transition(index int, to Status, from ...Status) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	item := &q.items[index]
	allowed := false
	for _, status := range from {
		if item.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrBadStatus, item.Status, to)
	}
	item.Status = to
	if to == StatusPending {
		item.ErrorMessage = ""
	}
	q.advanceCursorLocked()
	return q.saveLocked()
}

// Remove deletes a queue entry outright.
func (q *Queue) Remove(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.advanceCursorLocked()
	return q.saveLocked()
}

// EnsureMetadata returns the item's extracted metadata, running the
// extractor only on first request and caching the result.
func (q *Queue) EnsureMetadata(ctx context.Context, index int) (map[string]string, error) {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if cached := q.items[index].MetadataCache; cached != nil {
		q.mu.Unlock()
		return cached, nil
	}
	source := q.items[index].SourcePath
	q.mu.Unlock()

	meta, err := q.extractor.Extract(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}

	cache := map[string]string{
		media.FieldFileResolution.String(): meta.Resolution,
		media.FieldFileDuration.String():   meta.Duration,
		media.FieldFileFormat.String():     meta.Format,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if index < len(q.items) && q.items[index].SourcePath == source {
		q.items[index].MetadataCache = cache
		if err := q.saveLocked(); err != nil {
			return cache, err
		}
	}
	return cache, nil
}

// Template returns the stored default field set for an item's category.
func (q *Queue) Template(category string) map[string]string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.templates.Get(category)
}

// Submit validates and ingests one item: the file is copied to its
// destination, the merged record inserted into the store, an undo record
// pushed, and the item's field set saved as the category template. A copy
// or insert failure lands on the item as an Error status without touching
// the rest of the queue.
func (q *Queue) Submit(ctx context.Context, index int, fields map[string]string) error {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	item := &q.items[index]
	if item.Status != StatusPending && item.Status != StatusDuplicate {
		status := item.Status
		q.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", ErrBadStatus, status)
	}

	merged := q.mergedFieldsLocked(*item, fields)
	if missing := missingRequired(merged); len(missing) > 0 {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	item.Status = StatusProcessing
	source := item.SourcePath
	destDir := filepath.Dir(item.DestPath)
	destName := filepath.Base(item.DestPath)
	q.mu.Unlock()

	dest := fileutil.UniqueDest(destDir, destName)
	if err := fileutil.CopyFile(source, dest); err != nil {
		q.failItem(index, fmt.Errorf("copy to destination: %w", err))
		return fmt.Errorf("copy to destination: %w", err)
	}

	merged[media.FieldFilePath.String()] = q.resolver.Symbolic(dest)
	merged[media.FieldFileName.String()] = filepath.Base(dest)

	fileID, err := q.store.Insert(ctx, q.table, merged)
	if err != nil {
		_ = os.Remove(dest)
		q.failItem(index, err)
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	item = &q.items[index]
	item.Status = StatusCompleted
	item.DestPath = dest
	item.ErrorMessage = ""
	q.undo = append(q.undo, UndoRecord{
		FileID:   fileID,
		Table:    q.table.String(),
		DestPath: dest,
	})
	q.advanceCursorLocked()

	if err := q.templates.Save(item.Category, merged); err != nil {
		q.logger.Warn("saving category template failed", logging.Error(err))
	}
	q.logger.Info("item ingested",
		logging.String("file_id", fileID),
		logging.String("dest", dest))
	return q.saveLocked()
}

// mergedFieldsLocked builds the insert map: file-derived auto fields, the
// cached extraction, then the operator's input, later layers winning.
func (q *Queue) mergedFieldsLocked(item Item, fields map[string]string) map[string]string {
	merged := map[string]string{
		media.FieldFileName.String(): filepath.Base(item.DestPath),
		media.FieldFileType.String(): strings.TrimPrefix(filepath.Ext(item.DestPath), "."),
	}
	for key, value := range item.MetadataCache {
		if value != "" {
			merged[key] = value
		}
	}
	for key, value := range fields {
		merged[key] = value
	}
	return merged
}

func missingRequired(fields map[string]string) []string {
	var missing []string
	for _, field := range requiredFields {
		value := strings.TrimSpace(fields[field.String()])
		if value == "" || value == media.Unknown {
			missing = append(missing, field.String())
		}
	}
	return missing
}

func (q *Queue) failItem(index int, cause error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return
	}
	q.items[index].Status = StatusError
	q.items[index].ErrorMessage = cause.Error()
	if err := q.saveLocked(); err != nil {
		q.logger.Warn("persisting queue after failure", logging.Error(err))
	}
}

// Undo rolls back the most recent submission: the store row is deleted
// and the copied destination file removed. File removal is best-effort.
func (q *Queue) Undo(ctx context.Context) (*UndoRecord, error) {
	q.mu.Lock()
	if len(q.undo) == 0 {
		q.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	record := q.undo[len(q.undo)-1]
	q.mu.Unlock()

	table, err := media.ParseTable(record.Table)
	if err != nil {
		return nil, err
	}
	if err := q.store.Delete(ctx, table, record.FileID); err != nil && !errors.Is(err, media.ErrNotFound) {
		return nil, err
	}
	if err := os.Remove(record.DestPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		q.logger.Warn("removing undone file", logging.Error(err))
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.undo = q.undo[:len(q.undo)-1]
	for i := range q.items {
		if q.items[i].DestPath == record.DestPath && q.items[i].Status == StatusCompleted {
			q.items[i].Status = StatusPending
			break
		}
	}
	q.advanceCursorLocked()
	return &record, q.saveLocked()
}

// Clear empties the whole queue. The undo stack survives so completed
// ingests remain reversible.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.cursor = 0
	return q.saveLocked()
}

// ClearCompleted drops completed and skipped items, keeping the backlog.
func (q *Queue) ClearCompleted() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	for _, item := range q.items {
		if !item.Status.Terminal() {
			kept = append(kept, item)
		}
	}
	q.items = kept
	q.advanceCursorLocked()
	return q.saveLocked()
}

// Stats summarizes the queue by status.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	stats := Stats{Total: len(q.items)}
	for _, item := range q.items {
		switch item.Status {
		case StatusPending:
			stats.Pending++
		case StatusProcessing:
			stats.Processing++
		case StatusCompleted:
			stats.Completed++
		case StatusSkipped:
			stats.Skipped++
		case StatusDuplicate:
			stats.Duplicate++
		case StatusError:
			stats.Error++
		}
	}
	return stats
}

// advanceCursorLocked points the cursor at the first pending item.
func (q *Queue) advanceCursorLocked() {
	for i, item := range q.items {
		if item.Status == StatusPending || item.Status == StatusDuplicate {
			q.cursor = i
			return
		}
	}
	q.cursor = len(q.items)
}

func (q *Queue) saveLocked() error {
	return writeLocked(q.queuePath(), persistedQueue{Items: q.items, Undo: q.undo})
}
