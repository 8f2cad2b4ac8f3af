package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	queueFileName     = "queue.json"
	templatesFileName = "templates.json"
)

// persistedQueue is the on-disk shape of a queue session.
type persistedQueue struct {
	Items []Item       `json:"items"`
	Undo  []UndoRecord `json:"undo"`
}

// writeLocked marshals value to path under an advisory file lock, via a
// temp file so a crash mid-write cannot corrupt the session.
func writeLocked(path string, value any) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", filepath.Base(path), err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readLocked unmarshals path into dst under the advisory lock. A missing
// file is not an error; dst is left untouched and ok is false.
func readLocked(path string, dst any) (bool, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return false, fmt.Errorf("lock %s: %w", filepath.Base(path), err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
