// Package fileutil provides file copy and naming helpers shared by the
// ingest queue and archive migration.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// copyChunkSize keeps progress callbacks frequent enough for a UI poll
// without costing throughput on large video files.
const copyChunkSize = 1 << 20

// ProgressFunc receives copied and total byte counts as a copy advances.
type ProgressFunc func(copied, total int64)

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileProgress(src, dst, nil)
}

// CopyFileProgress streams src to dst in chunks, invoking progress after
// each chunk. Removes dst when the copy fails partway.
func CopyFileProgress(src, dst string, progress ProgressFunc) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	total := info.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	var copied int64
	buf := make([]byte, copyChunkSize)
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				_ = os.Remove(dst)
				return writeErr
			}
			copied += int64(n)
			if progress != nil {
				progress(copied, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			_ = os.Remove(dst)
			return readErr
		}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if copied != total {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", total, copied)
	}
	return nil
}

// SafeName normalizes a filename for depot storage: spaces become
// underscores, and anything outside letters, digits, dot, dash, and
// underscore is dropped.
func SafeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UniqueDest returns a path in dir for name that does not collide with an
// existing file, appending _1, _2, ... before the extension as needed.
func UniqueDest(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err != nil {
		return candidate
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
