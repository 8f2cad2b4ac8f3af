package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mediadepot/internal/depot"
	"mediadepot/internal/fileutil"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/probe"
)

// Stats summarizes one migration run.
type Stats struct {
	Total   int      `json:"total"`
	Skipped int      `json:"skipped"`
	Copied  int      `json:"copied"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Options configures a Migrator.
type Options struct {
	Store      *media.Store
	Resolver   *depot.Resolver
	Transcoder probe.Transcoder
	Capturer   probe.FrameCapturer
	ArchiveDir string
	ThumbsDir  string
	Logger     *slog.Logger
}

// Migrator copies active assets into the archive table and tree.
type Migrator struct {
	store      *media.Store
	resolver   *depot.Resolver
	transcoder probe.Transcoder
	capturer   probe.FrameCapturer
	archiveDir string
	thumbsDir  string
	logger     *slog.Logger
}

// New builds a Migrator.
func New(opts Options) *Migrator {
	return &Migrator{
		store:      opts.Store,
		resolver:   opts.Resolver,
		transcoder: opts.Transcoder,
		capturer:   opts.Capturer,
		archiveDir: opts.ArchiveDir,
		thumbsDir:  opts.ThumbsDir,
		logger:     logging.WithComponent(opts.Logger, "archive"),
	}
}

// Migrate archives the given active assets. Ids already present in the
// archive table are skipped, as are assets whose extension is outside the
// filter (when one is given). Every failure is recorded per file without
// aborting the run.
func (m *Migrator) Migrate(ctx context.Context, ids []string, extFilter []string) Stats {
	stats := Stats{Total: len(ids)}
	filter := make(map[string]bool, len(extFilter))
	for _, ext := range extFilter {
		filter[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	for _, id := range ids {
		archived, err := m.migrateOne(ctx, id, filter)
		switch {
		case err != nil:
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", id, err))
			m.logger.Warn("archiving asset failed",
				logging.String("file_id", id), logging.Error(err))
		case archived:
			stats.Copied++
		default:
			stats.Skipped++
		}
	}
	m.logger.Info("migration finished",
		logging.Int("total", stats.Total),
		logging.Int("copied", stats.Copied),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed))
	return stats
}

func (m *Migrator) migrateOne(ctx context.Context, id string, filter map[string]bool) (bool, error) {
	presence, err := m.store.Presence(ctx, id)
	if err != nil {
		return false, err
	}
	if presence.InArchive {
		return false, nil
	}

	asset, err := m.store.Get(ctx, media.TableProject, id)
	if err != nil {
		return false, err
	}
	ext := strings.ToLower(asset.FileType)
	if len(filter) > 0 && !filter[ext] {
		return false, nil
	}

	source := m.resolver.Expand(asset.FilePath)
	category := depot.ArchiveCategory(ext)
	destDir := filepath.Join(m.archiveDir, category)
	destName := fileutil.SafeName(asset.FileName)

	// Non-mp4 video containers are normalized during the move.
	isVideo := category == "videos"
	if isVideo && ext != "mp4" && m.transcoder != nil {
		destName = strings.TrimSuffix(destName, filepath.Ext(destName)) + ".mp4"
		dest := fileutil.UniqueDest(destDir, destName)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return false, err
		}
		if err := m.transcoder.Transcode(ctx, source, dest); err != nil {
			return false, err
		}
		return true, m.finishArchive(ctx, asset, dest, "mp4")
	}

	dest := fileutil.UniqueDest(destDir, destName)
	if err := fileutil.CopyFile(source, dest); err != nil {
		return false, err
	}
	return true, m.finishArchive(ctx, asset, dest, asset.FileType)
}

// finishArchive inserts the archive row and, for videos, captures a
// quarter-way thumbnail next to the thumbs dir. Thumbnail failure is a
// log line, not an error.
func (m *Migrator) finishArchive(ctx context.Context, asset *media.Asset, dest, fileType string) error {
	fields := map[string]string{
		media.FieldFileID.String():         asset.FileID,
		media.FieldFileName.String():       filepath.Base(dest),
		media.FieldFilePath.String():       m.resolver.Symbolic(dest),
		media.FieldFileType.String():       fileType,
		media.FieldFileFormat.String():     asset.FileFormat,
		media.FieldFileResolution.String(): asset.FileResolution,
		media.FieldFileDuration.String():   asset.FileDuration,
		media.FieldShotSize.String():       asset.ShotSize,
		media.FieldShotType.String():       asset.ShotType,
		media.FieldSource.String():         asset.Source,
		media.FieldSourceID.String():       asset.SourceID,
		media.FieldGenre.String():          asset.Genre,
		media.FieldSubject.String():        asset.Subject,
		media.FieldCategory.String():       asset.Category,
		media.FieldLighting.String():       asset.Lighting,
		media.FieldSetting.String():        asset.Setting,
		media.FieldTags.String():           asset.Tags,
		media.FieldCaptions.String():       asset.Captions,
	}
	if _, err := m.store.Insert(ctx, media.TableArchive, fields); err != nil {
		_ = os.Remove(dest)
		return err
	}

	if fileType == "mp4" && m.capturer != nil && m.thumbsDir != "" {
		if err := m.captureThumb(ctx, asset, dest); err != nil {
			m.logger.Warn("thumbnail capture failed",
				logging.String("file_id", asset.FileID), logging.Error(err))
		}
	}
	return nil
}

func (m *Migrator) captureThumb(ctx context.Context, asset *media.Asset, videoPath string) error {
	offset := 0.0
	if seconds, err := strconv.ParseFloat(asset.FileDuration, 64); err == nil {
		offset = seconds * 0.25
	}
	if err := os.MkdirAll(m.thumbsDir, 0o755); err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	thumb := filepath.Join(m.thumbsDir, stem+".jpg")
	return m.capturer.CaptureFrame(ctx, videoPath, offset, thumb)
}
