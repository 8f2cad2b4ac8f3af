package probe

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg implements all three collaborator interfaces by shelling out to
// ffprobe and ffmpeg.
type FFmpeg struct {
	FFprobeBin string
	FFmpegBin  string
}

// NewFFmpeg builds an FFmpeg probe using the binaries found on PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{FFprobeBin: "ffprobe", FFmpegBin: "ffmpeg"}
}

// Extract reads resolution, duration, and codec from the first video
// stream, falling back to format-level fields for images.
func (f *FFmpeg) Extract(ctx context.Context, path string) (Metadata, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,codec_name:format=duration,format_name",
		"-of", "default=noprint_wrappers=1",
		path,
	}
	out, err := exec.CommandContext(ctx, f.FFprobeBin, args...).Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}
	return parseProbeOutput(string(out)), nil
}

// parseProbeOutput reads ffprobe's key=value default writer format.
func parseProbeOutput(out string) Metadata {
	values := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || value == "N/A" {
			continue
		}
		if _, seen := values[key]; !seen {
			values[key] = value
		}
	}

	var meta Metadata
	if values["width"] != "" && values["height"] != "" {
		meta.Resolution = values["width"] + "x" + values["height"]
	}
	if d := values["duration"]; d != "" {
		if seconds, err := strconv.ParseFloat(d, 64); err == nil {
			meta.Duration = strconv.FormatFloat(seconds, 'f', 2, 64)
		}
	}
	meta.Codec = values["codec_name"]
	if name := values["format_name"]; name != "" {
		// format_name can be a comma list of demuxer aliases.
		meta.Format, _, _ = strings.Cut(name, ",")
	}
	return meta
}

// CaptureFrame writes one frame at the given offset (seconds) to destPath.
func (f *FFmpeg) CaptureFrame(ctx context.Context, videoPath string, offset float64, destPath string) error {
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(offset, 'f', 2, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		destPath,
	}
	if out, err := exec.CommandContext(ctx, f.FFmpegBin, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg frame capture %s: %w: %s", filepath.Base(videoPath), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Transcode re-encodes src into an h264/aac mp4 at dst.
func (f *FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	args := []string{
		"-y",
		"-i", src,
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		dst,
	}
	if out, err := exec.CommandContext(ctx, f.FFmpegBin, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg transcode %s: %w: %s", filepath.Base(src), err, strings.TrimSpace(string(out)))
	}
	return nil
}
