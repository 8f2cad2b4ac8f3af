package probe

import "context"

// Metadata is the extracted technical description of a media file. Fields
// that do not apply to the file kind stay empty.
type Metadata struct {
	Resolution string `json:"resolution"`
	Duration   string `json:"duration"`
	Format     string `json:"format"`
	Codec      string `json:"codec"`
}

// Extractor reads technical metadata from a media file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Metadata, error)
}

// FrameCapturer grabs a single frame from a video as an image file.
type FrameCapturer interface {
	CaptureFrame(ctx context.Context, videoPath string, offset float64, destPath string) error
}

// Transcoder rewraps or re-encodes a video into an mp4 container.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}
