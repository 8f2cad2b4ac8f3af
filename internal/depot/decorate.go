package depot

import (
	"os"
	"path/filepath"
	"strings"
)

// Decoration carries the servable view of one asset path.
type Decoration struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	ThumbPath    string `json:"thumb_path"`
	Viewable     bool   `json:"viewable"`
}

var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "webp": true, "tiff": true,
}

var videoExts = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "mkv": true,
	"webm": true, "m4v": true, "mxf": true,
}

// staticThumbs maps non-media file types to their bundled placeholder
// thumbnails.
var staticThumbs = map[string]string{
	"afx":    "static/thumbs/afx.png",
	"aep":    "static/thumbs/afx.png",
	"prproj": "static/thumbs/prproj.png",
	"psd":    "static/thumbs/psd.png",
	"xlsx":   "static/thumbs/xlsx.png",
	"pptx":   "static/thumbs/pptx.png",
	"docx":   "static/thumbs/docx.png",
	"hip":    "static/thumbs/hip.png",
}

const genericThumb = "static/thumbs/other.png"

// Decorate resolves a stored (possibly symbolic) file path into its
// servable form. Videos pick up a sibling .jpg/.png thumbnail when one
// exists on disk; images thumbnail as themselves; everything else falls
// back to a static placeholder by type.
func (r *Resolver) Decorate(filePath, fileType string) Decoration {
	abs := r.Expand(filePath)
	rel, err := r.Rel(filePath)
	if err != nil {
		rel = ""
	}
	ext := normalizeType(fileType)
	if ext == "" {
		ext = normalizeType(strings.TrimPrefix(filepath.Ext(abs), "."))
	}

	dec := Decoration{
		AbsolutePath: abs,
		RelativePath: rel,
		Viewable:     imageExts[ext] || videoExts[ext],
	}

	switch {
	case imageExts[ext]:
		dec.ThumbPath = rel
	case videoExts[ext]:
		dec.ThumbPath = r.videoThumb(abs)
	default:
		if thumb, ok := staticThumbs[ext]; ok {
			dec.ThumbPath = thumb
		} else {
			dec.ThumbPath = genericThumb
		}
	}
	return dec
}

func (r *Resolver) videoThumb(abs string) string {
	stem := strings.TrimSuffix(abs, filepath.Ext(abs))
	for _, ext := range []string{".jpg", ".png"} {
		candidate := stem + ext
		if _, err := os.Stat(candidate); err == nil {
			if rel, err := r.Rel(candidate); err == nil {
				return rel
			}
		}
	}
	return genericThumb
}

func normalizeType(fileType string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), "."))
}
