package depot

// QueueCategory routes an ingested file into the coarse destination
// buckets the upload flow uses.
func QueueCategory(fileType string) string {
	ext := normalizeType(fileType)
	switch {
	case videoExts[ext]:
		return "videos"
	case imageExts[ext]:
		return "images"
	default:
		return "other"
	}
}

var audioExts = map[string]bool{
	"wav": true, "mp3": true, "aac": true, "flac": true, "ogg": true,
}

var geometryExts = map[string]bool{
	"obj": true, "fbx": true, "abc": true, "stl": true, "ply": true, "usd": true,
}

var documentExts = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "txt": true, "md": true,
}

// ArchiveCategory routes a file into the archive tree's subdirectories.
func ArchiveCategory(fileType string) string {
	ext := normalizeType(fileType)
	switch {
	case geometryExts[ext]:
		return "geometry"
	case imageExts[ext]:
		return "images"
	case videoExts[ext]:
		return "videos"
	case audioExts[ext]:
		return "audio"
	case documentExts[ext]:
		return "documents"
	default:
		return "others"
	}
}

// Viewable reports whether a file type renders directly in a browser.
func Viewable(fileType string) bool {
	ext := normalizeType(fileType)
	return imageExts[ext] || videoExts[ext]
}
