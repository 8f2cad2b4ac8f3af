package media

// Asset is one row of media metadata. Every column is TEXT; unknown values
// carry the "unknown" sentinel rather than NULL so the UI never has to
// null-check.
type Asset struct {
	FileID         string `db:"file_id" json:"file_id"`
	FileName       string `db:"file_name" json:"file_name"`
	FilePath       string `db:"file_path" json:"file_path"`
	FileType       string `db:"file_type" json:"file_type"`
	FileFormat     string `db:"file_format" json:"file_format"`
	FileResolution string `db:"file_resolution" json:"file_resolution"`
	FileDuration   string `db:"file_duration" json:"file_duration"`
	ShotSize       string `db:"shot_size" json:"shot_size"`
	ShotType       string `db:"shot_type" json:"shot_type"`
	Source         string `db:"source" json:"source"`
	SourceID       string `db:"source_id" json:"source_id"`
	Genre          string `db:"genre" json:"genre"`
	Subject        string `db:"subject" json:"subject"`
	Category       string `db:"category" json:"category"`
	Lighting       string `db:"lighting" json:"lighting"`
	Setting        string `db:"setting" json:"setting"`
	Tags           string `db:"tags" json:"tags"`
	Captions       string `db:"captions" json:"captions"`
}

// Unknown is the sentinel stored for fields the operator has not filled in.
const Unknown = "unknown"

// CategoryCount is one value/frequency pair from CountByField.
type CategoryCount struct {
	Value string `db:"value" json:"value"`
	Count int    `db:"count" json:"count"`
}

// Presence reports which tables hold a given file_id.
type Presence struct {
	FileID    string `json:"file_id"`
	InProject bool   `json:"in_project"`
	InArchive bool   `json:"in_archive"`
}
