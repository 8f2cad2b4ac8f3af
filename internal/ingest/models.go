package ingest

// Item is one queued file awaiting metadata entry.
type Item struct {
	SourcePath    string            `json:"source_path"`
	DestPath      string            `json:"dest_path"`
	Category      string            `json:"category"`
	Status        Status            `json:"status"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	MetadataCache map[string]string `json:"metadata_cache,omitempty"`
}

// UndoRecord captures one completed submission so it can be rolled back.
type UndoRecord struct {
	FileID   string `json:"file_id"`
	Table    string `json:"table"`
	DestPath string `json:"dest_path"`
}

// Stats summarizes the queue by status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Skipped    int `json:"skipped"`
	Duplicate  int `json:"duplicate"`
	Error      int `json:"error"`
}
