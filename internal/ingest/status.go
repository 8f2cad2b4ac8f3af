package ingest

// Status is a queue item's processing state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
	StatusDuplicate  Status = "duplicate"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusPending, StatusProcessing, StatusCompleted,
	StatusSkipped, StatusDuplicate, StatusError,
}

var statusSet = func() map[Status]bool {
	set := make(map[Status]bool, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = true
	}
	return set
}()

// Valid reports whether the status is a known value, used when restoring
// persisted queue files.
func (s Status) Valid() bool {
	return statusSet[s]
}

// Terminal reports whether an item has left the active flow. Duplicate is
// advisory and deliberately not terminal: a flagged item can still be
// submitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

func (s Status) String() string {
	return string(s)
}
