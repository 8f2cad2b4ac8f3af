package session

import "github.com/google/uuid"

// Progress is one copy operation's state, polled by a separate request
// while the copy runs to completion on its own call.
type Progress struct {
	ID      string  `json:"id"`
	Copied  int64   `json:"copied"`
	Total   int64   `json:"total"`
	Percent float64 `json:"percent"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

// StartCopy registers a new copy operation and returns its id.
func (s *State) StartCopy() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.copies == nil {
		s.copies = make(map[string]*Progress)
	}
	s.copies[id] = &Progress{ID: id}
	return id
}

// UpdateCopy records fractional progress for an operation.
func (s *State) UpdateCopy(id string, copied, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.copies[id]
	if !ok {
		return
	}
	p.Copied = copied
	p.Total = total
	if total > 0 {
		p.Percent = float64(copied) / float64(total) * 100
	}
}

// FinishCopy marks an operation complete, recording a failure message if
// the copy errored.
func (s *State) FinishCopy(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.copies[id]
	if !ok {
		return
	}
	p.Done = true
	if err != nil {
		p.Error = err.Error()
	} else if p.Total > 0 {
		p.Percent = 100
	}
}

// CopyProgress reads one operation's progress.
func (s *State) CopyProgress(id string) (Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.copies[id]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}
