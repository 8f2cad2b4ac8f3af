package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleQueueList(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, envelope{
		"items":  s.queue.Items(),
		"cursor": s.queue.Cursor(),
	})
}

func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, envelope{"stats": s.queue.Stats()})
}

// handleQueueTemplate returns the remembered field values for a category
// so the form can be pre-filled.
func (s *Server) handleQueueTemplate(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeError(w, badRequest("category is required"))
		return
	}
	writeSuccess(w, envelope{"template": s.queue.Template(category)})
}

func (s *Server) handleQueueMetadata(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, badRequest("index must be an integer"))
		return
	}
	meta, err := s.queue.EnsureMetadata(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"metadata": meta})
}

// handleQueueAdd enqueues individual files or a whole folder.
func (s *Server) handleQueueAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paths  []string `json:"paths"`
		Folder string   `json:"folder"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Paths) == 0 && req.Folder == "" {
		writeError(w, badRequest("paths or folder is required"))
		return
	}

	added := 0
	if req.Folder != "" {
		n, err := s.queue.AddFolder(r.Context(), req.Folder)
		if err != nil {
			writeError(w, err)
			return
		}
		added += n
	}
	if len(req.Paths) > 0 {
		n, err := s.queue.AddFiles(r.Context(), req.Paths)
		if err != nil {
			writeError(w, err)
			return
		}
		added += n
	}
	writeSuccess(w, envelope{"added": added})
}

func (s *Server) queueIndexAction(w http.ResponseWriter, r *http.Request, action func(int) error) {
	var req struct {
		Index int `json:"index"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := action(req.Index); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"cursor": s.queue.Cursor()})
}

func (s *Server) handleQueueSkip(w http.ResponseWriter, r *http.Request) {
	s.queueIndexAction(w, r, s.queue.Skip)
}

func (s *Server) handleQueueRetry(w http.ResponseWriter, r *http.Request) {
	s.queueIndexAction(w, r, s.queue.Retry)
}

func (s *Server) handleQueueRemove(w http.ResponseWriter, r *http.Request) {
	s.queueIndexAction(w, r, s.queue.Remove)
}

// handleQueueSubmit catalogs one queued file: copies it into the depot
// and inserts its metadata row.
func (s *Server) handleQueueSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index  int               `json:"index"`
		Fields map[string]string `json:"fields"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.queue.Submit(r.Context(), req.Index, req.Fields); err != nil {
		writeError(w, err)
		return
	}
	item, err := s.queue.Item(req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"item": item, "cursor": s.queue.Cursor()})
}

func (s *Server) handleQueueUndo(w http.ResponseWriter, r *http.Request) {
	record, err := s.queue.Undo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"undone": record})
}

func (s *Server) handleQueueClear(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.Clear(); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *Server) handleQueueClearCompleted(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.ClearCompleted(); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"stats": s.queue.Stats()})
}
