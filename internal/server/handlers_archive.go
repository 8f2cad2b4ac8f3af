package server

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"mediadepot/internal/fileutil"
	"mediadepot/internal/logging"
)

// handleArchiveMigrate copies project assets into the archive tree. The
// operation is per-file best-effort; the stats report what happened.
func (s *Server) handleArchiveMigrate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []string `json:"ids"`
		Exts []string `json:"exts"`
		Key  string   `json:"key"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkAdminKey(req.Key); err != nil {
		writeError(w, err)
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, badRequest("ids is required"))
		return
	}
	stats := s.migrator.Migrate(r.Context(), req.IDs, req.Exts)
	writeSuccess(w, envelope{"stats": stats})
}

// handleCopy starts a background copy of one depot file to a destination
// directory and returns an operation id for progress polling.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
		Dest   string `json:"dest"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Source == "" || req.Dest == "" {
		writeError(w, badRequest("source and dest are required"))
		return
	}

	src := s.resolver.Expand(req.Source)
	dst := fileutil.UniqueDest(req.Dest, filepath.Base(src))

	state := sessionState(r)
	opID := state.StartCopy()
	go func() {
		err := fileutil.CopyFileProgress(src, dst, func(copied, total int64) {
			state.UpdateCopy(opID, copied, total)
		})
		if err != nil {
			s.logger.Error("copy failed",
				logging.String("source", src),
				logging.Error(err))
		}
		state.FinishCopy(opID, err)
	}()

	writeSuccess(w, envelope{"op_id": opID, "dest": dst})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, ok := sessionState(r).CopyProgress(chi.URLParam(r, "opID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{"success": false, "error": "unknown operation id"})
		return
	}
	writeSuccess(w, envelope{"progress": progress})
}
