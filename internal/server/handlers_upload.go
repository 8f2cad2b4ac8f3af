package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"mediadepot/internal/fileutil"
	"mediadepot/internal/logging"
)

// uploadMemoryLimit bounds the in-memory part of a multipart parse;
// larger bodies spill to temp files.
const uploadMemoryLimit = 32 << 20

// handleUpload receives multipart files, stages them under the state
// directory, and queues the staged copies for ingestion.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		writeError(w, badRequest("invalid multipart body"))
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, badRequest("no files in upload"))
		return
	}

	uploadDir := filepath.Join(s.cfg.Paths.StateDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		writeError(w, err)
		return
	}

	staged := make([]string, 0, len(r.MultipartForm.File["files"]))
	for _, header := range r.MultipartForm.File["files"] {
		src, err := header.Open()
		if err != nil {
			writeError(w, err)
			return
		}
		dest := fileutil.UniqueDest(uploadDir, fileutil.SafeName(filepath.Base(header.Filename)))
		out, err := os.Create(dest)
		if err != nil {
			src.Close()
			writeError(w, err)
			return
		}
		_, copyErr := io.Copy(out, src)
		src.Close()
		if closeErr := out.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			os.Remove(dest)
			writeError(w, copyErr)
			return
		}
		staged = append(staged, dest)
	}

	added, err := s.queue.AddFiles(r.Context(), staged)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("upload staged",
		logging.Int("files", len(staged)),
		logging.Int("queued", added))
	writeSuccess(w, envelope{"staged": len(staged), "queued": added})
}
