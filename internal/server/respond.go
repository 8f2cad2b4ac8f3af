package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mediadepot/internal/ingest"
	"mediadepot/internal/jobs"
	"mediadepot/internal/media"
	"mediadepot/internal/media/search"
)

// ErrUnauthorized indicates a missing or mismatched shared secret.
var ErrUnauthorized = errors.New("missing or invalid admin key")

// envelope is the structured payload shape every endpoint returns.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, payload envelope) {
	if payload == nil {
		payload = envelope{}
	}
	payload["success"] = true
	writeJSON(w, http.StatusOK, payload)
}

// writeError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, conflict 409, authorization 401, everything else 500.
// The response carries a reason string, never an internal error chain.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, search.ErrPageNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, jobs.ErrNotFound),
		errors.Is(err, ingest.ErrIndexOutOfRange),
		errors.Is(err, ingest.ErrNothingToUndo):
		status = http.StatusNotFound
	case errors.Is(err, media.ErrInvalidTable),
		errors.Is(err, media.ErrInvalidField),
		errors.Is(err, jobs.ErrInvalidBaseName),
		errors.Is(err, ingest.ErrMissingFields),
		errors.Is(err, ingest.ErrBadStatus),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, jobs.ErrNameConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, envelope{"success": false, "error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(detail string) error {
	return fmt.Errorf("%w: %s", errBadRequest, detail)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}
