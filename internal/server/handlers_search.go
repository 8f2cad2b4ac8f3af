package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mediadepot/internal/media"
	"mediadepot/internal/media/search"
)

func (s *Server) parseTable(r *http.Request) (media.Table, error) {
	name := r.URL.Query().Get("table")
	if name == "" {
		return media.TableProject, nil
	}
	return media.ParseTable(name)
}

// handleSearch is the main query endpoint. The view parameter selects the
// page size: "grid" pages are smaller than "table" pages.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	table, err := s.parseTable(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	page := 1
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, badRequest("page must be a whole number: "+raw))
			return
		}
	}
	pageSize := s.cfg.Search.TablePageSize
	if query.Get("view") == "grid" {
		pageSize = s.cfg.Search.GridPageSize
	}

	result, err := s.search.Search(r.Context(), search.Params{
		Table:    table,
		Query:    query.Get("query"),
		Field:    query.Get("field"),
		FileType: query.Get("file_type"),
		Genre:    query.Get("genre"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"result": result})
}

// handleTopics returns the top value frequencies for one field, feeding
// the word-cloud view.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	table, err := s.parseTable(r)
	if err != nil {
		writeError(w, err)
		return
	}
	field := r.URL.Query().Get("field")
	if field == "" {
		field = media.FieldGenre.String()
	}

	counts, err := s.media.CountByField(r.Context(), table, field, s.cfg.Search.TopTopics)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"topics": counts})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	table, err := s.parseTable(r)
	if err != nil {
		writeError(w, err)
		return
	}
	asset, err := s.media.Random(r.Context(), table)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{
		"asset":      asset,
		"decoration": s.resolver.Decorate(asset.FilePath, asset.FileType),
	})
}

// handleBrowse steps through the archive table one asset at a time,
// remembering the position per session. The dir parameter moves the
// cursor: "next", "prev", or empty to re-read the current position.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	state := sessionState(r)
	total, err := s.media.Count(r.Context(), media.TableArchive, "", nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if total == 0 {
		writeError(w, media.ErrNotFound)
		return
	}

	cursor := state.ArchiveCursor()
	switch r.URL.Query().Get("dir") {
	case "next":
		cursor++
	case "prev":
		cursor--
	}
	// Wrap around at both ends.
	cursor = ((cursor % total) + total) % total
	state.SetArchiveCursor(cursor)

	assets, err := s.media.Select(r.Context(), media.TableArchive, "", nil, 1, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(assets) == 0 {
		writeError(w, media.ErrNotFound)
		return
	}
	asset := assets[0]
	writeSuccess(w, envelope{
		"asset":      asset,
		"decoration": s.resolver.Decorate(asset.FilePath, asset.FileType),
		"index":      cursor,
		"total":      total,
	})
}

func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	presence, err := s.media.Presence(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, envelope{"presence": presence})
}
