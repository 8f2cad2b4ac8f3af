package server

import (
	"errors"
	"net/http"

	"mediadepot/internal/media"
)

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	table, err := s.parseTable(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state := sessionState(r)
	writeSuccess(w, envelope{
		"ids":   state.CartGet(table.String()),
		"count": state.CartCount(table.String()),
	})
}

// handleCartItems returns the full decorated rows for the selection,
// used by the cart view and the download list.
func (s *Server) handleCartItems(w http.ResponseWriter, r *http.Request) {
	table, err := s.parseTable(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state := sessionState(r)
	assets, err := s.media.GetByIDs(r.Context(), table, state.CartGet(table.String()))
	if err != nil {
		writeError(w, err)
		return
	}

	type cartItem struct {
		media.Asset
		AbsolutePath string `json:"absolute_path"`
		ThumbPath    string `json:"thumb_path"`
	}
	items := make([]cartItem, 0, len(assets))
	for _, asset := range assets {
		dec := s.resolver.Decorate(asset.FilePath, asset.FileType)
		items = append(items, cartItem{
			Asset:        asset,
			AbsolutePath: dec.AbsolutePath,
			ThumbPath:    dec.ThumbPath,
		})
	}
	writeSuccess(w, envelope{"items": items})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table string   `json:"table"`
		IDs   []string `json:"ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	table, err := media.ParseTable(req.Table)
	if err != nil {
		writeError(w, err)
		return
	}

	state := sessionState(r)
	state.CartAdd(table.String(), req.IDs)
	writeSuccess(w, envelope{"count": state.CartCount(table.String())})
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table string `json:"table"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	table, err := media.ParseTable(req.Table)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionState(r).CartClear(table.String())
	writeSuccess(w, nil)
}

// handleCartUpdate applies one field edit to every selected asset and
// syncs each edit into the other table when the id exists there too. The
// shared secret gates the whole batch.
func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table string `json:"table"`
		Field string `json:"field"`
		Value string `json:"value"`
		Key   string `json:"key"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkAdminKey(req.Key); err != nil {
		writeError(w, err)
		return
	}
	table, err := media.ParseTable(req.Table)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, ok := media.ParseEditableField(req.Field); !ok {
		writeError(w, badRequest("field is not editable: "+req.Field))
		return
	}

	state := sessionState(r)
	updated, synced := 0, 0
	for _, id := range state.CartGet(table.String()) {
		affected, err := s.media.UpdateField(r.Context(), table, id, req.Field, req.Value)
		if err != nil {
			writeError(w, err)
			return
		}
		if affected == 0 {
			continue
		}
		updated++
		didSync, err := s.media.SyncField(r.Context(), table, id, req.Field, req.Value)
		if err != nil {
			// Sync is best-effort: the primary edit stuck, report and go on.
			writeSuccess(w, envelope{
				"updated": updated,
				"synced":  synced,
				"warning": "cross-table sync failed: " + err.Error(),
			})
			return
		}
		if didSync {
			synced++
		}
	}
	writeSuccess(w, envelope{"updated": updated, "synced": synced})
}

// handleCartPrune deletes every selected asset and drops the ids from the
// session's carts.
func (s *Server) handleCartPrune(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table string `json:"table"`
		Key   string `json:"key"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkAdminKey(req.Key); err != nil {
		writeError(w, err)
		return
	}
	table, err := media.ParseTable(req.Table)
	if err != nil {
		writeError(w, err)
		return
	}

	state := sessionState(r)
	deleted := 0
	for _, id := range state.CartGet(table.String()) {
		err := s.media.Delete(r.Context(), table, id)
		if errors.Is(err, media.ErrNotFound) {
			// Stale selection: the row is already gone, just drop the id.
			state.CartRemove(id)
			continue
		}
		if err != nil {
			writeError(w, err)
			return
		}
		state.CartRemove(id)
		deleted++
	}
	writeSuccess(w, envelope{"deleted": deleted})
}
