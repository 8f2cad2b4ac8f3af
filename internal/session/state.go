package session

import (
	"sort"
	"sync"
)

// State is one client session's mutable data. All methods are safe for
// concurrent use; the cart mapping initializes lazily on first touch.
type State struct {
	mu            sync.Mutex
	carts         map[string]map[string]struct{}
	copies        map[string]*Progress
	archiveCursor int
}

// NewState returns an empty session.
func NewState() *State {
	return &State{}
}

// CartAdd merges ids into the selection for a table. Duplicates collapse.
func (s *State) CartAdd(table string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(table)
	for _, id := range ids {
		if id == "" {
			continue
		}
		cart[id] = struct{}{}
	}
}

// CartGet returns the selected ids for a table, sorted for stable output.
func (s *State) CartGet(table string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(table)
	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CartCount returns the selection size for a table.
func (s *State) CartCount(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cartLocked(table))
}

// CartClear empties the selection for one table.
func (s *State) CartClear(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, table)
}

// CartRemove drops an id from every table's selection, used when an asset
// is pruned from the store.
func (s *State) CartRemove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		delete(cart, id)
	}
}

func (s *State) cartLocked(table string) map[string]struct{} {
	if s.carts == nil {
		s.carts = make(map[string]map[string]struct{})
	}
	cart, ok := s.carts[table]
	if !ok {
		cart = make(map[string]struct{})
		s.carts[table] = cart
	}
	return cart
}

// ArchiveCursor returns the session's browse position in the archive
// table.
func (s *State) ArchiveCursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archiveCursor
}

// SetArchiveCursor records the session's browse position in the archive
// table.
func (s *State) SetArchiveCursor(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archiveCursor = index
}
