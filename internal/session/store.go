package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store resolves a session id to its state. Implementations create state
// lazily; a never-seen id is a fresh session, not an error.
type Store interface {
	Get(id string) *State
	Drop(id string)
}

// NewID mints a session identifier.
func NewID() string {
	return uuid.NewString()
}

// MemoryStore keeps sessions in process memory, which matches the
// single-local-operator model. State is lost on restart; the ingest queue
// has its own JSON persistence for exactly that reason.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State
}

// NewMemoryStore builds an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*State)}
}

// Get returns the state for id, creating it on first access.
func (m *MemoryStore) Get(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[id]
	if !ok {
		state = NewState()
		m.sessions[id] = state
	}
	return state
}

// Drop discards a session's state.
func (m *MemoryStore) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
