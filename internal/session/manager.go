package session

import (
	"sync"

	"github.com/triple-tgg/sams-sub000/internal/refdata"
)

// Manager is the in-memory registry of live import sessions, keyed by
// session ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create opens a new session over a fresh reference snapshot and registers it.
func (m *Manager) Create(sourceFile string, lookups *refdata.Snapshot) *Session {
	s := New(sourceFile, lookups)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get looks a session up by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears a session down and removes it from the registry.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Close()
	delete(m.sessions, id)
	return true
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
