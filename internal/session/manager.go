package session

import (
	"sync"

	"bricks-studio/internal/repository"
)

// Manager tracks the active editing sessions of the process, keyed by
// session id. One session belongs to one user; a user may hold several.
type Manager struct {
	repo repository.ProjectRepository

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given project store
func NewManager(repo repository.ProjectRepository) *Manager {
	return &Manager{
		repo:     repo,
		sessions: make(map[string]*Session),
	}
}

// Open creates a new session for a user
func (m *Manager) Open(ownerID string) *Session {
	s := New(ownerID, m.repo)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	return s
}

// Get returns the session with the given id
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops a session's autosave queue and forgets it
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// CloseAll stops every session; used on shutdown
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
