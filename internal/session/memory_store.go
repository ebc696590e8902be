package session

import (
	"errors"
	"sync"
	"time"

	"kedai/internal/models"
)

// MemoryStore is an in-process Store backed by a map.
type MemoryStore struct {
	sessions map[string]Session
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Save stores or replaces a session.
func (m *MemoryStore) Save(s Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	s.User = s.User.Redacted()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get returns a live session. Expired sessions are removed on read.
func (m *MemoryStore) Get(id string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if s.Expired(m.now()) {
		m.Delete(id)
		return Session{}, false
	}
	return s, true
}

// Delete removes a session if present.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// RefreshUser replaces the snapshot in all sessions of user.ID.
func (m *MemoryStore) RefreshUser(user models.User) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	refreshed := 0
	for id, s := range m.sessions {
		if s.User.ID == user.ID {
			s.User = user.Redacted()
			m.sessions[id] = s
			refreshed++
		}
	}
	return refreshed
}

// DeleteByUser removes all sessions of userID.
func (m *MemoryStore) DeleteByUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, s := range m.sessions {
		if s.User.ID == userID {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
