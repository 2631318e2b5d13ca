package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore is the single-process session store used when Redis is not configured.
// Sessions are stored serialized so callers never share state with the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates a new MemorySessionStore
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a new session
func (m *MemorySessionStore) Create(_ context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(session.ID); ok {
		return ErrSessionExists
	}
	m.sessions[session.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Get loads a session by id
func (m *MemorySessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	entry, ok := m.live(id)
	m.mu.Unlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return decodeSession(entry.data)
}

// Update applies fn to the stored session while holding the store lock.
// If fn returns an error nothing is written.
func (m *MemorySessionStore) Update(_ context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.live(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session, err := decodeSession(entry.data)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	m.sessions[id] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}

	// hand back an independent copy
	return decodeSession(data)
}

// Delete removes a session
func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(id); !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed
func (m *MemorySessionStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of stored sessions, expired or not
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// live must be called with mu held
func (m *MemorySessionStore) live(id string) (memoryEntry, bool) {
	entry, ok := m.sessions[id]
	if !ok || !m.now().Before(entry.expiresAt) {
		return memoryEntry{}, false
	}
	return entry, true
}
