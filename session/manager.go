package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Info summarizes one managed session.
type Info struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	Complete  bool      `json:"complete"`
}

type entry struct {
	session   *Session
	topic     string
	createdAt time.Time
}

// Manager tracks live sessions by debate identifier.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]entry
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]entry)}
}

// Create builds a session from the config, assigns it an identifier and
// registers it. The session is not started.
func (m *Manager) Create(ctx context.Context, cfg Config) (string, *Session, error) {
	s, err := New(ctx, cfg)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = entry{session: s, topic: cfg.Topic, createdAt: time.Now()}
	m.mu.Unlock()

	return id, s, nil
}

// Get returns the session for an identifier.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e.session, ok
}

// List returns a summary of every session, newest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for id, e := range m.sessions {
		infos = append(infos, Info{
			ID:        id,
			Topic:     e.topic,
			CreatedAt: e.createdAt,
			Complete:  e.session.IsComplete(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos
}
