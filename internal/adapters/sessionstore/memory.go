package sessionstore

import (
	"context"
	"sync"

	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
)

// Memory keeps checkout sessions in a mutex-guarded map. Used for tests and
// single-instance deployments where losing sessions on restart is acceptable
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]checkout.Session
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]checkout.Session),
	}
}

func (m *Memory) Load(_ context.Context, sessionID string) (checkout.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	return s, ok, nil
}

func (m *Memory) Save(_ context.Context, sessionID string, session checkout.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionID] = session
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
