package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager hands out opaque tokens for sessions and finds them again.
// Sessions live in process memory; a restart logs everyone out.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// CreateTeacher opens a new teacher session at the passcode gate.
func (m *Manager) CreateTeacher() (string, *Session) {
	return m.add(NewTeacher())
}

// CreateStudent opens a new student session at the code-entry screen.
func (m *Manager) CreateStudent() (string, *Session) {
	return m.add(NewStudent())
}

func (m *Manager) add(s *Session) (string, *Session) {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token, s
}

func (m *Manager) Get(token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Drop forgets a session, ending it.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
