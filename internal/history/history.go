// Package history keeps per-session chat turns for text-only providers.
package history

import (
	"sync"

	"session-ready/internal/llm"
)

type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
	limit    int
}

// NewManager keeps at most limit turns per session; zero means unbounded.
func NewManager(limit int) *Manager {
	return &Manager{sessions: make(map[string][]llm.Message), limit: limit}
}

func (m *Manager) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func (m *Manager) AppendUser(key, content string) {
	m.append(key, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Manager) AppendAssistant(key, content string) {
	m.append(key, llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (m *Manager) append(key string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := append(m.sessions[key], msg)
	if m.limit > 0 && len(msgs) > m.limit {
		msgs = append([]llm.Message(nil), msgs[len(msgs)-m.limit:]...)
	}
	m.sessions[key] = msgs
}

// Get returns a copy of the session's turns, oldest first.
func (m *Manager) Get(key string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]llm.Message(nil), m.sessions[key]...)
}

func (m *Manager) Len(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[key])
}
