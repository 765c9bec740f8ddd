// Package operator holds the profile of the human running a practice session.
package operator

import (
	"sync"

	"session-ready/internal/observe"
)

// Profile describes the trainee therapist.
type Profile struct {
	DisplayName   string `json:"display_name,omitempty"`
	ApproachNotes string `json:"approach_notes,omitempty"`
}

// Store keeps the profile for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	profile Profile

	listeners observe.Registry[Profile]
}

func NewStore() *Store { return &Store{} }

func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Store) SetDisplayName(name string) {
	s.mu.Lock()
	s.profile.DisplayName = name
	p := s.profile
	s.mu.Unlock()
	s.listeners.Notify(p)
}

func (s *Store) SetApproachNotes(notes string) {
	s.mu.Lock()
	s.profile.ApproachNotes = notes
	p := s.profile
	s.mu.Unlock()
	s.listeners.Notify(p)
}

func (s *Store) Subscribe(fn func(Profile)) (unsubscribe func()) {
	return s.listeners.Subscribe(fn)
}
