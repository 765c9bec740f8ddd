package persona

import (
	"fmt"
	"sync"

	"session-ready/internal/observe"
)

// ChangeKind names the store operation that produced a Change.
type ChangeKind string

const (
	ChangeCurrent ChangeKind = "current"
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind    ChangeKind
	Persona Persona
	Current Persona
}

// Store is the single source of truth for built-in personas, custom personas
// and the active one. Construct one per process (or per test).
type Store struct {
	mu       sync.RWMutex
	builtins []Persona
	custom   []Persona
	current  Persona

	listeners observe.Registry[Change]
}

// NewStore seeds the store with builtins; the first one becomes current.
func NewStore(builtins []Persona) *Store {
	s := &Store{builtins: append([]Persona(nil), builtins...)}
	if len(s.builtins) > 0 {
		s.current = s.builtins[0]
	}
	return s
}

func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.listeners.Subscribe(fn)
}

func (s *Store) Current() Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Builtins() []Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Persona(nil), s.builtins...)
}

func (s *Store) Custom() []Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Persona(nil), s.custom...)
}

// All returns the combined catalog: custom personas first, then builtins whose
// id is not shadowed by a custom one.
func (s *Store) All() []Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Persona, 0, len(s.custom)+len(s.builtins))
	seen := make(map[string]bool, len(s.custom))
	for _, p := range s.custom {
		out = append(out, p)
		seen[p.ID] = true
	}
	for _, p := range s.builtins {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Lookup resolves id against custom personas, then builtins.
func (s *Store) Lookup(id string) (Persona, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupUnlocked(id)
}

func (s *Store) lookupUnlocked(id string) (Persona, bool) {
	for _, p := range s.custom {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range s.builtins {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

func (s *Store) SetCurrent(p Persona) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	s.listeners.Notify(Change{Kind: ChangeCurrent, Persona: p, Current: p})
}

// SetCurrentByID makes the persona with id current. An unknown id leaves the
// current persona in place and returns a *ResolutionError.
func (s *Store) SetCurrentByID(id string) error {
	s.mu.Lock()
	p, ok := s.lookupUnlocked(id)
	if !ok {
		s.mu.Unlock()
		return &ResolutionError{ID: id}
	}
	s.current = p
	s.mu.Unlock()
	s.listeners.Notify(Change{Kind: ChangeCurrent, Persona: p, Current: p})
	return nil
}

// AddCustom appends p to the custom list and makes it current. A custom
// persona may reuse a builtin id to override it, but custom ids are unique.
// p must carry one of VocalProfiles.
func (s *Store) AddCustom(p Persona) error {
	if !p.Voice.Valid() {
		return fmt.Errorf("add persona %q: voice %q: %w", p.ID, p.Voice, ErrUnknownVoice)
	}
	s.mu.Lock()
	for _, c := range s.custom {
		if c.ID == p.ID {
			s.mu.Unlock()
			return fmt.Errorf("add persona %q: %w", p.ID, ErrDuplicateID)
		}
	}
	s.custom = append(s.custom, p)
	s.current = p
	s.mu.Unlock()
	s.listeners.Notify(Change{Kind: ChangeAdded, Persona: p, Current: p})
	return nil
}

// Update merges patch into the persona with id in every view that holds it:
// the custom list, the builtin override and the current pointer. A patch
// naming an unknown voice changes nothing.
func (s *Store) Update(id string, patch Patch) error {
	if patch.Voice != nil && !patch.Voice.Valid() {
		return fmt.Errorf("update persona %q: voice %q: %w", id, *patch.Voice, ErrUnknownVoice)
	}
	s.mu.Lock()
	base, ok := s.lookupUnlocked(id)
	if !ok {
		s.mu.Unlock()
		return &ResolutionError{ID: id}
	}
	merged := base.Apply(patch)
	for i := range s.custom {
		if s.custom[i].ID == id {
			s.custom[i] = merged
		}
	}
	for i := range s.builtins {
		if s.builtins[i].ID == id {
			s.builtins[i] = merged
		}
	}
	if s.current.ID == id {
		s.current = merged
	}
	cur := s.current
	s.mu.Unlock()
	s.listeners.Notify(Change{Kind: ChangeUpdated, Persona: merged, Current: cur})
	return nil
}
