// Package ui keeps the ephemeral modal visibility flags of a practice client.
package ui

import (
	"sync"

	"session-ready/internal/observe"
)

// State is a snapshot of every flag.
type State struct {
	ShowUserConfig     bool
	ShowAgentEdit      bool
	ShowClientSelector bool
}

// Editing reports whether a configuration modal is open. Live sessions are
// ended while the operator edits the persona or their own profile.
func (s State) Editing() bool { return s.ShowUserConfig || s.ShowAgentEdit }

type Flags struct {
	mu    sync.RWMutex
	state State

	listeners observe.Registry[State]
}

// NewFlags starts with the profile setup visible.
func NewFlags() *Flags {
	return &Flags{state: State{ShowUserConfig: true}}
}

func (f *Flags) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *Flags) SetShowUserConfig(show bool) {
	f.set(func(s *State) { s.ShowUserConfig = show })
}

func (f *Flags) SetShowAgentEdit(show bool) {
	f.set(func(s *State) { s.ShowAgentEdit = show })
}

func (f *Flags) SetShowClientSelector(show bool) {
	f.set(func(s *State) { s.ShowClientSelector = show })
}

func (f *Flags) Subscribe(fn func(State)) (unsubscribe func()) {
	return f.listeners.Subscribe(fn)
}

func (f *Flags) set(mut func(*State)) {
	f.mu.Lock()
	mut(&f.state)
	st := f.state
	f.mu.Unlock()
	f.listeners.Notify(st)
}
