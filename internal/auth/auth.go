// Package auth keeps the roster of operators allowed to practise.
package auth

import (
	"log"
	"sort"
	"sync"
)

// Operator is an allowed practitioner. The profile fields seed the
// operator store when a chat starts.
type Operator struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name,omitempty"`
	ApproachNotes string `json:"approach_notes,omitempty"`
}

type Repository interface {
	LoadAll() ([]Operator, error)
	Upsert(op Operator) error
	Remove(id int64) error
}

type Service struct {
	repo    Repository
	mu      sync.RWMutex
	allowed map[int64]Operator
}

func NewWithRepo(repo Repository, initial []int64) (*Service, error) {
	s := &Service{repo: repo, allowed: make(map[int64]Operator)}
	// preload from repo
	if repo != nil {
		ops, err := repo.LoadAll()
		if err != nil {
			log.Printf("[auth] load allowlist: %v", err)
		}
		for _, op := range ops {
			s.allowed[op.ID] = op
		}
	}
	// merge initial IDs (from env) without profiles
	for _, id := range initial {
		if _, ok := s.allowed[id]; !ok {
			s.allowed[id] = Operator{ID: id}
		}
	}
	return s, nil
}

func (s *Service) IsAllowed(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.allowed[id]
	return ok
}

func (s *Service) Get(id int64) (Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.allowed[id]
	return op, ok
}

// Allow adds or replaces an operator.
func (s *Service) Allow(op Operator) error {
	s.mu.Lock()
	s.allowed[op.ID] = op
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Upsert(op)
	}
	return nil
}

// SaveProfile stores the profile of an already allowed operator.
func (s *Service) SaveProfile(id int64, displayName, approach string) error {
	s.mu.Lock()
	op, ok := s.allowed[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	op.DisplayName, op.ApproachNotes = displayName, approach
	s.allowed[id] = op
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Upsert(op)
	}
	return nil
}

func (s *Service) Revoke(id int64) error {
	s.mu.Lock()
	delete(s.allowed, id)
	s.mu.Unlock()
	if s.repo != nil {
		return s.repo.Remove(id)
	}
	return nil
}

// List returns operators ordered by id.
func (s *Service) List() []Operator {
	s.mu.RLock()
	out := make([]Operator, 0, len(s.allowed))
	for _, op := range s.allowed {
		out = append(out, op)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
