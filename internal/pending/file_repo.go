// Package pending queues access requests from people not yet on the roster.
package pending

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Request is one person asking to practise.
type Request struct {
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type Repository interface {
	LoadAll() ([]Request, error)
	// Upsert stores req and reports whether it was new.
	Upsert(req Request) (bool, error)
	Remove(userID int64) (Request, bool, error)
}

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

func (r *FileRepository) Upsert(req Request) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reqs, err := r.loadUnlocked()
	if err != nil {
		return false, err
	}
	for i, existing := range reqs {
		if existing.UserID == req.UserID {
			// keep the original request time
			req.RequestedAt = existing.RequestedAt
			reqs[i] = req
			return false, r.saveUnlocked(reqs)
		}
	}
	return true, r.saveUnlocked(append(reqs, req))
}

func (r *FileRepository) Remove(userID int64) (Request, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reqs, err := r.loadUnlocked()
	if err != nil {
		return Request{}, false, err
	}
	var (
		out     []Request
		removed Request
		found   bool
	)
	for _, req := range reqs {
		if req.UserID == userID {
			removed, found = req, true
			continue
		}
		out = append(out, req)
	}
	if !found {
		return Request{}, false, nil
	}
	return removed, true, r.saveUnlocked(out)
}

func (r *FileRepository) loadUnlocked() ([]Request, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()
	var reqs []Request
	if err := json.NewDecoder(f).Decode(&reqs); err != nil {
		if err == io.EOF {
			return []Request{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return reqs, nil
}

func (r *FileRepository) saveUnlocked(reqs []Request) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(reqs)
}
