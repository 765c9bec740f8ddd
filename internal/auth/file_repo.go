package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores the roster as one indented JSON array.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

func (r *FileRepository) Upsert(op Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	updated := false
	for i, o := range ops {
		if o.ID == op.ID {
			ops[i] = op
			updated = true
			break
		}
	}
	if !updated {
		ops = append(ops, op)
	}
	return r.saveUnlocked(ops)
}

func (r *FileRepository) Remove(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	out := make([]Operator, 0, len(ops))
	for _, o := range ops {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return r.saveUnlocked(out)
}

// loadUnlocked treats an empty or malformed file as an empty roster.
func (r *FileRepository) loadUnlocked() ([]Operator, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	var ops []Operator
	if err := json.NewDecoder(f).Decode(&ops); err != nil {
		return []Operator{}, nil
	}
	return ops, nil
}

func (r *FileRepository) saveUnlocked(ops []Operator) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(ops)
}
