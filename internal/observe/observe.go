// Package observe holds the listener registry shared by the in-memory stores.
package observe

import (
	"sort"
	"sync"
)

// Registry keeps listeners of a single change type. Notify calls them in
// subscription order on the caller's goroutine.
type Registry[T any] struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(T)
}

func (r *Registry[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listeners == nil {
		r.listeners = make(map[int]func(T))
	}
	id := r.next
	r.next++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Notify must be called without holding the owner's lock: listeners are free
// to read the store that fired them.
func (r *Registry[T]) Notify(v T) {
	r.mu.Lock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.listeners[id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}
