package agents

import (
	"fmt"
	"sync"
)

// Registry manages named specialists. Thread-safe for concurrent access.
type Registry struct {
	mu          sync.RWMutex
	specialists map[string]Specialist
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specialists: make(map[string]Specialist)}
}

// Register adds or replaces a named specialist.
func (r *Registry) Register(name string, s Specialist) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specialists[name] = s
}

// Get retrieves a named specialist.
func (r *Registry) Get(name string) (Specialist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specialists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return s, nil
}
