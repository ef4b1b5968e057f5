package pipeline

import (
	"fmt"
	"sync"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// Registry maps stage names to stages. Registration order is kept so
// listings are stable.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	order  []string
}

// NewRegistry creates a registry holding the given stages.
func NewRegistry(stages ...Stage) *Registry {
	r := &Registry{stages: make(map[string]Stage)}
	for _, s := range stages {
		r.Register(s)
	}
	return r
}

// Register adds a stage, replacing any stage with the same name.
func (r *Registry) Register(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stages[s.Name()]; !exists {
		r.order = append(r.order, s.Name())
	}
	r.stages[s.Name()] = s
}

// Get returns the stage registered under name.
func (r *Registry) Get(name string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", gaerrors.ErrUnrecognizedSelection, name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stages[name]
	return ok
}

// Names lists registered stage names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
