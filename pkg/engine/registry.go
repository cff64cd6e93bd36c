package engine

import (
	"sync"

	"github.com/smilemakc/prana/pkg/models"
)

// Registry is the process-wide, thread-safe action registry. It is
// populated once at host startup and treated as immutable thereafter;
// lookups are O(1).
type Registry struct {
	mu      sync.RWMutex
	actions map[string]models.Action
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]models.Action)}
}

// Register registers an action under its specification's name. Re-registering
// a name replaces the previous action.
func (r *Registry) Register(action models.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[action.Specification().Name] = action
}

// Get retrieves an action by type name.
func (r *Registry) Get(actionType string) (models.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[actionType]
	if !ok {
		return nil, models.ErrActionNotFound(actionType)
	}
	return a, nil
}

// Has reports whether an action is registered under actionType.
func (r *Registry) Has(actionType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[actionType]
	return ok
}

// List returns all registered action type names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.actions))
	for name := range r.actions {
		out = append(out, name)
	}
	return out
}

// Unregister removes an action type.
func (r *Registry) Unregister(actionType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, actionType)
}

// Kind implements compiler.ActionSpecifier so the compiler can check an
// action's kind (e.g. to find the trigger node) without depending on the
// full engine package.
func (r *Registry) Kind(actionType string) (models.ActionKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[actionType]
	if !ok {
		return "", false
	}
	return a.Specification().Kind, true
}
