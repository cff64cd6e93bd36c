// Package observer provides concrete C7 middleware implementations a host
// registers on an engine.Bus: structured logging and a websocket broadcast
// hub for live dashboards. These are host-side collaborators, not part of
// the engine's own surface.
package observer

import (
	"context"

	"github.com/smilemakc/prana/pkg/engine"
)

// Observer is notified of every lifecycle event. Implementations must not
// panic past Notify in a way that should fail the workflow — engine.Bus
// already recovers panics per-middleware, but observers should still avoid
// relying on that for ordinary control flow.
type Observer interface {
	Notify(ctx context.Context, event engine.Event)
}

// Manager holds an ordered list of observers and exposes them as a single
// engine.Middleware, preserving registration order exactly as engine.Bus
// requires.
type Manager struct {
	observers []Observer
}

// NewManager builds an empty observer manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register appends an observer.
func (m *Manager) Register(o Observer) {
	m.observers = append(m.observers, o)
}

// Middleware adapts the manager's observers into a single engine.Middleware
// suitable for engine.Bus.Register.
func (m *Manager) Middleware() engine.Middleware {
	return func(ctx context.Context, event engine.Event) {
		for _, o := range m.observers {
			o.Notify(ctx, event)
		}
	}
}
