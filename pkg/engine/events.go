package engine

import (
	"context"
	"time"

	"github.com/smilemakc/prana/pkg/models"
)

// EventType names a lifecycle event the engine emits.
type EventType string

const (
	EventExecutionStarted   EventType = "execution_started"
	EventExecutionCompleted EventType = "execution_completed"
	EventExecutionFailed    EventType = "execution_failed"
	EventExecutionSuspended EventType = "execution_suspended"
	EventExecutionResumed   EventType = "execution_resumed"
	EventNodeStarting       EventType = "node_starting"
	EventNodeCompleted      EventType = "node_completed"
	EventNodeFailed         EventType = "node_failed"
	EventNodeSuspended      EventType = "node_suspended"
)

// Event is the payload for a single lifecycle notification. Every event
// carries at least {execution_id, timestamp}; node events add node_key, and
// node_completed/node_failed/node_suspended also carry node_execution
// (node_starting does not); suspension adds {suspension_type, suspension_data}.
type Event struct {
	Type        EventType
	ExecutionID string
	WorkflowID  string
	Timestamp   time.Time

	NodeKey       string
	NodeExecution *models.NodeExecution

	SuspensionType models.SuspensionType
	SuspensionData any

	Error error
}

// Middleware observes one event in the pipeline. Middlewares never fail a
// workflow and never veto delivery to later middlewares: a panic from one
// is recovered and handed to the Bus's onPanic callback (if set), and the
// pipeline moves on to the next regardless.
type Middleware func(ctx context.Context, event Event)

// Bus is the ordered middleware pipeline. Middlewares run synchronously in
// registration order.
type Bus struct {
	middlewares []Middleware
	onPanic     func(event Event, recovered any)
}

// NewBus creates an empty event bus. onPanic, if non-nil, is called whenever
// a middleware panics; it is expected to log, not re-raise.
func NewBus(onPanic func(event Event, recovered any)) *Bus {
	return &Bus{onPanic: onPanic}
}

// Register appends a middleware to the pipeline.
func (b *Bus) Register(m Middleware) {
	b.middlewares = append(b.middlewares, m)
}

// Emit runs event through every registered middleware in registration
// order. A panic in any middleware is recovered, reported via onPanic, and
// every remaining middleware still runs — Emit never fails a workflow.
func (b *Bus) Emit(ctx context.Context, event Event) {
	for _, m := range b.middlewares {
		b.safeCall(ctx, m, event)
	}
}

func (b *Bus) safeCall(ctx context.Context, m Middleware, event Event) {
	defer func() {
		if r := recover(); r != nil && b.onPanic != nil {
			b.onPanic(event, r)
		}
	}()
	m(ctx, event)
}
