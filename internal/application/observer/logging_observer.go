package observer

import (
	"context"

	"github.com/smilemakc/prana/internal/infrastructure/logger"
	"github.com/smilemakc/prana/pkg/engine"
)

// LoggingObserver logs every lifecycle event at debug level, except
// execution_failed and node_failed which log at warn.
type LoggingObserver struct {
	log *logger.Logger
}

// NewLoggingObserver builds a LoggingObserver over log.
func NewLoggingObserver(log *logger.Logger) *LoggingObserver {
	return &LoggingObserver{log: log}
}

func (o *LoggingObserver) Notify(ctx context.Context, event engine.Event) {
	attrs := []any{
		"event", string(event.Type),
		"execution_id", event.ExecutionID,
		"workflow_id", event.WorkflowID,
	}
	if event.NodeKey != "" {
		attrs = append(attrs, "node_key", event.NodeKey)
	}
	if event.Error != nil {
		attrs = append(attrs, "error", event.Error.Error())
	}

	switch event.Type {
	case engine.EventExecutionFailed, engine.EventNodeFailed:
		o.log.Warn("workflow lifecycle event", attrs...)
	default:
		o.log.Debug("workflow lifecycle event", attrs...)
	}
}
