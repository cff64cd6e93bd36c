package models

import "time"

// NodeExecutionStatus is the status of a single NodeExecution record.
type NodeExecutionStatus string

const (
	NodeStatusRunning   NodeExecutionStatus = "running"
	NodeStatusCompleted NodeExecutionStatus = "completed"
	NodeStatusFailed    NodeExecutionStatus = "failed"
	NodeStatusSuspended NodeExecutionStatus = "suspended"
)

// NodeExecution is one persistent, append-only record of a single node
// invocation. Many may exist per node key across loop iterations; they are
// never mutated in place once a terminal status is recorded.
type NodeExecution struct {
	NodeKey        string              `json:"node_key"`
	Status         NodeExecutionStatus `json:"status"`
	ExecutionIndex int                 `json:"execution_index"`
	RunIndex       int                 `json:"run_index"`

	ParamsSnapshot map[string]any `json:"params_snapshot,omitempty"`
	InputData      map[string]any `json:"input_data,omitempty"`
	OutputData     map[string]any `json:"output_data,omitempty"`
	OutputPort     string         `json:"output_port,omitempty"`
	ContextData    map[string]any `json:"context_data,omitempty"`
	ErrorData      map[string]any `json:"error_data,omitempty"`

	SuspensionType SuspensionType `json:"suspension_type,omitempty"`
	SuspensionData any            `json:"suspension_data,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// WorkflowExecutionStatus is the overall status of a WorkflowExecution.
type WorkflowExecutionStatus string

const (
	ExecutionStatusPending   WorkflowExecutionStatus = "pending"
	ExecutionStatusRunning   WorkflowExecutionStatus = "running"
	ExecutionStatusSuspended WorkflowExecutionStatus = "suspended"
	ExecutionStatusCompleted WorkflowExecutionStatus = "completed"
	ExecutionStatusFailed    WorkflowExecutionStatus = "failed"
)

// WorkflowExecution holds every persistent field of a workflow run. It is
// the sole source of truth: ephemeral runtime state (engine.Runtime) is
// always re-derivable from these fields plus a caller-supplied env.
type WorkflowExecution struct {
	ID                string                       `json:"id"`
	WorkflowID        string                       `json:"workflow_id"`
	ExecutionGraphRef string                       `json:"execution_graph_ref"`
	Status            WorkflowExecutionStatus      `json:"status"`
	TriggerType       string                       `json:"trigger_type,omitempty"`
	Vars              map[string]any               `json:"vars,omitempty"`
	NodeExecutions    map[string][]*NodeExecution  `json:"node_executions"`
	CurrentExecutionIndex int                      `json:"current_execution_index"`

	SuspendedNodeKey string         `json:"suspended_node_key,omitempty"`
	SuspensionType   SuspensionType `json:"suspension_type,omitempty"`
	SuspensionData   any            `json:"suspension_data,omitempty"`
	SuspendedAt      *time.Time     `json:"suspended_at,omitempty"`

	PreparationData map[string]any `json:"preparation_data,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// IsTerminal reports whether the execution has reached a terminal status.
func (e *WorkflowExecution) IsTerminal() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusFailed
}

// AppendNodeExecution appends ne to the node's execution history in
// execution_index order. Callers must have already assigned ExecutionIndex
// and RunIndex.
func (e *WorkflowExecution) AppendNodeExecution(ne *NodeExecution) {
	if e.NodeExecutions == nil {
		e.NodeExecutions = make(map[string][]*NodeExecution)
	}
	e.NodeExecutions[ne.NodeKey] = append(e.NodeExecutions[ne.NodeKey], ne)
}

// LatestNodeExecution returns the most recent NodeExecution for key, or nil
// if the node has never executed.
func (e *WorkflowExecution) LatestNodeExecution(key string) *NodeExecution {
	list := e.NodeExecutions[key]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// NextRunIndex returns the run_index that the next invocation of key should
// use: the count of prior invocations. Suspended records are not counted, so
// an invocation that suspended and was later resumed (a suspended record plus
// its terminal record) counts once.
func (e *WorkflowExecution) NextRunIndex(key string) int {
	n := 0
	for _, ne := range e.NodeExecutions[key] {
		if ne.Status != NodeStatusSuspended {
			n++
		}
	}
	return n
}

// FindSuspendedNodeExecution locates the currently suspended NodeExecution,
// honoring invariant 4 (at most one suspended node at a time).
func (e *WorkflowExecution) FindSuspendedNodeExecution() *NodeExecution {
	if e.SuspendedNodeKey == "" {
		return nil
	}
	ne := e.LatestNodeExecution(e.SuspendedNodeKey)
	if ne != nil && ne.Status == NodeStatusSuspended {
		return ne
	}
	return nil
}

// AllNodeExecutionsOrdered returns every NodeExecution across every node
// key, ordered by execution_index — the total order invariant 2/3 describe.
func (e *WorkflowExecution) AllNodeExecutionsOrdered() []*NodeExecution {
	total := 0
	for _, list := range e.NodeExecutions {
		total += len(list)
	}
	out := make([]*NodeExecution, 0, total)
	for _, list := range e.NodeExecutions {
		out = append(out, list...)
	}
	// insertion sort by execution index; history sizes are small relative
	// to iteration caps and this keeps the dependency-free stdlib-only path
	// simple and stable.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ExecutionIndex > out[j].ExecutionIndex; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
