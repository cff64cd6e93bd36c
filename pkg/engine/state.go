package engine

import (
	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/models"
)

// CompleteNode is the complete_node atomic transition: append ne to
// history, update runtime projections, remove the node from the frontier,
// and route its output to successors.
func (rt *Runtime) CompleteNode(ne *models.NodeExecution) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.execution.AppendNodeExecution(ne)
	rt.nodes[ne.NodeKey] = ne.OutputData
	rt.nodeContexts[ne.NodeKey] = ne.ContextData
	rt.deactivateNode(ne.NodeKey)
	rt.executedNodes = append(rt.executedNodes, ne.NodeKey)

	rt.routeOutput(ne.NodeKey, ne.OutputPort, ne.OutputData)
}

// FailNode is the fail_node atomic transition. If the node's on_error policy
// is "continue", the failure is routed via the error port exactly like a
// normal completion; otherwise the caller (graph executor) is responsible
// for failing the whole workflow — FailNode itself only records the
// terminal NodeExecution and, on continue, performs the routing.
func (rt *Runtime) FailNode(ne *models.NodeExecution, policy models.ErrorPolicy) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.execution.AppendNodeExecution(ne)
	rt.deactivateNode(ne.NodeKey)
	rt.executedNodes = append(rt.executedNodes, ne.NodeKey)

	if policy == models.OnErrorContinue {
		port := ne.OutputPort
		if port == "" {
			port = models.PortError
		}
		rt.routeOutput(ne.NodeKey, port, ne.ErrorData)
	}
}

// Suspend is the suspend atomic transition: the suspended NodeExecution has
// already been appended by the caller (it is constructed with
// status=suspended up front); this only sets workflow-level suspension
// fields.
func (rt *Runtime) Suspend(nodeKey string, suspensionType models.SuspensionType, data any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	now := timeNow()
	rt.execution.Status = models.ExecutionStatusSuspended
	rt.execution.SuspendedNodeKey = nodeKey
	rt.execution.SuspensionType = suspensionType
	rt.execution.SuspensionData = data
	rt.execution.SuspendedAt = &now
}

// ResumeSuspension is the resume_suspension atomic transition: clears
// workflow-level suspension fields and returns to running. The suspended
// NodeExecution itself remains in history until CompleteNode/FailNode
// records its terminal form.
func (rt *Runtime) ResumeSuspension() {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.execution.Status = models.ExecutionStatusRunning
	rt.execution.SuspendedNodeKey = ""
	rt.execution.SuspensionType = ""
	rt.execution.SuspensionData = nil
	rt.execution.SuspendedAt = nil
}

// RebuildRuntime reconstructs ephemeral state from the persistent execution
// plus a caller-supplied env: it replays every NodeExecution in
// execution_index order, applying the same output-routing logic CompleteNode
// uses to completed records (and FailNode's error-port routing to failed
// records of on_error=continue nodes), so that rebuild_runtime(strip_runtime(E), env) is behaviorally
// indistinguishable from E: rebuilding twice yields the same result as
// rebuilding once, since replay is a deterministic fold over an immutable
// history.
func RebuildRuntime(graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, env map[string]any, maxIterations int) *Runtime {
	rt := &Runtime{
		graph:         graph,
		execution:     execution,
		nodes:         make(map[string]map[string]any),
		nodeContexts:  make(map[string]map[string]any),
		env:           env,
		activeNodes:   make(map[string]bool),
		nodeDepth:     make(map[string]int),
		pendingInput:  make(map[string]map[string]map[string]any),
		maxIterations: maxIterations,
	}
	rt.activateNode(graph.TriggerNodeKey, 0)

	for _, ne := range execution.AllNodeExecutionsOrdered() {
		switch ne.Status {
		case models.NodeStatusCompleted:
			rt.nodes[ne.NodeKey] = ne.OutputData
			rt.nodeContexts[ne.NodeKey] = ne.ContextData
			rt.deactivateNode(ne.NodeKey)
			rt.routeOutput(ne.NodeKey, ne.OutputPort, ne.OutputData)
		case models.NodeStatusFailed:
			rt.deactivateNode(ne.NodeKey)
			if node := graph.NodeMap(ne.NodeKey); node != nil && node.Settings.EffectiveOnError() == models.OnErrorContinue {
				port := ne.OutputPort
				if port == "" {
					port = models.PortError
				}
				rt.routeOutput(ne.NodeKey, port, ne.ErrorData)
			}
		case models.NodeStatusSuspended:
			// left active=false, but not yet completed; resume will
			// re-activate it explicitly via the suspended_node_key path.
			rt.deactivateNode(ne.NodeKey)
		}
	}

	// Re-seed the suspended node itself, if any, so resume_node finds it in
	// the frontier once it completes.
	if sne := execution.FindSuspendedNodeExecution(); sne != nil {
		rt.activateNode(sne.NodeKey, rt.nodeDepth[sne.NodeKey])
	}

	return rt
}
