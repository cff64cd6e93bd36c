package engine

import (
	"sync"
	"time"

	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/models"
)

// Runtime is the ephemeral half of an execution: everything that invariant
// 1 (runtime derivability) says must be a pure function of the persistent
// WorkflowExecution plus a caller-supplied env. It is never itself
// persisted; RebuildRuntime reconstructs it from Execution on load.
//
// All mutation goes through the atomic transitions below (CompleteNode,
// FailNode, Suspend, ResumeSuspension, RebuildRuntime) plus SeedInput, which
// sets the trigger's initial input; nothing else writes to these maps, mirroring the RWMutex-guarded accessor discipline the rest
// of this codebase uses for shared execution state.
type Runtime struct {
	mu sync.RWMutex

	graph     *compiler.ExecutionGraph
	execution *models.WorkflowExecution

	nodes        map[string]map[string]any // node_key -> latest output_data
	nodeContexts map[string]map[string]any // node_key -> latest context_data
	env          map[string]any

	activeNodes  map[string]bool
	activeOrder  []string // insertion order, for branch-following tie-break
	nodeDepth    map[string]int
	pendingInput map[string]map[string]map[string]any // to_node_key -> to_port -> data

	iterationCount int
	maxIterations  int
	executedNodes  []string
}

// NewRuntime starts a fresh runtime for a newly initialized execution: the
// trigger node is seeded into active_nodes at depth 0.
func NewRuntime(graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, env map[string]any, maxIterations int) *Runtime {
	rt := &Runtime{
		graph:        graph,
		execution:    execution,
		nodes:        make(map[string]map[string]any),
		nodeContexts: make(map[string]map[string]any),
		env:          env,
		activeNodes:  make(map[string]bool),
		nodeDepth:    make(map[string]int),
		pendingInput: make(map[string]map[string]map[string]any),
		maxIterations: maxIterations,
	}
	rt.activateNode(graph.TriggerNodeKey, 0)
	return rt
}

func (rt *Runtime) activateNode(nodeKey string, depth int) {
	if !rt.activeNodes[nodeKey] {
		rt.activeNodes[nodeKey] = true
		rt.activeOrder = append(rt.activeOrder, nodeKey)
	}
	if depth > rt.nodeDepth[nodeKey] {
		rt.nodeDepth[nodeKey] = depth
	}
}

func (rt *Runtime) deactivateNode(nodeKey string) {
	delete(rt.activeNodes, nodeKey)
	for i, k := range rt.activeOrder {
		if k == nodeKey {
			rt.activeOrder = append(rt.activeOrder[:i], rt.activeOrder[i+1:]...)
			break
		}
	}
}

// ReadyNodes returns the current active_nodes frontier, in insertion order.
func (rt *Runtime) ReadyNodes() []string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make([]string, len(rt.activeOrder))
	copy(out, rt.activeOrder)
	return out
}

// Depth returns a node's current node_depth.
func (rt *Runtime) Depth(nodeKey string) int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.nodeDepth[nodeKey]
}

// IsEmpty reports whether active_nodes is empty — the completion condition
// from invariant 6. It does not look at suspension; the main loop returns on
// a suspension before it checks IsEmpty again.
func (rt *Runtime) IsEmpty() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.activeNodes) == 0
}

// SeedInput sets the initial routed_input for a node (used to seed the
// trigger's "main" port with the workflow's input_data).
func (rt *Runtime) SeedInput(nodeKey, port string, data map[string]any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.pendingInput[nodeKey] == nil {
		rt.pendingInput[nodeKey] = make(map[string]map[string]any)
	}
	rt.pendingInput[nodeKey][port] = data
}

// RoutedInput builds a node's routed_input map by reading every pending
// input keyed to it.
func (rt *Runtime) RoutedInput(nodeKey string) map[string]any {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	ports := rt.pendingInput[nodeKey]
	out := make(map[string]any, len(ports))
	for port, data := range ports {
		out[port] = data
	}
	return out
}

// NodeOutput returns the latest output_data of nodeKey, which templates
// address as nodes.<key>.
func (rt *Runtime) NodeOutput(nodeKey string) (map[string]any, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	v, ok := rt.nodes[nodeKey]
	return v, ok
}

// AllNodeOutputs returns a snapshot of $nodes for context assembly.
func (rt *Runtime) AllNodeOutputs() map[string]any {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make(map[string]any, len(rt.nodes))
	for k, v := range rt.nodes {
		out[k] = v
	}
	return out
}

// AllNodeContexts returns a snapshot of $node_contexts for context assembly.
func (rt *Runtime) AllNodeContexts() map[string]any {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	out := make(map[string]any, len(rt.nodeContexts))
	for k, v := range rt.nodeContexts {
		out[k] = v
	}
	return out
}

// Env returns the caller-supplied environment for $env.
func (rt *Runtime) Env() map[string]any {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.env
}

// NextRunIndex returns the run_index the next dispatch of nodeKey should
// use.
func (rt *Runtime) NextRunIndex(nodeKey string) int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.execution.NextRunIndex(nodeKey)
}

// NextExecutionIndex returns and reserves the next global execution_index.
func (rt *Runtime) NextExecutionIndex() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	idx := rt.execution.CurrentExecutionIndex
	rt.execution.CurrentExecutionIndex++
	return idx
}

// CheckIteration increments the iteration counter and returns ok=true while
// the count is still within the cap (default 10000), false once it exceeds it.
func (rt *Runtime) CheckIteration() (ok bool, count int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.iterationCount++
	return rt.iterationCount <= rt.maxIterations, rt.iterationCount
}

// DefaultMaxIterations is the default iteration safety cap, guarding
// against workflows whose cyclic connections never terminate.
const DefaultMaxIterations = 10000

// routeOutput is the shared routing logic for CompleteNode/FailNode
// (error-port routing reuses it identically). The caller must already hold
// rt.mu.
func (rt *Runtime) routeOutput(fromNodeKey, outputPort string, data map[string]any) {
	successors := rt.graph.Successors(fromNodeKey, outputPort)
	fromDepth := rt.nodeDepth[fromNodeKey]
	for _, conn := range successors {
		if rt.pendingInput[conn.ToNodeKey] == nil {
			rt.pendingInput[conn.ToNodeKey] = make(map[string]map[string]any)
		}
		// latest-wins by execution_index: since routing happens strictly in
		// execution_index order in the single-step main loop, the most
		// recent write is always the last one applied here.
		rt.pendingInput[conn.ToNodeKey][conn.ToPort] = data
		rt.activateNode(conn.ToNodeKey, fromDepth+1)
	}
}

// timeNow is the single clock indirection point so tests can stub it.
var timeNow = time.Now
