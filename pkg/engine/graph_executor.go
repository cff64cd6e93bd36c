package engine

import (
	"context"
	"time"

	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/models"
)

// ResultKind classifies how execute_workflow/resume_workflow ended.
type ResultKind int

const (
	ResultOk ResultKind = iota
	ResultSuspend
	ResultError
)

// Result is the return value of ExecuteWorkflow/ResumeWorkflow: the Ok |
// Suspend | Error variant, always carrying the full execution audit trail.
type Result struct {
	Kind           ResultKind
	Execution      *models.WorkflowExecution
	SuspensionType models.SuspensionType
	SuspensionData any
	Err            error
}

// Executor is the graph executor (C6): the main loop, ready-node discovery,
// branch-following selection, and suspension/resume orchestration. It holds
// no execution-specific state itself — Runtime and WorkflowExecution carry
// that — so one Executor safely drives many concurrent executions.
type Executor struct {
	registry     *Registry
	nodeExecutor *NodeExecutor
	bus          *Bus
}

// NewExecutor builds a graph executor over the given action registry,
// template renderer, and event bus.
func NewExecutor(registry *Registry, renderer TemplateRenderer, bus *Bus) *Executor {
	return &Executor{
		registry:     registry,
		nodeExecutor: NewNodeExecutor(registry, renderer),
		bus:          bus,
	}
}

// InitializeExecution builds a fresh WorkflowExecution and Runtime for graph:
// initialize_execution(graph, context).
func (ex *Executor) InitializeExecution(graph *compiler.ExecutionGraph, id string, opts *ExecutionOptions) (*models.WorkflowExecution, *Runtime) {
	if opts == nil {
		opts = DefaultExecutionOptions()
	}
	vars := opts.Variables
	if vars == nil {
		vars = make(map[string]any)
	}
	for k, v := range graph.Variables {
		if _, exists := vars[k]; !exists {
			vars[k] = v
		}
	}

	execution := &models.WorkflowExecution{
		ID:                id,
		WorkflowID:        graph.WorkflowID,
		ExecutionGraphRef: graph.WorkflowID,
		Status:            models.ExecutionStatusPending,
		Vars:              vars,
		NodeExecutions:    make(map[string][]*models.NodeExecution),
		StartedAt:         timeNow(),
	}

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	rt := NewRuntime(graph, execution, opts.Env, maxIterations)
	return execution, rt
}

// ExecuteWorkflow runs execute_workflow(graph, input_data, options): seeds
// the trigger's routed_input with input_data under port "main" and drives
// the main loop to completion, suspension, or failure.
func (ex *Executor) ExecuteWorkflow(ctx context.Context, graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, rt *Runtime, inputData map[string]any) Result {
	execution.Status = models.ExecutionStatusRunning
	rt.SeedInput(graph.TriggerNodeKey, models.PortMain, inputData)

	ex.bus.Emit(ctx, Event{Type: EventExecutionStarted, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, Timestamp: timeNow()})

	return ex.runLoop(ctx, graph, execution, rt)
}

// ResumeWorkflow runs resume_workflow(execution, resume_data, options):
// rebuild runtime, resume the suspended node, and re-enter the main loop
// on success.
func (ex *Executor) ResumeWorkflow(ctx context.Context, graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, resumeData any, opts *ExecutionOptions) Result {
	if execution.Status != models.ExecutionStatusSuspended {
		return Result{Kind: ResultError, Execution: execution, Err: models.ErrInvalidSuspendedExecution("execution is not suspended")}
	}
	suspended := execution.FindSuspendedNodeExecution()
	if suspended == nil {
		return Result{Kind: ResultError, Execution: execution, Err: models.ErrInvalidSuspendedExecution("no suspended node execution found")}
	}

	if opts == nil {
		opts = DefaultExecutionOptions()
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	rt := RebuildRuntime(graph, execution, opts.Env, maxIterations)

	node := graph.NodeMap(suspended.NodeKey)
	if node == nil {
		return Result{Kind: ResultError, Execution: execution, Err: models.ErrInvalidSuspendedExecution("suspended node no longer present in graph")}
	}

	rt.ResumeSuspension()
	ex.bus.Emit(ctx, Event{Type: EventExecutionResumed, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, Timestamp: timeNow()})

	outcome := ex.nodeExecutor.ResumeNode(ctx, node, execution, rt, suspended, resumeData)
	if res, handled := ex.applyOutcome(ctx, graph, execution, rt, node, outcome); handled {
		return res
	}

	return ex.runLoop(ctx, graph, execution, rt)
}

// runLoop is the main loop: pick a ready node, execute it, route its
// output, repeat until nothing is ready, something suspends, or something
// fails.
func (ex *Executor) runLoop(ctx context.Context, graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, rt *Runtime) Result {
	for {
		if ok, count := rt.CheckIteration(); !ok {
			return ex.fail(ctx, execution, models.ErrInfiniteLoopProtection(count-1))
		}

		if rt.IsEmpty() {
			now := timeNow()
			execution.Status = models.ExecutionStatusCompleted
			execution.CompletedAt = &now
			ex.bus.Emit(ctx, Event{Type: EventExecutionCompleted, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, Timestamp: now})
			return Result{Kind: ResultOk, Execution: execution}
		}

		ready := rt.ReadyNodes()
		if len(ready) == 0 {
			return ex.fail(ctx, execution, models.ErrNoReadyNodes())
		}

		selected := ex.selectByBranchFollowing(rt, ready)
		node := graph.NodeMap(selected)
		if node == nil {
			return ex.fail(ctx, execution, models.ErrNoReadyNodes().WithDetails(map[string]any{"node_key": selected}))
		}

		outcome := ex.executeSingleNode(ctx, graph, execution, rt, node)
		if res, done := ex.applyOutcome(ctx, graph, execution, rt, node, outcome); done {
			return res
		}
		// else: Completed/CompletedWithSharedState — loop continues
	}
}

// selectByBranchFollowing picks the ready node with the greatest node_depth,
// ties broken by insertion order into active_nodes.
func (ex *Executor) selectByBranchFollowing(rt *Runtime, ready []string) string {
	best := ready[0]
	bestDepth := rt.Depth(best)
	for _, key := range ready[1:] {
		if d := rt.Depth(key); d > bestDepth {
			best, bestDepth = key, d
		}
	}
	return best
}

// executeSingleNode dispatches one node, including the synchronous retry
// loop a node's settings.retry_on_failed opts into: retries happen before
// the NodeExecution is finalized, so a successful retry produces exactly
// one persisted entry (keeping execution_index/run_index one-per-dispatch,
// per invariant 3), while an exhausted retry still yields a single Failed
// outcome.
func (ex *Executor) executeSingleNode(ctx context.Context, graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, rt *Runtime, node *models.Node) NodeExecutionOutcome {
	runIndex := rt.NextRunIndex(node.Key)
	executionIndex := rt.NextExecutionIndex()
	routedInput := rt.RoutedInput(node.Key)

	ex.bus.Emit(ctx, Event{Type: EventNodeStarting, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, NodeKey: node.Key, Timestamp: timeNow()})

	outcome := ex.nodeExecutor.ExecuteNode(ctx, node, execution, rt, routedInput, executionIndex, runIndex)

	settings := node.Settings
	if outcome.Kind == models.OutcomeFailed && settings != nil && settings.RetryOnFailed {
		policy := RetryPolicy{
			MaxRetries:   settings.MaxRetries,
			InitialDelay: time.Duration(settings.RetryDelayMs) * time.Millisecond,
			Backoff:      BackoffConstant,
		}
		for attempt := 1; attempt <= policy.MaxRetries && outcome.Kind == models.OutcomeFailed; attempt++ {
			if err := policy.Sleep(ctx, attempt); err != nil {
				break
			}
			outcome = ex.nodeExecutor.ExecuteNode(ctx, node, execution, rt, routedInput, executionIndex, runIndex)
		}
	}

	return outcome
}

// applyOutcome applies the state transition and event emission for one
// node's outcome, returning (result, true) when the main loop should return
// immediately (suspend or fail), or (zero, false) when it should continue.
func (ex *Executor) applyOutcome(ctx context.Context, graph *compiler.ExecutionGraph, execution *models.WorkflowExecution, rt *Runtime, node *models.Node, outcome NodeExecutionOutcome) (Result, bool) {
	ne := outcome.NodeExecution

	switch outcome.Kind {
	case models.OutcomeCompleted, models.OutcomeCompletedWithSharedState:
		rt.CompleteNode(ne)
		if outcome.SharedState != nil {
			for k, v := range outcome.SharedState {
				execution.Vars[k] = v
			}
		}
		ex.bus.Emit(ctx, Event{Type: EventNodeCompleted, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, NodeKey: node.Key, NodeExecution: ne, Timestamp: timeNow()})
		return Result{}, false

	case models.OutcomeSuspended:
		execution.AppendNodeExecution(ne)
		rt.Suspend(node.Key, ne.SuspensionType, ne.SuspensionData)
		ex.bus.Emit(ctx, Event{Type: EventNodeSuspended, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, NodeKey: node.Key, NodeExecution: ne, SuspensionType: ne.SuspensionType, SuspensionData: ne.SuspensionData, Timestamp: timeNow()})
		ex.bus.Emit(ctx, Event{Type: EventExecutionSuspended, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, SuspensionType: ne.SuspensionType, SuspensionData: ne.SuspensionData, Timestamp: timeNow()})
		return Result{Kind: ResultSuspend, Execution: execution, SuspensionType: ne.SuspensionType, SuspensionData: ne.SuspensionData}, true

	case models.OutcomeFailed:
		policy := node.Settings.EffectiveOnError()
		rt.FailNode(ne, policy)
		ex.bus.Emit(ctx, Event{Type: EventNodeFailed, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, NodeKey: node.Key, NodeExecution: ne, Timestamp: timeNow()})
		if policy == models.OnErrorContinue {
			return Result{}, false
		}
		return ex.fail(ctx, execution, nodeFailureError(ne)), true
	}

	return ex.fail(ctx, execution, models.NewCodedError(models.CodeNodeExecutionFailed, "unrecognized outcome kind")), true
}

func (ex *Executor) fail(ctx context.Context, execution *models.WorkflowExecution, err error) Result {
	now := timeNow()
	execution.Status = models.ExecutionStatusFailed
	execution.CompletedAt = &now
	execution.Error = err.Error()
	ex.bus.Emit(ctx, Event{Type: EventExecutionFailed, ExecutionID: execution.ID, WorkflowID: execution.WorkflowID, Error: err, Timestamp: now})
	return Result{Kind: ResultError, Execution: execution, Err: err}
}

func nodeFailureError(ne *models.NodeExecution) error {
	msg := "node execution failed"
	if ne.ErrorData != nil {
		if m, ok := ne.ErrorData["message"].(string); ok {
			msg = m
		}
	}
	return models.NewCodedError(models.CodeNodeExecutionFailed, msg).WithDetails(map[string]any{"node_key": ne.NodeKey})
}
