package engine

import (
	"context"
	"time"

	"github.com/smilemakc/prana/pkg/models"
)

// TemplateRenderer is an opaque dependency: render a map of templates
// against a context, returning the rendered map.
// Single-expression templates preserve their native type; the engine never
// inspects the renderer's internals.
type TemplateRenderer interface {
	Render(templates map[string]any, context map[string]any) (map[string]any, error)
}

// NodeExecutor performs context assembly, param rendering, validation,
// action invocation, and outcome normalization into a NodeExecution.
type NodeExecutor struct {
	registry *Registry
	renderer TemplateRenderer
}

// NewNodeExecutor builds a NodeExecutor backed by the given registry and
// template renderer.
func NewNodeExecutor(registry *Registry, renderer TemplateRenderer) *NodeExecutor {
	return &NodeExecutor{registry: registry, renderer: renderer}
}

// NodeExecutionOutcome is the node executor's return value: the normalized
// NodeExecution record plus a classification the graph executor switches on.
type NodeExecutionOutcome struct {
	Kind          models.OutcomeKind
	NodeExecution *models.NodeExecution
	SharedState   map[string]any
}

// ExecuteNode runs execute_node: node, execution (for vars),
// runtime (for $nodes/$node_contexts/$env), routedInput, and the
// already-assigned execution_index/run_index.
func (ne *NodeExecutor) ExecuteNode(
	ctx context.Context,
	node *models.Node,
	execution *models.WorkflowExecution,
	rt *Runtime,
	routedInput map[string]any,
	executionIndex, runIndex int,
) NodeExecutionOutcome {
	started := timeNow()

	action, err := ne.registry.Get(node.Type)
	if err != nil {
		return ne.failOutcome(node.Key, executionIndex, runIndex, routedInput, started, err, "")
	}

	spec := action.Specification()

	nodeCtx := models.ExecutionContext{
		Input:          routedInput,
		Nodes:          rt.AllNodeOutputs(),
		NodeContexts:   rt.AllNodeContexts(),
		Vars:           execution.Vars,
		Env:            rt.Env(),
		CurrentNodeKey: node.Key,
		RunIndex:       runIndex,
		ExecutionIndex: executionIndex,
		Loopback:       runIndex > 0,
	}

	renderedParams, err := ne.renderer.Render(node.Params, renderContext(nodeCtx))
	if err != nil {
		return ne.failOutcome(node.Key, executionIndex, runIndex, routedInput, started,
			models.ErrTemplateRender(node.Key, err), "")
	}
	nodeCtx.Params = renderedParams

	validated, err := action.ValidateParams(renderedParams)
	if err != nil {
		return ne.failOutcome(node.Key, executionIndex, runIndex, routedInput, started,
			models.ErrValidation(node.Key, err.Error()), "")
	}
	nodeCtx.Params = validated

	outcome := ne.invoke(ctx, action, nodeCtx)

	return ne.normalize(node, spec, outcome, executionIndex, runIndex, routedInput, renderedParams, started)
}

// ResumeNode runs resume_node: same context assembly, with
// loopback forced false (resume is not loop-back), then action.Resume.
func (ne *NodeExecutor) ResumeNode(
	ctx context.Context,
	node *models.Node,
	execution *models.WorkflowExecution,
	rt *Runtime,
	suspended *models.NodeExecution,
	resumeData any,
) NodeExecutionOutcome {
	started := timeNow()

	action, err := ne.registry.Get(node.Type)
	if err != nil {
		return ne.failOutcome(node.Key, suspended.ExecutionIndex, suspended.RunIndex, suspended.InputData, started, err, "")
	}
	spec := action.Specification()

	nodeCtx := models.ExecutionContext{
		Params:         suspended.ParamsSnapshot,
		Input:          suspended.InputData,
		Nodes:          rt.AllNodeOutputs(),
		NodeContexts:   rt.AllNodeContexts(),
		Vars:           execution.Vars,
		Env:            rt.Env(),
		CurrentNodeKey: node.Key,
		RunIndex:       suspended.RunIndex,
		ExecutionIndex: suspended.ExecutionIndex,
		Loopback:       false,
	}

	var outcome models.ActionOutcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				outcome = models.Failed(models.ErrActionException(node.Key, r), "")
			}
		}()
		outcome, err = action.Resume(ctx, nodeCtx, resumeData)
		if err != nil {
			outcome = models.Failed(err, "")
		}
	}()

	return ne.normalize(node, spec, outcome, suspended.ExecutionIndex, suspended.RunIndex, suspended.InputData, suspended.ParamsSnapshot, started)
}

// invoke calls the action, converting a panic into a Failed outcome so no
// action exception ever unwinds past the node executor.
func (ne *NodeExecutor) invoke(ctx context.Context, action models.Action, nodeCtx models.ExecutionContext) (outcome models.ActionOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = models.Failed(models.ErrActionException(nodeCtx.CurrentNodeKey, r), "")
		}
	}()
	var err error
	outcome, err = action.Execute(ctx, nodeCtx)
	if err != nil {
		return models.Failed(err, "")
	}
	return outcome
}

func (ne *NodeExecutor) normalize(
	node *models.Node,
	spec models.ActionSpec,
	outcome models.ActionOutcome,
	executionIndex, runIndex int,
	input, paramsSnapshot map[string]any,
	started time.Time,
) NodeExecutionOutcome {
	completedAt := timeNow()

	base := &models.NodeExecution{
		NodeKey:        node.Key,
		ExecutionIndex: executionIndex,
		RunIndex:       runIndex,
		ParamsSnapshot: paramsSnapshot,
		InputData:      input,
		StartedAt:      started,
	}

	switch outcome.Kind {
	case models.OutcomeCompleted, models.OutcomeCompletedWithSharedState:
		if !spec.DeclaresAnyPort() && !spec.HasOutputPort(outcome.OutputPort) {
			err := models.ErrInvalidOutputPort(node.Key, outcome.OutputPort)
			return ne.failOutcome(node.Key, executionIndex, runIndex, input, started, err, "")
		}
		base.Status = models.NodeStatusCompleted
		base.OutputData = outcome.OutputData
		base.OutputPort = outcome.OutputPort
		base.ContextData = outcome.ContextData
		base.CompletedAt = &completedAt
		return NodeExecutionOutcome{Kind: outcome.Kind, NodeExecution: base, SharedState: outcome.SharedState}

	case models.OutcomeSuspended:
		base.Status = models.NodeStatusSuspended
		base.SuspensionType = outcome.SuspensionType
		base.SuspensionData = outcome.SuspensionData
		return NodeExecutionOutcome{Kind: models.OutcomeSuspended, NodeExecution: base}

	case models.OutcomeFailed:
		base.Status = models.NodeStatusFailed
		base.ErrorData = errorData(outcome.Error)
		base.OutputPort = outcome.ErrorPort
		base.CompletedAt = &completedAt
		return NodeExecutionOutcome{Kind: models.OutcomeFailed, NodeExecution: base}
	}

	// unreachable for a well-formed ActionOutcome
	base.Status = models.NodeStatusFailed
	base.ErrorData = map[string]any{"message": "action returned an unrecognized outcome kind"}
	base.CompletedAt = &completedAt
	return NodeExecutionOutcome{Kind: models.OutcomeFailed, NodeExecution: base}
}

func (ne *NodeExecutor) failOutcome(nodeKey string, executionIndex, runIndex int, input map[string]any, started time.Time, err error, port string) NodeExecutionOutcome {
	completedAt := timeNow()
	if port == "" {
		port = models.PortError
	}
	return NodeExecutionOutcome{
		Kind: models.OutcomeFailed,
		NodeExecution: &models.NodeExecution{
			NodeKey:        nodeKey,
			ExecutionIndex: executionIndex,
			RunIndex:       runIndex,
			InputData:      input,
			Status:         models.NodeStatusFailed,
			ErrorData:      errorData(err),
			OutputPort:     port,
			StartedAt:      started,
			CompletedAt:    &completedAt,
		},
	}
}

func errorData(err error) map[string]any {
	if err == nil {
		return nil
	}
	data := map[string]any{"message": err.Error()}
	if coded, ok := err.(*models.CodedError); ok {
		data["code"] = coded.Code
		if coded.Details != nil {
			data["details"] = coded.Details
		}
	}
	return data
}

// renderContext flattens an ExecutionContext into the map shape templates
// address.
func renderContext(ctx models.ExecutionContext) map[string]any {
	return map[string]any{
		"input":         ctx.Input,
		"nodes":         ctx.Nodes,
		"node_contexts": ctx.NodeContexts,
		"vars":          ctx.Vars,
		"env":           ctx.Env,
		"execution": map[string]any{
			"current_node_key": ctx.CurrentNodeKey,
			"run_index":        ctx.RunIndex,
			"execution_index":  ctx.ExecutionIndex,
			"loopback":         ctx.Loopback,
		},
	}
}

