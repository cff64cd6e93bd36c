package builtin

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// InvokeSubWorkflowSync demonstrates the sub_workflow_sync suspension
// contract: the action itself never calls another engine instance
// directly. It suspends with SubWorkflowSuspensionData
// naming the target workflow and input, and trusts the host to run the child
// workflow out-of-band and call resume_workflow with the child's result.
//
// A full sub-engine dispatcher is a host concern (it needs workflow storage,
// a second compiler.Compile call, and its own execution lifecycle) and is out
// of this package's scope; this action only emits and consumes the contract.
type InvokeSubWorkflowSync struct {
	actions.Base
}

// NewInvokeSubWorkflowSync builds the sub_workflow.invoke_sync reference action.
func NewInvokeSubWorkflowSync() *InvokeSubWorkflowSync {
	return &InvokeSubWorkflowSync{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "sub_workflow.invoke_sync",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain, models.PortError},
	}}}
}

func (a *InvokeSubWorkflowSync) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	workflowID, err := actions.RequireString(nodeCtx.Params, "workflow_id")
	if err != nil {
		return models.ActionOutcome{}, err
	}

	inputData, _ := nodeCtx.Params["input_data"].(map[string]any)
	timeoutMs := actions.OptInt(nodeCtx.Params, "timeout_ms", 0)
	failureStrategy, _ := nodeCtx.Params["failure_strategy"].(string)
	if failureStrategy == "" {
		failureStrategy = "fail"
	}

	return models.Suspended(models.SuspensionSubWorkflowSync, models.SubWorkflowSuspensionData{
		WorkflowID:      workflowID,
		InputData:       inputData,
		TimeoutMs:       int64(timeoutMs),

		FailureStrategy: failureStrategy,
	}), nil
}

// Resume is called once the host has run the child workflow and supplies its
// result as resumeData. A map is treated as the child's output on "main"; an
// error is treated as the child's failure and routed per failure_strategy
// recorded at suspend time — but since that strategy lives only in the
// suspension data the host already inspected, Resume here simply trusts
// resumeData's shape: map[string]any succeeds, error fails.
func (a *InvokeSubWorkflowSync) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	switch v := resumeData.(type) {
	case error:
		return models.Failed(v, models.PortError), nil
	case map[string]any:
		return models.Completed(v, models.PortMain, nil), nil
	default:
		return models.Completed(map[string]any{}, models.PortMain, nil), nil
	}
}

// InvokeSubWorkflowAsync is the fire-and-continue sibling: it suspends with
// sub_workflow_async and resumes as soon as the host confirms the child
// started, without waiting for the child's completion.
type InvokeSubWorkflowAsync struct {
	actions.Base
}

// NewInvokeSubWorkflowAsync builds the sub_workflow.invoke_async reference action.
func NewInvokeSubWorkflowAsync() *InvokeSubWorkflowAsync {
	return &InvokeSubWorkflowAsync{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "sub_workflow.invoke_async",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain, models.PortError},
	}}}
}

func (a *InvokeSubWorkflowAsync) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	workflowID, err := actions.RequireString(nodeCtx.Params, "workflow_id")
	if err != nil {
		return models.ActionOutcome{}, err
	}
	inputData, _ := nodeCtx.Params["input_data"].(map[string]any)

	return models.Suspended(models.SuspensionSubWorkflowAsync, models.SubWorkflowSuspensionData{
		WorkflowID: workflowID,
		InputData:  inputData,
	}), nil
}

func (a *InvokeSubWorkflowAsync) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	childExecutionID, _ := resumeData.(string)
	return models.Completed(map[string]any{"child_execution_id": childExecutionID}, models.PortMain, nil), nil
}

// InvokeSubWorkflowFireForget suspends just long enough for the host to
// acknowledge it has dispatched the child; it never inspects the child's
// outcome at all.
type InvokeSubWorkflowFireForget struct {
	actions.Base
}

// NewInvokeSubWorkflowFireForget builds the sub_workflow.invoke_fire_forget reference action.
func NewInvokeSubWorkflowFireForget() *InvokeSubWorkflowFireForget {
	return &InvokeSubWorkflowFireForget{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "sub_workflow.invoke_fire_forget",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain},
	}}}
}

func (a *InvokeSubWorkflowFireForget) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	workflowID, err := actions.RequireString(nodeCtx.Params, "workflow_id")
	if err != nil {
		return models.ActionOutcome{}, err
	}
	inputData, _ := nodeCtx.Params["input_data"].(map[string]any)

	return models.Suspended(models.SuspensionFireForget, models.SubWorkflowSuspensionData{
		WorkflowID: workflowID,
		InputData:  inputData,
	}), nil
}

func (a *InvokeSubWorkflowFireForget) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.Completed(map[string]any{}, models.PortMain, nil), nil
}
