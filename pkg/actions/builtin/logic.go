package builtin

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// IfCondition is the reference conditional-branch action: it routes to
// output port "true" or "false" based on its (already-rendered) "condition"
// param. Because the template renderer preserves native types for
// whole-string templates, a condition param written as
// "{{ $input.main.x > 5 }}" arrives here as a Go bool, not a string.
type IfCondition struct{ actions.Base }

// NewIfCondition builds the "logic.if_condition" action.
func NewIfCondition() *IfCondition {
	return &IfCondition{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "logic.if_condition",
		Kind:        models.ActionKindLogic,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{"true", "false"},
	}}}
}

func (a *IfCondition) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	cond, _ := nodeCtx.Params["condition"].(bool)
	port := "false"
	if cond {
		port = "true"
	}
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, port, nil), nil
}

func (a *IfCondition) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "logic.if_condition never suspends")
}
