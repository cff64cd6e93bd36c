package builtin

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// ManualTrigger is the reference trigger action: it hands the workflow's
// input_data straight through as its output, unmodified. Real hosts
// register a trigger per source (webhook, cron, event) — out of scope here.
type ManualTrigger struct{ actions.Base }

// NewManualTrigger builds the "trigger.manual" action.
func NewManualTrigger() *ManualTrigger {
	return &ManualTrigger{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "trigger.manual",
		Kind:        models.ActionKindTrigger,
		InputPorts:  nil,
		OutputPorts: []string{models.PortMain},
	}}}
}

func (t *ManualTrigger) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, models.PortMain, nil), nil
}

func (t *ManualTrigger) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "trigger.manual never suspends")
}
