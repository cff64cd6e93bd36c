package builtin

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// DataTransform is the reference data-shaping action: its params are
// already-rendered templates (e.g. {"value": "{{ $input.main.value * 2 }}"})
// and it emits them verbatim as output on "main". Real hosts typically ship
// a richer transform/mapping DSL; that is a domain plugin out of scope here.
type DataTransform struct{ actions.Base }

// NewDataTransform builds the "data.transform" action.
func NewDataTransform() *DataTransform {
	return &DataTransform{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "data.transform",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain, models.PortError},
	}}}
}

func (a *DataTransform) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	return models.Completed(nodeCtx.Params, models.PortMain, nil), nil
}

func (a *DataTransform) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "data.transform never suspends")
}
