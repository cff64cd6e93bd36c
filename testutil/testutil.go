// Package testutil provides small workflow and action fixtures shared across
// this module's test files: hand-built fixtures over a fixture-generation
// framework.
package testutil

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/engine"
	"github.com/smilemakc/prana/pkg/models"
)

// LinearWorkflow builds a three-node sequential workflow: trigger -> mid ->
// tail, every node wired main-to-main.
func LinearWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:      "wf.linear",
		Name:    "linear",
		Version: 1,
		Nodes: []*models.Node{
			{Key: "trigger", Type: "test.trigger"},
			{Key: "mid", Type: "test.passthrough"},
			{Key: "tail", Type: "test.passthrough"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "trigger", FromPort: models.PortMain, ToNodeKey: "mid", ToPort: models.PortMain},
			{FromNodeKey: "mid", FromPort: models.PortMain, ToNodeKey: "tail", ToPort: models.PortMain},
		},
	}
}

// StubTrigger is a minimal trigger action that passes $input.main through.
type StubTrigger struct{ actions.Base }

func NewStubTrigger() *StubTrigger {
	return &StubTrigger{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "test.trigger",
		Kind:        models.ActionKindTrigger,
		OutputPorts: []string{models.PortMain},
	}}}
}

func (s *StubTrigger) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, models.PortMain, nil), nil
}

func (s *StubTrigger) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "test.trigger never suspends")
}

// StubPassthrough passes $input.main through on "main" unchanged.
type StubPassthrough struct{ actions.Base }

func NewStubPassthrough() *StubPassthrough {
	return &StubPassthrough{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "test.passthrough",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain, models.PortError},
	}}}
}

func (s *StubPassthrough) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, models.PortMain, nil), nil
}

func (s *StubPassthrough) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "test.passthrough never suspends")
}

// StubFailing always fails with a fixed error.
type StubFailing struct{ actions.Base }

func NewStubFailing() *StubFailing {
	return &StubFailing{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "test.failing",
		Kind:        models.ActionKindAction,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain, models.PortError},
	}}}
}

func (s *StubFailing) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	return models.Failed(models.NewCodedError("test_failure", "stub always fails"), models.PortError), nil
}

func (s *StubFailing) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "test.failing never suspends")
}

// StubFlaky fails the first N Execute calls, then completes.
type StubFlaky struct {
	actions.Base
	FailCount int
	calls     int
}

func NewStubFlaky(failCount int) *StubFlaky {
	return &StubFlaky{
		Base: actions.Base{Spec: models.ActionSpec{
			Name:        "test.flaky",
			Kind:        models.ActionKindAction,
			InputPorts:  []string{models.PortMain},
			OutputPorts: []string{models.PortMain, models.PortError},
		}},
		FailCount: failCount,
	}
}

func (s *StubFlaky) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	s.calls++
	if s.calls <= s.FailCount {
		return models.Failed(models.NewCodedError("test_flaky_failure", "not yet"), models.PortError), nil
	}
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, models.PortMain, nil), nil
}

func (s *StubFlaky) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "test.flaky never suspends")
}

// StubSuspending suspends on first Execute with SuspensionWebhook, and
// completes on Resume using resumeData as its output.
type StubSuspending struct{ actions.Base }

func NewStubSuspending() *StubSuspending {
	return &StubSuspending{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "test.suspending",
		Kind:        models.ActionKindWait,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain},
	}}}
}

func (s *StubSuspending) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	return models.Suspended(models.SuspensionWebhook, models.WebhookSuspensionData{ResumeToken: "tok-1"}), nil
}

func (s *StubSuspending) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	output, _ := resumeData.(map[string]any)
	return models.Completed(output, models.PortMain, nil), nil
}

// NewTestRegistry builds a registry pre-populated with the stub actions
// above except StubFlaky, which is not registered.
func NewTestRegistry() *engine.Registry {
	r := engine.NewRegistry()
	r.Register(NewStubTrigger())
	r.Register(NewStubPassthrough())
	r.Register(NewStubFailing())
	r.Register(NewStubSuspending())
	return r
}

// PassthroughRenderer is a no-op TemplateRenderer that returns templates
// unchanged, for tests that don't exercise template rendering.
type PassthroughRenderer struct{}

func (PassthroughRenderer) Render(templates map[string]any, context map[string]any) (map[string]any, error) {
	return templates, nil
}
