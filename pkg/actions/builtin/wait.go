package builtin

import (
	"context"
	"time"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// WaitInterval is the reference wait action: it always suspends with
// SuspensionInterval on its first invocation and completes on resume. The
// host is responsible for scheduling the wake-up and calling
// resume_workflow once duration_ms has elapsed; the engine itself never
// owns a scheduler or timer.
type WaitInterval struct{ actions.Base }

// NewWaitInterval builds the "flow.wait_interval" action.
func NewWaitInterval() *WaitInterval {
	return &WaitInterval{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "flow.wait_interval",
		Kind:        models.ActionKindWait,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain},
	}}}
}

func (a *WaitInterval) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	durationMs := int64(actions.OptInt(nodeCtx.Params, "duration_ms", 0))
	data := models.IntervalSuspensionData{
		DurationMs: durationMs,
		ResumeAt:   time.Now().Add(time.Duration(durationMs) * time.Millisecond),
	}
	return models.Suspended(models.SuspensionInterval, data), nil
}

func (a *WaitInterval) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	return models.Completed(input, models.PortMain, nil), nil
}

// WaitSchedule is the reference schedule-wait action: it suspends with
// SuspensionSchedule, and the host is responsible for driving
// resume_workflow on the matching cron tick. Unlike WaitInterval's fixed
// duration, the resume moment here is computed by the host's own scheduler,
// not the engine.
type WaitSchedule struct{ actions.Base }

// NewWaitSchedule builds the "flow.wait_schedule" action.
func NewWaitSchedule() *WaitSchedule {
	return &WaitSchedule{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "flow.wait_schedule",
		Kind:        models.ActionKindWait,
		InputPorts:  []string{models.PortMain},
		OutputPorts: []string{models.PortMain},
	}}}
}

func (a *WaitSchedule) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	timezone := actions.OptString(nodeCtx.Params, "timezone", "UTC")
	data := models.ScheduleSuspensionData{
		Timezone: timezone,
	}
	return models.Suspended(models.SuspensionSchedule, data), nil
}

func (a *WaitSchedule) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	input, _ := nodeCtx.Input[models.PortMain].(map[string]any)
	firedAt, _ := resumeData.(time.Time)
	out := map[string]any{}
	for k, v := range input {
		out[k] = v
	}
	if !firedAt.IsZero() {
		out["fired_at"] = firedAt
	}
	return models.Completed(out, models.PortMain, nil), nil
}
