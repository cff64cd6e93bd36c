package models

import (
	"context"
	"time"
)

// ActionKind is the declared role of an action type.
type ActionKind string

const (
	ActionKindTrigger ActionKind = "trigger"
	ActionKindAction  ActionKind = "action"
	ActionKindLogic   ActionKind = "logic"
	ActionKindWait    ActionKind = "wait"
	ActionKindOutput  ActionKind = "output"
)

// ActionSpec is what specification() returns: the static description of an
// action type used by the compiler and by tooling. OutputPorts == ["*"]
// means the action may emit any port name; the executor then skips port
// validation for that action.
type ActionSpec struct {
	Name        string
	Kind        ActionKind
	InputPorts  []string
	OutputPorts []string
	// ParamsSchema is optional and opaque to the engine; actions may use it
	// for documentation or host-side form generation. The engine never
	// validates against it directly — validate_params is authoritative.
	ParamsSchema map[string]any
}

// DeclaresAnyPort reports whether the action's output_ports is the wildcard
// ["*"], meaning the executor must not port-validate its outcomes.
func (s *ActionSpec) DeclaresAnyPort() bool {
	return len(s.OutputPorts) == 1 && s.OutputPorts[0] == PortAny
}

// HasOutputPort reports whether port is in the action's declared set.
func (s *ActionSpec) HasOutputPort(port string) bool {
	for _, p := range s.OutputPorts {
		if p == port {
			return true
		}
	}
	return false
}

// SuspensionType names the kind of pause an action requests.
type SuspensionType string

const (
	SuspensionInterval         SuspensionType = "interval"
	SuspensionSchedule         SuspensionType = "schedule"
	SuspensionWebhook          SuspensionType = "webhook"
	SuspensionSubWorkflowSync  SuspensionType = "sub_workflow_sync"
	SuspensionSubWorkflowAsync SuspensionType = "sub_workflow_async"
	SuspensionFireForget       SuspensionType = "sub_workflow_fire_forget"
	SuspensionRetry            SuspensionType = "retry"
)

// IntervalSuspensionData is the data shape for SuspensionInterval.
type IntervalSuspensionData struct {
	DurationMs int64     `json:"duration_ms"`
	ResumeAt   time.Time `json:"resume_at"`
}

// ScheduleSuspensionData is the data shape for SuspensionSchedule.
type ScheduleSuspensionData struct {
	ScheduleAt time.Time `json:"schedule_at"`
	Timezone   string    `json:"timezone,omitempty"`
}

// WebhookSuspensionData is the data shape for SuspensionWebhook.
type WebhookSuspensionData struct {
	ResumeToken string         `json:"resume_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	WebhookURL  string         `json:"webhook_url,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// SubWorkflowSuspensionData is the data shape for the three sub_workflow_*
// suspension types.
type SubWorkflowSuspensionData struct {
	WorkflowID      string         `json:"workflow_id"`
	InputData       map[string]any `json:"input_data,omitempty"`
	TimeoutMs       int64          `json:"timeout_ms,omitempty"`
	FailureStrategy string         `json:"failure_strategy,omitempty"`
}

// RetrySuspensionData is the data shape for SuspensionRetry.
type RetrySuspensionData struct {
	Attempt  int       `json:"attempt"`
	DelayMs  int64     `json:"delay_ms"`
	ResumeAt time.Time `json:"resume_at"`
}

// OutcomeKind tags the variant of an ActionOutcome.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeCompletedWithSharedState
	OutcomeSuspended
	OutcomeFailed
)

// ActionOutcome is the single most important contract in the system: a
// tagged union over the four ways an action invocation can end. Exactly one
// of the variant-specific field groups is meaningful, selected by Kind.
type ActionOutcome struct {
	Kind OutcomeKind

	// Completed / CompletedWithSharedState
	OutputData  map[string]any
	OutputPort  string
	ContextData map[string]any
	SharedState map[string]any // patch applied to workflow vars, CompletedWithSharedState only

	// Suspended
	SuspensionType SuspensionType
	SuspensionData any

	// Failed
	Error      error
	ErrorPort  string // defaults to PortError when routing is requested
}

// Completed builds a Completed outcome.
func Completed(output map[string]any, port string, context map[string]any) ActionOutcome {
	return ActionOutcome{Kind: OutcomeCompleted, OutputData: output, OutputPort: port, ContextData: context}
}

// CompletedWithSharedState builds a CompletedWithSharedState outcome.
func CompletedWithSharedState(output map[string]any, port string, sharedState, context map[string]any) ActionOutcome {
	return ActionOutcome{
		Kind: OutcomeCompletedWithSharedState, OutputData: output, OutputPort: port,
		ContextData: context, SharedState: sharedState,
	}
}

// Suspended builds a Suspended outcome.
func Suspended(suspensionType SuspensionType, data any) ActionOutcome {
	return ActionOutcome{Kind: OutcomeSuspended, SuspensionType: suspensionType, SuspensionData: data}
}

// Failed builds a Failed outcome. If port is empty, PortError is used when
// the caller routes the error.
func Failed(err error, port string) ActionOutcome {
	if port == "" {
		port = PortError
	}
	return ActionOutcome{Kind: OutcomeFailed, Error: err, ErrorPort: port}
}

// Action is the pluggable contract every action type implements.
type Action interface {
	// Specification returns the static description used by the compiler
	// and tooling.
	Specification() ActionSpec

	// ValidateParams validates rendered params before execution. The
	// default passthrough is to return params unmodified and a nil error.
	ValidateParams(params map[string]any) (map[string]any, error)

	// Execute runs the action given rendered params and the node context
	// (see engine package for the context shape).
	Execute(ctx context.Context, nodeCtx ExecutionContext) (ActionOutcome, error)

	// Resume continues a previously suspended invocation of this action.
	// Only meaningful for actions that return Suspended outcomes.
	Resume(ctx context.Context, nodeCtx ExecutionContext, resumeData any) (ActionOutcome, error)
}

// ExecutionContext is the structured context passed to Execute/Resume.
type ExecutionContext struct {
	Params         map[string]any
	Input          map[string]any // $input: port -> data
	Nodes          map[string]any // $nodes: node_key -> latest output
	NodeContexts   map[string]any // $node_contexts: node_key -> latest context
	Vars           map[string]any // $vars: workflow variables
	Env            map[string]any // $env: caller-supplied environment
	CurrentNodeKey string
	RunIndex       int
	ExecutionIndex int
	Loopback       bool
}
