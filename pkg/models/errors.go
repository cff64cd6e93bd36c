package models

import (
	"errors"
	"fmt"
)

// Error codes from the engine's error taxonomy. These are codes, not Go
// types: callers branch on CodedError.Code (or errors.Is with a CodedError
// target), not on a type switch.
const (
	CodeNoTriggerNodes        = "no_trigger_nodes"
	CodeMultipleTriggersFound = "multiple_triggers_found"
	CodeTriggerNodeNotFound   = "trigger_node_not_found"
	CodeNodeNotTrigger        = "node_not_trigger"

	CodeActionNotFound = "action_not_found"

	CodeValidationError = "validation_error"

	CodeNodeExecutionFailed = "node_execution_failed"
	CodeInvalidOutputPort   = "invalid_output_port"
	CodeTemplateRenderError = "template_render_error"

	CodeNoReadyNodes             = "no_ready_nodes"
	CodeInfiniteLoopProtection   = "infinite_loop_protection"
	CodeInvalidSuspendedExecution = "invalid_suspended_execution"

	CodeActionException = "action_exception"
)

// CodedError is the engine's error value: a stable code plus structured
// details, optionally wrapping an underlying cause.
type CodedError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *CodedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return e.Code
}

func (e *CodedError) Unwrap() error { return e.Err }

// Is reports whether target is a CodedError with the same Code, allowing
// errors.Is(err, &CodedError{Code: models.CodeActionNotFound}) style checks.
func (e *CodedError) Is(target error) bool {
	var other *CodedError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// NewCodedError builds a CodedError with a message.
func NewCodedError(code, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// WrapCodedError builds a CodedError wrapping an underlying error.
func WrapCodedError(code string, err error) *CodedError {
	return &CodedError{Code: code, Err: err}
}

// WithDetails attaches structured details and returns the same error.
func (e *CodedError) WithDetails(details map[string]any) *CodedError {
	e.Details = details
	return e
}

func ErrNoTriggerNodes() *CodedError {
	return NewCodedError(CodeNoTriggerNodes, "workflow has no trigger node")
}

func ErrMultipleTriggersFound(keys []string) *CodedError {
	return NewCodedError(CodeMultipleTriggersFound, "workflow has multiple trigger nodes").
		WithDetails(map[string]any{"node_keys": keys})
}

func ErrTriggerNodeNotFound(key string) *CodedError {
	return NewCodedError(CodeTriggerNodeNotFound, "trigger node not found").
		WithDetails(map[string]any{"node_key": key})
}

func ErrNodeNotTrigger(key, actualType string) *CodedError {
	return NewCodedError(CodeNodeNotTrigger, "node is not a trigger").
		WithDetails(map[string]any{"node_key": key, "actual_type": actualType})
}

func ErrActionNotFound(actionType string) *CodedError {
	return NewCodedError(CodeActionNotFound, "no action registered for type").
		WithDetails(map[string]any{"type": actionType})
}

func ErrValidation(field, message string) *CodedError {
	return NewCodedError(CodeValidationError, message).
		WithDetails(map[string]any{"field": field})
}

func ErrInvalidOutputPort(nodeKey, port string) *CodedError {
	return NewCodedError(CodeInvalidOutputPort, "action returned a port not in its output_ports").
		WithDetails(map[string]any{"node_key": nodeKey, "port": port})
}

func ErrTemplateRender(nodeKey string, cause error) *CodedError {
	return WrapCodedError(CodeTemplateRenderError, cause).
		WithDetails(map[string]any{"node_key": nodeKey})
}

func ErrNoReadyNodes() *CodedError {
	return NewCodedError(CodeNoReadyNodes, "execution stalled: active nodes present but none ready")
}

func ErrInfiniteLoopProtection(maxIterations int) *CodedError {
	return NewCodedError(CodeInfiniteLoopProtection, "iteration cap reached").
		WithDetails(map[string]any{"max_iterations": maxIterations})
}

func ErrInvalidSuspendedExecution(reason string) *CodedError {
	return NewCodedError(CodeInvalidSuspendedExecution, reason)
}

func ErrActionException(nodeKey string, recovered any) *CodedError {
	return NewCodedError(CodeActionException, fmt.Sprintf("action panicked: %v", recovered)).
		WithDetails(map[string]any{"node_key": nodeKey})
}
