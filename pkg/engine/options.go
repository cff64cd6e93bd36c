package engine

import (
	"context"
	"strings"
	"time"
)

// BackoffStrategy selects how RetryPolicy.Delay grows between attempts.
type BackoffStrategy string

const (
	BackoffConstant    BackoffStrategy = "constant"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryPolicy configures node-level retry, driven by a node's
// settings.retry_on_failed/max_retries/retry_delay_ms.
type RetryPolicy struct {
	MaxRetries      int
	InitialDelay    time.Duration
	Backoff         BackoffStrategy
	RetryableErrors []string // substrings matched against the error message; empty = retry all
}

// DefaultRetryPolicy is a conservative default for nodes that opt into retry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		Backoff:      BackoffExponential,
	}
}

// NoRetryPolicy never retries.
func NoRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 0}
}

// ShouldRetry reports whether err matches the policy's retryable set. An
// empty RetryableErrors list means every error is retryable.
func (p RetryPolicy) ShouldRetry(err error) bool {
	if len(p.RetryableErrors) == 0 {
		return true
	}
	msg := err.Error()
	for _, substr := range p.RetryableErrors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Delay computes the backoff delay before the given attempt (1-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	switch p.Backoff {
	case BackoffLinear:
		return p.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		d := p.InitialDelay
		for i := 1; i < attempt; i++ {
			d *= 2
		}
		return d
	default:
		return p.InitialDelay
	}
}

// Sleep waits for the computed delay or ctx cancellation, whichever comes
// first.
func (p RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Delay(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExecutionOptions configures one execute_workflow/resume_workflow
// invocation.
type ExecutionOptions struct {
	Env           map[string]any
	Variables     map[string]any
	MaxIterations int
	DefaultRetry  RetryPolicy
}

// DefaultExecutionOptions returns the engine's defaults: the standard
// iteration cap and no node-level retry unless a node opts in via settings.
func DefaultExecutionOptions() *ExecutionOptions {
	return &ExecutionOptions{
		MaxIterations: DefaultMaxIterations,
		DefaultRetry:  NoRetryPolicy(),
	}
}
