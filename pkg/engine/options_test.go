package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/prana/pkg/engine"
)

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	all := engine.DefaultRetryPolicy()
	assert.True(t, all.ShouldRetry(errors.New("anything")))

	scoped := engine.RetryPolicy{RetryableErrors: []string{"timeout"}}
	assert.True(t, scoped.ShouldRetry(errors.New("request timeout")))
	assert.False(t, scoped.ShouldRetry(errors.New("not found")))
}

func TestRetryPolicy_DelayBackoffShapes(t *testing.T) {
	linear := engine.RetryPolicy{InitialDelay: 100 * time.Millisecond, Backoff: engine.BackoffLinear}
	assert.Equal(t, 100*time.Millisecond, linear.Delay(1))
	assert.Equal(t, 300*time.Millisecond, linear.Delay(3))

	constant := engine.RetryPolicy{InitialDelay: 50 * time.Millisecond, Backoff: engine.BackoffConstant}
	assert.Equal(t, 50*time.Millisecond, constant.Delay(1))
	assert.Equal(t, 50*time.Millisecond, constant.Delay(5))

	exponential := engine.RetryPolicy{InitialDelay: 10 * time.Millisecond, Backoff: engine.BackoffExponential}
	assert.Equal(t, 10*time.Millisecond, exponential.Delay(1))
	assert.Equal(t, 40*time.Millisecond, exponential.Delay(3))
}

func TestRetryPolicy_SleepRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := engine.RetryPolicy{InitialDelay: time.Second}
	err := p.Sleep(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoRetryPolicy_NeverRetries(t *testing.T) {
	p := engine.NoRetryPolicy()
	assert.Equal(t, 0, p.MaxRetries)
}
