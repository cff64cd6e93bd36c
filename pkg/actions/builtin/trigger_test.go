package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/actions/builtin"
	"github.com/smilemakc/prana/pkg/models"
)

func TestManualTrigger_PassesInputThrough(t *testing.T) {
	action := builtin.NewManualTrigger()
	outcome, err := action.Execute(context.Background(), models.ExecutionContext{
		Input: map[string]any{models.PortMain: map[string]any{"x": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 1, outcome.OutputData["x"])
	assert.Equal(t, models.PortMain, outcome.OutputPort)
}

func TestManualTrigger_NeverSuspends(t *testing.T) {
	action := builtin.NewManualTrigger()
	_, err := action.Resume(context.Background(), models.ExecutionContext{}, nil)
	assert.Error(t, err)
}
