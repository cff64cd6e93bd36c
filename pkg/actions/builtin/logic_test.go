package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/actions/builtin"
	"github.com/smilemakc/prana/pkg/models"
)

func TestIfCondition_RoutesTrueOrFalse(t *testing.T) {
	action := builtin.NewIfCondition()

	truthy, err := action.Execute(context.Background(), models.ExecutionContext{Params: map[string]any{"condition": true}})
	require.NoError(t, err)
	assert.Equal(t, "true", truthy.OutputPort)

	falsy, err := action.Execute(context.Background(), models.ExecutionContext{Params: map[string]any{"condition": false}})
	require.NoError(t, err)
	assert.Equal(t, "false", falsy.OutputPort)
}

func TestIfCondition_NonBoolConditionTreatedAsFalse(t *testing.T) {
	action := builtin.NewIfCondition()
	outcome, err := action.Execute(context.Background(), models.ExecutionContext{Params: map[string]any{"condition": "not a bool"}})
	require.NoError(t, err)
	assert.Equal(t, "false", outcome.OutputPort)
}
