package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/engine"
	"github.com/smilemakc/prana/pkg/models"
	"github.com/smilemakc/prana/testutil"
)

func compileLinear(t *testing.T) (*compiler.ExecutionGraph, *engine.Registry) {
	t.Helper()
	registry := testutil.NewTestRegistry()
	graph, err := compiler.Compile(testutil.LinearWorkflow(), "", registry)
	require.NoError(t, err)
	return graph, registry
}

func TestNewRuntime_SeedsTriggerAtDepthZero(t *testing.T) {
	graph, _ := compileLinear(t)
	exec := &models.WorkflowExecution{NodeExecutions: map[string][]*models.NodeExecution{}}
	rt := engine.NewRuntime(graph, exec, nil, engine.DefaultMaxIterations)

	assert.Equal(t, []string{"trigger"}, rt.ReadyNodes())
	assert.Equal(t, 0, rt.Depth("trigger"))
	assert.False(t, rt.IsEmpty())
}

func TestRuntime_SeedInputAndRoutedInput(t *testing.T) {
	graph, _ := compileLinear(t)
	exec := &models.WorkflowExecution{NodeExecutions: map[string][]*models.NodeExecution{}}
	rt := engine.NewRuntime(graph, exec, nil, engine.DefaultMaxIterations)

	rt.SeedInput("trigger", models.PortMain, map[string]any{"x": 1})
	routed := rt.RoutedInput("trigger")
	assert.Equal(t, map[string]any{"x": 1}, routed[models.PortMain])
}

func TestRuntime_CheckIterationCap(t *testing.T) {
	graph, _ := compileLinear(t)
	exec := &models.WorkflowExecution{NodeExecutions: map[string][]*models.NodeExecution{}}
	rt := engine.NewRuntime(graph, exec, nil, 2)

	ok, count := rt.CheckIteration()
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	ok, count = rt.CheckIteration()
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	ok, _ = rt.CheckIteration()
	assert.False(t, ok, "third call exceeds the cap of 2")
}

func TestRuntime_CompleteNodeRoutesToSuccessors(t *testing.T) {
	graph, _ := compileLinear(t)
	exec := &models.WorkflowExecution{NodeExecutions: map[string][]*models.NodeExecution{}}
	rt := engine.NewRuntime(graph, exec, nil, engine.DefaultMaxIterations)

	ne := &models.NodeExecution{
		NodeKey: "trigger", Status: models.NodeStatusCompleted,
		OutputData: map[string]any{"hello": "world"}, OutputPort: models.PortMain,
	}
	rt.CompleteNode(ne)

	assert.False(t, rt.IsEmpty())
	ready := rt.ReadyNodes()
	assert.Equal(t, []string{"mid"}, ready)
	assert.Equal(t, 1, rt.Depth("mid"))

	out, ok := rt.NodeOutput("trigger")
	assert.True(t, ok)
	assert.Equal(t, "world", out["hello"])
}

func TestRuntime_NextExecutionIndexMonotonic(t *testing.T) {
	graph, _ := compileLinear(t)
	exec := &models.WorkflowExecution{NodeExecutions: map[string][]*models.NodeExecution{}}
	rt := engine.NewRuntime(graph, exec, nil, engine.DefaultMaxIterations)

	a := rt.NextExecutionIndex()
	b := rt.NextExecutionIndex()
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}
