package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/internal/application/template"
	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/engine"
	"github.com/smilemakc/prana/pkg/models"
	"github.com/smilemakc/prana/testutil"
)

func newTestExecutor(registry *engine.Registry) *engine.Executor {
	return engine.NewExecutor(registry, template.NewEngine(), engine.NewBus(nil))
}

func TestExecuteWorkflow_SequentialChainCompletes(t *testing.T) {
	registry := testutil.NewTestRegistry()
	graph, err := compiler.Compile(testutil.LinearWorkflow(), "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	execution, rt := ex.InitializeExecution(graph, "exec-1", nil)

	result := ex.ExecuteWorkflow(context.Background(), graph, execution, rt, map[string]any{"hello": "world"})

	require.Equal(t, engine.ResultOk, result.Kind)
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	tail := execution.LatestNodeExecution("tail")
	require.NotNil(t, tail)
	assert.Equal(t, "world", tail.OutputData["hello"])
}

func TestExecuteWorkflow_FailingNodeFailsWorkflow(t *testing.T) {
	registry := testutil.NewTestRegistry()
	wf := &models.Workflow{
		ID: "wf.fail", Nodes: []*models.Node{
			{Key: "trigger", Type: "test.trigger"},
			{Key: "boom", Type: "test.failing"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "trigger", FromPort: models.PortMain, ToNodeKey: "boom", ToPort: models.PortMain},
		},
	}
	graph, err := compiler.Compile(wf, "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	execution, rt := ex.InitializeExecution(graph, "exec-2", nil)

	result := ex.ExecuteWorkflow(context.Background(), graph, execution, rt, map[string]any{})

	require.Equal(t, engine.ResultError, result.Kind)
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
}

func TestExecuteWorkflow_OnErrorContinueRoutesErrorPort(t *testing.T) {
	registry := testutil.NewTestRegistry()
	wf := &models.Workflow{
		ID: "wf.continue", Nodes: []*models.Node{
			{Key: "trigger", Type: "test.trigger"},
			{Key: "boom", Type: "test.failing", Settings: &models.NodeSettings{OnError: models.OnErrorContinue}},
			{Key: "recover", Type: "test.passthrough"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "trigger", FromPort: models.PortMain, ToNodeKey: "boom", ToPort: models.PortMain},
			{FromNodeKey: "boom", FromPort: models.PortError, ToNodeKey: "recover", ToPort: models.PortMain},
		},
	}
	graph, err := compiler.Compile(wf, "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	execution, rt := ex.InitializeExecution(graph, "exec-3", nil)

	result := ex.ExecuteWorkflow(context.Background(), graph, execution, rt, map[string]any{})

	require.Equal(t, engine.ResultOk, result.Kind)
	assert.NotNil(t, execution.LatestNodeExecution("recover"), "on_error=continue must route the failure to the error-port successor")
}

func TestExecuteWorkflow_SuspendThenResume(t *testing.T) {
	registry := testutil.NewTestRegistry()
	wf := &models.Workflow{
		ID: "wf.suspend", Nodes: []*models.Node{
			{Key: "trigger", Type: "test.trigger"},
			{Key: "pause", Type: "test.suspending"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "trigger", FromPort: models.PortMain, ToNodeKey: "pause", ToPort: models.PortMain},
		},
	}
	graph, err := compiler.Compile(wf, "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	execution, rt := ex.InitializeExecution(graph, "exec-4", nil)

	suspendResult := ex.ExecuteWorkflow(context.Background(), graph, execution, rt, map[string]any{})
	require.Equal(t, engine.ResultSuspend, suspendResult.Kind)
	assert.Equal(t, models.ExecutionStatusSuspended, execution.Status)
	assert.Equal(t, models.SuspensionWebhook, suspendResult.SuspensionType)

	resumeResult := ex.ResumeWorkflow(context.Background(), graph, execution, map[string]any{"resumed": true}, nil)
	require.Equal(t, engine.ResultOk, resumeResult.Kind)
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)

	pause := execution.LatestNodeExecution("pause")
	require.NotNil(t, pause)
	assert.Equal(t, true, pause.OutputData["resumed"])
}

func TestResumeWorkflow_RejectsNonSuspendedExecution(t *testing.T) {
	registry := testutil.NewTestRegistry()
	graph, err := compiler.Compile(testutil.LinearWorkflow(), "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	execution, _ := ex.InitializeExecution(graph, "exec-5", nil)
	execution.Status = models.ExecutionStatusRunning

	result := ex.ResumeWorkflow(context.Background(), graph, execution, nil, nil)
	require.Equal(t, engine.ResultError, result.Kind)
	assert.ErrorIs(t, result.Err, &models.CodedError{Code: models.CodeInvalidSuspendedExecution})
}

func TestInitializeExecution_MergesGraphVariablesWithoutOverwritingOptions(t *testing.T) {
	registry := testutil.NewTestRegistry()
	wf := testutil.LinearWorkflow()
	wf.Variables = map[string]any{"a": "from_graph", "b": "from_graph"}
	graph, err := compiler.Compile(wf, "", registry)
	require.NoError(t, err)

	ex := newTestExecutor(registry)
	opts := engine.DefaultExecutionOptions()
	opts.Variables = map[string]any{"a": "from_options"}

	execution, _ := ex.InitializeExecution(graph, "exec-6", opts)

	assert.Equal(t, "from_options", execution.Vars["a"], "caller-supplied variables must win over graph defaults")
	assert.Equal(t, "from_graph", execution.Vars["b"])
}
