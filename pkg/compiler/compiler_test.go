package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/compiler"
	"github.com/smilemakc/prana/pkg/models"
)

// fakeSpecifier is a minimal compiler.ActionSpecifier for tests that don't
// need a full engine.Registry.
type fakeSpecifier map[string]models.ActionKind

func (f fakeSpecifier) Kind(actionType string) (models.ActionKind, bool) {
	k, ok := f[actionType]
	return k, ok
}

func TestCompile_SelectsSoleTrigger(t *testing.T) {
	wf := &models.Workflow{
		ID: "wf", Nodes: []*models.Node{
			{Key: "start", Type: "trigger"},
			{Key: "mid", Type: "action"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "start", FromPort: models.PortMain, ToNodeKey: "mid", ToPort: models.PortMain},
		},
	}
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger, "action": models.ActionKindAction}

	graph, err := compiler.Compile(wf, "", specifier)
	require.NoError(t, err)
	assert.Equal(t, "start", graph.TriggerNodeKey)
}

func TestCompile_NoTriggerNodes(t *testing.T) {
	wf := &models.Workflow{ID: "wf", Nodes: []*models.Node{{Key: "a", Type: "action"}}}
	specifier := fakeSpecifier{"action": models.ActionKindAction}

	_, err := compiler.Compile(wf, "", specifier)
	require.Error(t, err)
	assert.ErrorIs(t, err, &models.CodedError{Code: models.CodeNoTriggerNodes})
}

func TestCompile_MultipleTriggersFound(t *testing.T) {
	wf := &models.Workflow{ID: "wf", Nodes: []*models.Node{
		{Key: "a", Type: "trigger"},
		{Key: "b", Type: "trigger"},
	}}
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger}

	_, err := compiler.Compile(wf, "", specifier)
	assert.ErrorIs(t, err, &models.CodedError{Code: models.CodeMultipleTriggersFound})
}

func TestCompile_ExplicitTriggerKeyNotFound(t *testing.T) {
	wf := &models.Workflow{ID: "wf", Nodes: []*models.Node{{Key: "a", Type: "trigger"}}}
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger}

	_, err := compiler.Compile(wf, "missing", specifier)
	assert.ErrorIs(t, err, &models.CodedError{Code: models.CodeTriggerNodeNotFound})
}

func TestCompile_ExplicitTriggerKeyWrongKind(t *testing.T) {
	wf := &models.Workflow{ID: "wf", Nodes: []*models.Node{{Key: "a", Type: "action"}}}
	specifier := fakeSpecifier{"action": models.ActionKindAction}

	_, err := compiler.Compile(wf, "a", specifier)
	assert.ErrorIs(t, err, &models.CodedError{Code: models.CodeNodeNotTrigger})
}

func TestCompile_PrunesUnreachableNodes(t *testing.T) {
	wf := &models.Workflow{
		ID: "wf", Nodes: []*models.Node{
			{Key: "start", Type: "trigger"},
			{Key: "reachable", Type: "action"},
			{Key: "orphan", Type: "action"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "start", FromPort: models.PortMain, ToNodeKey: "reachable", ToPort: models.PortMain},
		},
	}
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger, "action": models.ActionKindAction}

	graph, err := compiler.Compile(wf, "", specifier)
	require.NoError(t, err)

	assert.NotNil(t, graph.NodeMap("reachable"))
	assert.Nil(t, graph.NodeMap("orphan"), "unreachable nodes must be pruned")
	assert.Len(t, graph.Nodes(), 2)
}

func TestCompile_SuccessorsAndDependencies(t *testing.T) {
	wf := &models.Workflow{
		ID: "wf", Nodes: []*models.Node{
			{Key: "start", Type: "trigger"},
			{Key: "a", Type: "action"},
			{Key: "b", Type: "action"},
		},
		Connections: []*models.Connection{
			{FromNodeKey: "start", FromPort: models.PortMain, ToNodeKey: "a", ToPort: models.PortMain},
			{FromNodeKey: "start", FromPort: models.PortMain, ToNodeKey: "b", ToPort: models.PortMain},
		},
	}
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger, "action": models.ActionKindAction}

	graph, err := compiler.Compile(wf, "", specifier)
	require.NoError(t, err)

	successors := graph.Successors("start", models.PortMain)
	assert.Len(t, successors, 2)

	deps := graph.Dependencies("a")
	assert.Equal(t, []string{"start"}, deps)
}

func TestCompile_RejectsInvalidWorkflow(t *testing.T) {
	wf := &models.Workflow{Nodes: []*models.Node{{Key: "a", Type: "trigger"}}} // missing ID
	specifier := fakeSpecifier{"trigger": models.ActionKindTrigger}

	_, err := compiler.Compile(wf, "", specifier)
	assert.ErrorIs(t, err, &models.CodedError{Code: models.CodeValidationError})
}
