package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/pkg/actions/builtin"
	"github.com/smilemakc/prana/pkg/models"
)

// TestForEachBatch_IterationSequence walks the action through five items
// batched two at a time, threading context_data from one call to the next
// exactly as the graph executor would across run_index 0..3.
func TestForEachBatch_IterationSequence(t *testing.T) {
	action := builtin.NewForEachBatch()

	first, err := action.Execute(context.Background(), models.ExecutionContext{
		Params:   map[string]any{"collection": []any{1, 2, 3, 4, 5}, "batch_size": 2},
		Loopback: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "batch", first.OutputPort)
	assert.Equal(t, []any{1, 2}, first.OutputData["items"])
	assert.Equal(t, true, first.ContextData["has_more_item"])

	second, err := action.Execute(context.Background(), models.ExecutionContext{
		Loopback:       true,
		CurrentNodeKey: "loop",
		NodeContexts:   map[string]any{"loop": first.ContextData},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch", second.OutputPort)
	assert.Equal(t, []any{3, 4}, second.OutputData["items"])
	assert.Equal(t, true, second.ContextData["has_more_item"])

	third, err := action.Execute(context.Background(), models.ExecutionContext{
		Loopback:       true,
		CurrentNodeKey: "loop",
		NodeContexts:   map[string]any{"loop": second.ContextData},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch", third.OutputPort)
	assert.Equal(t, []any{5}, third.OutputData["items"])
	assert.Equal(t, false, third.ContextData["has_more_item"])

	fourth, err := action.Execute(context.Background(), models.ExecutionContext{
		Loopback:       true,
		CurrentNodeKey: "loop",
		NodeContexts:   map[string]any{"loop": third.ContextData},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", fourth.OutputPort)
	assert.Equal(t, map[string]any{}, fourth.OutputData)
}

func TestForEachBatch_EmptyCollectionCompletesImmediately(t *testing.T) {
	action := builtin.NewForEachBatch()
	outcome, err := action.Execute(context.Background(), models.ExecutionContext{
		Params: map[string]any{"collection": []any{}, "batch_size": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", outcome.OutputPort)
}

func TestForEachBatch_DefaultsBatchSizeToOne(t *testing.T) {
	action := builtin.NewForEachBatch()
	outcome, err := action.Execute(context.Background(), models.ExecutionContext{
		Params: map[string]any{"collection": []any{"a", "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, outcome.OutputData["items"])
}

func TestForEachBatch_NeverSuspends(t *testing.T) {
	action := builtin.NewForEachBatch()
	_, err := action.Resume(context.Background(), models.ExecutionContext{}, nil)
	assert.Error(t, err)
}
