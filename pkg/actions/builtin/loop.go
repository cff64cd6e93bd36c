package builtin

import (
	"context"

	"github.com/smilemakc/prana/pkg/actions"
	"github.com/smilemakc/prana/pkg/models"
)

// ForEachBatch is the reference batching loop action. It reads
// $execution.loopback to decide whether to initialize loop state from its
// params ("collection", "batch_size") or resume it from its own previous
// context_data — the uniform, no-special-construct loop mechanism this
// engine relies on: the graph executor has no loop primitive at all, only
// run_index and latest-wins routing.
//
// Wire it with two ordinary connections: loop.batch -> process.main and
// process.main -> loop.batch_results. Each re-entry consumes whatever was
// last routed to batch_results (unused by this minimal reference action,
// since it tracks progress purely via its own context_data) and emits the
// next slice on "batch", or an empty map on "done" once the collection is
// exhausted.
type ForEachBatch struct{ actions.Base }

// NewForEachBatch builds the "flow.for_each_batch" action.
func NewForEachBatch() *ForEachBatch {
	return &ForEachBatch{Base: actions.Base{Spec: models.ActionSpec{
		Name:        "flow.for_each_batch",
		Kind:        models.ActionKindLogic,
		InputPorts:  []string{"batch_results"},
		OutputPorts: []string{"batch", "done"},
	}}}
}

type loopState struct {
	Collection []any `json:"collection"`
	BatchSize  int   `json:"batch_size"`
	Offset     int   `json:"offset"`
}

func (a *ForEachBatch) Execute(ctx context.Context, nodeCtx models.ExecutionContext) (models.ActionOutcome, error) {
	var state loopState

	if nodeCtx.Loopback {
		prev, _ := nodeCtx.NodeContexts[nodeCtx.CurrentNodeKey].(map[string]any)
		state = decodeLoopState(prev)
	} else {
		collection, _ := nodeCtx.Params["collection"].([]any)
		batchSize := actions.OptInt(nodeCtx.Params, "batch_size", 1)
		if batchSize < 1 {
			batchSize = 1
		}
		state = loopState{Collection: collection, BatchSize: batchSize, Offset: 0}
	}

	if state.Offset >= len(state.Collection) {
		return models.Completed(map[string]any{}, "done", encodeLoopState(state)), nil
	}

	end := state.Offset + state.BatchSize
	if end > len(state.Collection) {
		end = len(state.Collection)
	}
	batch := state.Collection[state.Offset:end]
	state.Offset = end

	hasMore := state.Offset < len(state.Collection)
	context := encodeLoopState(state)
	context["has_more_item"] = hasMore

	return models.Completed(map[string]any{"items": batch}, "batch", context), nil
}

func (a *ForEachBatch) Resume(ctx context.Context, nodeCtx models.ExecutionContext, resumeData any) (models.ActionOutcome, error) {
	return models.ActionOutcome{}, models.NewCodedError(models.CodeActionException, "flow.for_each_batch never suspends")
}

func decodeLoopState(ctx map[string]any) loopState {
	var s loopState
	if ctx == nil {
		return s
	}
	if collection, ok := ctx["collection"].([]any); ok {
		s.Collection = collection
	}
	if batchSize, ok := ctx["batch_size"].(int); ok {
		s.BatchSize = batchSize
	}
	if offset, ok := ctx["offset"].(int); ok {
		s.Offset = offset
	}
	return s
}

func encodeLoopState(s loopState) map[string]any {
	return map[string]any{
		"collection": s.Collection,
		"batch_size": s.BatchSize,
		"offset":     s.Offset,
	}
}
