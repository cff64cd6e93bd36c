// Package compiler turns a static Workflow into an immutable, indexed
// ExecutionGraph: trigger selection, reachability pruning, and the
// connection/dependency indices the graph executor relies on for O(1)
// lookups at run time.
package compiler

import (
	"github.com/smilemakc/prana/pkg/models"
)

// connectionKey identifies a (node_key, from_port) pair in connection_map.
type connectionKey struct {
	NodeKey string
	Port    string
}

// ExecutionGraph is the compiled, immutable form of a workflow. It is safe
// to cache by (workflow_id, version) and to share across concurrent
// executions, since nothing on it is ever mutated after Compile returns.
type ExecutionGraph struct {
	WorkflowID     string
	Version        int
	TriggerNodeKey string
	Variables      map[string]any

	nodeMap             map[string]*models.Node
	connectionMap        map[connectionKey][]*models.Connection
	reverseConnectionMap map[string][]*models.Connection
	dependencyGraph       map[string][]string
}

// NodeMap returns the node keyed by key, or nil.
func (g *ExecutionGraph) NodeMap(key string) *models.Node {
	return g.nodeMap[key]
}

// Nodes returns all nodes retained after pruning, in no particular order.
func (g *ExecutionGraph) Nodes() []*models.Node {
	out := make([]*models.Node, 0, len(g.nodeMap))
	for _, n := range g.nodeMap {
		out = append(out, n)
	}
	return out
}

// Successors returns the outgoing connections from (nodeKey, port), O(1).
func (g *ExecutionGraph) Successors(nodeKey, port string) []*models.Connection {
	return g.connectionMap[connectionKey{NodeKey: nodeKey, Port: port}]
}

// Predecessors returns the incoming connections to nodeKey, O(1).
func (g *ExecutionGraph) Predecessors(nodeKey string) []*models.Connection {
	return g.reverseConnectionMap[nodeKey]
}

// Dependencies returns the unique predecessor node keys of nodeKey.
func (g *ExecutionGraph) Dependencies(nodeKey string) []string {
	return g.dependencyGraph[nodeKey]
}

// Compile validates trigger selection, computes reachability from the
// trigger, prunes unreachable nodes/connections, and builds the indices the
// graph executor needs. Compilation is O(V + E).
func Compile(workflow *models.Workflow, triggerKey string, actions ActionSpecifier) (*ExecutionGraph, error) {
	if err := workflow.Validate(); err != nil {
		return nil, err
	}

	trigger, err := selectTrigger(workflow, triggerKey, actions)
	if err != nil {
		return nil, err
	}

	reachable := reachabilityBFS(workflow, trigger.Key)

	nodeMap := make(map[string]*models.Node, len(reachable))
	for _, n := range workflow.Nodes {
		if reachable[n.Key] {
			nodeMap[n.Key] = n
		}
	}

	connectionMap := make(map[connectionKey][]*models.Connection)
	reverseConnectionMap := make(map[string][]*models.Connection)
	dependencySeen := make(map[string]map[string]bool)

	for _, c := range workflow.Connections {
		if !reachable[c.FromNodeKey] || !reachable[c.ToNodeKey] {
			continue // pruning: both endpoints must be reachable
		}
		key := connectionKey{NodeKey: c.FromNodeKey, Port: c.FromPort}
		connectionMap[key] = append(connectionMap[key], c)
		reverseConnectionMap[c.ToNodeKey] = append(reverseConnectionMap[c.ToNodeKey], c)

		if dependencySeen[c.ToNodeKey] == nil {
			dependencySeen[c.ToNodeKey] = make(map[string]bool)
		}
		dependencySeen[c.ToNodeKey][c.FromNodeKey] = true
	}

	dependencyGraph := make(map[string][]string, len(dependencySeen))
	for nodeKey, preds := range dependencySeen {
		list := make([]string, 0, len(preds))
		for p := range preds {
			list = append(list, p)
		}
		dependencyGraph[nodeKey] = list
	}

	return &ExecutionGraph{
		WorkflowID:           workflow.ID,
		Version:              workflow.Version,
		TriggerNodeKey:       trigger.Key,
		Variables:            workflow.Variables,
		nodeMap:              nodeMap,
		connectionMap:        connectionMap,
		reverseConnectionMap: reverseConnectionMap,
		dependencyGraph:      dependencyGraph,
	}, nil
}

// ActionSpecifier is the minimal slice of the action registry the compiler
// needs: enough to check a node's action kind during trigger selection,
// without importing the engine package (which would create a cycle, since
// the engine imports compiler).
type ActionSpecifier interface {
	Kind(actionType string) (models.ActionKind, bool)
}

func selectTrigger(workflow *models.Workflow, triggerKey string, actions ActionSpecifier) (*models.Node, error) {
	if triggerKey != "" {
		node := workflow.GetNode(triggerKey)
		if node == nil {
			return nil, models.ErrTriggerNodeNotFound(triggerKey)
		}
		if kind, ok := actions.Kind(node.Type); !ok || kind != models.ActionKindTrigger {
			return nil, models.ErrNodeNotTrigger(triggerKey, node.Type)
		}
		return node, nil
	}

	var triggers []*models.Node
	for _, n := range workflow.Nodes {
		if kind, ok := actions.Kind(n.Type); ok && kind == models.ActionKindTrigger {
			triggers = append(triggers, n)
		}
	}
	switch len(triggers) {
	case 0:
		return nil, models.ErrNoTriggerNodes()
	case 1:
		return triggers[0], nil
	default:
		keys := make([]string, len(triggers))
		for i, t := range triggers {
			keys[i] = t.Key
		}
		return nil, models.ErrMultipleTriggersFound(keys)
	}
}

// reachabilityBFS walks forward connections from triggerKey and returns the
// set of reachable node keys (including the trigger itself).
func reachabilityBFS(workflow *models.Workflow, triggerKey string) map[string]bool {
	forward := make(map[string][]string)
	for _, c := range workflow.Connections {
		forward[c.FromNodeKey] = append(forward[c.FromNodeKey], c.ToNodeKey)
	}

	visited := map[string]bool{triggerKey: true}
	queue := []string{triggerKey}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range forward[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
