package models

import (
	"encoding/json"
	"fmt"
)

// Reserved port names. "main" is the default port for simple chaining; "*"
// in an action's declared output_ports means the action may emit any port
// name and the executor skips port validation; "error" is the conventional
// failure port.
const (
	PortMain  = "main"
	PortAny   = "*"
	PortError = "error"
)

// ErrorPolicy controls what happens when a node's action returns Failed.
type ErrorPolicy string

const (
	OnErrorFailWorkflow ErrorPolicy = "fail_workflow"
	OnErrorContinue     ErrorPolicy = "continue"
)

// NodeSettings are the optional per-node execution settings.
type NodeSettings struct {
	RetryOnFailed bool        `json:"retry_on_failed,omitempty"`
	MaxRetries    int         `json:"max_retries,omitempty"`
	RetryDelayMs  int64       `json:"retry_delay_ms,omitempty"`
	OnError       ErrorPolicy `json:"on_error,omitempty"`
}

// EffectiveOnError returns the node's error policy, defaulting to
// fail_workflow when unset.
func (s *NodeSettings) EffectiveOnError() ErrorPolicy {
	if s == nil || s.OnError == "" {
		return OnErrorFailWorkflow
	}
	return s.OnError
}

// Node is a unit of work bound to an action type. Nodes do not declare
// ports: ports are defined by the action's specification.
type Node struct {
	Key      string         `json:"key"`
	Type     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Settings *NodeSettings  `json:"settings,omitempty"`
}

func (n *Node) Validate() error {
	if n.Key == "" {
		return ErrValidation("key", "node key is required")
	}
	if n.Type == "" {
		return ErrValidation("type", fmt.Sprintf("node %q: type is required", n.Key))
	}
	return nil
}

// Connection is a directed edge from (from_node_key, from_port) to
// (to_node_key, to_port). There is deliberately no condition or data-mapping
// field: conditional routing happens inside actions via port selection, data
// transformation happens via template params.
type Connection struct {
	FromNodeKey string `json:"from_node_key"`
	FromPort    string `json:"from_port"`
	ToNodeKey   string `json:"to_node_key"`
	ToPort      string `json:"to_port"`
}

func (c *Connection) Validate() error {
	if c.FromNodeKey == "" || c.ToNodeKey == "" {
		return ErrValidation("node_key", "connection requires both from_node_key and to_node_key")
	}
	if c.FromPort == "" {
		return ErrValidation("from_port", "connection requires a from_port")
	}
	if c.ToPort == "" {
		return ErrValidation("to_port", "connection requires a to_port")
	}
	return nil
}

// Workflow is the static, author-time definition of a graph: nodes,
// connections, and workflow-scoped variables.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Version     int            `json:"version"`
	Nodes       []*Node        `json:"nodes"`
	Connections []*Connection  `json:"connections"`
	Variables   map[string]any `json:"variables,omitempty"`
}

func (w *Workflow) Validate() error {
	if w.ID == "" {
		return ErrValidation("id", "workflow id is required")
	}
	seen := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
		if seen[n.Key] {
			return ErrValidation("key", fmt.Sprintf("duplicate node key %q", n.Key))
		}
		seen[n.Key] = true
	}
	for _, c := range w.Connections {
		if err := c.Validate(); err != nil {
			return err
		}
		if !seen[c.FromNodeKey] {
			return ErrValidation("from_node_key", fmt.Sprintf("connection references unknown node %q", c.FromNodeKey))
		}
		if !seen[c.ToNodeKey] {
			return ErrValidation("to_node_key", fmt.Sprintf("connection references unknown node %q", c.ToNodeKey))
		}
	}
	return nil
}

// GetNode returns the node with the given key, or nil.
func (w *Workflow) GetNode(key string) *Node {
	for _, n := range w.Nodes {
		if n.Key == key {
			return n
		}
	}
	return nil
}

// Clone deep-copies the workflow via a JSON round-trip.
func (w *Workflow) Clone() (*Workflow, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal workflow: %w", err)
	}
	var clone Workflow
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("unmarshal workflow: %w", err)
	}
	return &clone, nil
}
