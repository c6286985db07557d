// ABOUTME: Precomputed visualization endpoints: /architektura dependency graph and /architektura/workflow swimlanes.
// ABOUTME: Graphs are rendered as-is; no layout math happens on this side.
package client

import "context"

// GetArchitectureGraph fetches the precomputed dependency graph. When refresh
// is true the backend recomputes before responding.
func (c *Client) GetArchitectureGraph(ctx context.Context, refresh bool) (*ArchitectureGraph, error) {
	path := "/architektura"
	if refresh {
		path += "?refresh=true"
	}
	var graph ArchitectureGraph
	if err := c.getJSON(ctx, path, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// GetWorkflowGraph fetches the fixed swimlane workflow layout.
func (c *Client) GetWorkflowGraph(ctx context.Context) (*WorkflowGraph, error) {
	var graph WorkflowGraph
	if err := c.getJSON(ctx, "/architektura/workflow", &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}
