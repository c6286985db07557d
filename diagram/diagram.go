// ABOUTME: Builds DOT graphs from the backend's precomputed architecture and workflow DTOs.
// ABOUTME: Owns category filtering, search fading, and swimlane clustering; layout math stays in graphviz.
package diagram

import (
	"strings"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/dot"
)

// Options narrow and annotate the rendered graph. The zero value renders
// everything unfiltered.
type Options struct {
	// Categories, when non-empty, keeps only nodes whose category is listed.
	// Edges referencing a filtered-out node are dropped with it.
	Categories []string
	// Search, when non-empty, fades nodes whose id, label, and description
	// all miss the term (case-insensitive substring match).
	Search string
}

// BuildArchitecture converts the backend's dependency graph into a DOT graph
// with category colors and shapes applied from the static lookup tables.
func BuildArchitecture(g *client.ArchitectureGraph, opts Options) *dot.Graph {
	out := dot.NewGraph("architektura")
	out.Attrs["rankdir"] = "LR"
	out.NodeDefaults["style"] = "filled"
	out.NodeDefaults["fontname"] = "Helvetica"

	keep := categoryFilter(opts.Categories)

	for _, n := range g.Nodes {
		if !keep(n.Category) {
			continue
		}
		attrs := map[string]string{
			"label":     n.Label,
			"shape":     shapeForCategory(n.Category),
			"fillcolor": colorForCategory(n.Category),
		}
		if n.Color != "" {
			attrs["fillcolor"] = n.Color
		}
		if n.Description != "" {
			attrs["tooltip"] = n.Description
		}
		if opts.Search != "" && !matchesSearch(n, opts.Search) {
			attrs["fillcolor"] = fadedFill
			attrs["fontcolor"] = fadedFont
		}
		out.AddNode(&dot.Node{ID: n.ID, Attrs: attrs})
	}

	for _, e := range g.Edges {
		// Both endpoints must have survived the category filter.
		if out.FindNode(e.From) == nil || out.FindNode(e.To) == nil {
			continue
		}
		attrs := map[string]string{}
		if e.Label != "" {
			attrs["label"] = e.Label
		}
		out.AddEdge(&dot.Edge{From: e.From, To: e.To, Attrs: attrs})
	}

	return out
}

// BuildWorkflow converts the fixed swimlane workflow into a DOT graph where
// each lane becomes a cluster.
func BuildWorkflow(g *client.WorkflowGraph) *dot.Graph {
	out := dot.NewGraph("workflow")
	out.Attrs["rankdir"] = "LR"
	out.NodeDefaults["shape"] = "box"
	out.NodeDefaults["style"] = "filled"
	out.NodeDefaults["fillcolor"] = "#FFFFFF"

	byLane := make(map[string][]string)
	for _, n := range g.Nodes {
		attrs := map[string]string{"label": n.Label}
		if n.Stage != "" {
			attrs["tooltip"] = n.Stage
		}
		out.AddNode(&dot.Node{ID: n.ID, Attrs: attrs})
		byLane[n.Lane] = append(byLane[n.Lane], n.ID)
	}

	for _, lane := range g.Lanes {
		nodeIDs := byLane[lane]
		if len(nodeIDs) == 0 {
			continue
		}
		out.AddCluster(&dot.Cluster{
			ID:      lane,
			Label:   lane,
			Attrs:   map[string]string{"style": "rounded", "color": "#B0BEC5"},
			NodeIDs: nodeIDs,
		})
	}

	for _, e := range g.Edges {
		attrs := map[string]string{}
		if e.Label != "" {
			attrs["label"] = e.Label
		}
		out.AddEdge(&dot.Edge{From: e.From, To: e.To, Attrs: attrs})
	}

	return out
}

// categoryFilter returns a predicate over category labels. An empty filter
// keeps everything.
func categoryFilter(categories []string) func(string) bool {
	if len(categories) == 0 {
		return func(string) bool { return true }
	}
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	return func(category string) bool { return allowed[category] }
}

// matchesSearch reports whether the node's id, label, or description contains
// the term, case-insensitively.
func matchesSearch(n client.GraphNode, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(n.ID), t) ||
		strings.Contains(strings.ToLower(n.Label), t) ||
		strings.Contains(strings.ToLower(n.Description), t)
}
