// ABOUTME: AST types for building DOT digraphs: Graph, Node, Edge, and Cluster with traversal helpers.
// ABOUTME: The diagram package assembles these from backend graph DTOs; no parsing happens here.
package dot

import "sort"

// Graph represents a DOT digraph with its nodes, edges, attributes, and clusters.
type Graph struct {
	Name         string
	Nodes        map[string]*Node
	Edges        []*Edge
	Attrs        map[string]string // graph-level attributes
	NodeDefaults map[string]string // node [...] defaults
	EdgeDefaults map[string]string // edge [...] defaults
	Clusters     []*Cluster
}

// Node represents a node in the graph with an ID and key-value attributes.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Edge represents a directed edge from one node to another with attributes.
type Edge struct {
	From  string
	To    string
	Attrs map[string]string
}

// Cluster represents a "subgraph cluster_*" block, used for swimlanes.
// Nodes listed here are declared inside the cluster scope.
type Cluster struct {
	ID      string // emitted as subgraph cluster_<ID>
	Label   string
	Attrs   map[string]string
	NodeIDs []string
}

// NewGraph creates an empty digraph with the given name.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:         name,
		Nodes:        make(map[string]*Node),
		Attrs:        make(map[string]string),
		NodeDefaults: make(map[string]string),
		EdgeDefaults: make(map[string]string),
	}
}

// AddNode adds a node to the graph, initializing the Nodes map if needed.
func (g *Graph) AddNode(n *Node) {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	g.Nodes[n.ID] = n
}

// AddEdge appends an edge to the graph.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// AddCluster appends a cluster block to the graph.
func (g *Graph) AddCluster(c *Cluster) {
	g.Clusters = append(g.Clusters, c)
}

// FindNode returns the node with the given ID, or nil if not found.
func (g *Graph) FindNode(id string) *Node {
	if g.Nodes == nil {
		return nil
	}
	return g.Nodes[id]
}

// OutgoingEdges returns all edges originating from the given node ID.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.From == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// IncomingEdges returns all edges terminating at the given node ID.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.To == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// Neighbors returns the IDs of nodes directly connected to nodeID in either
// direction, deduplicated and sorted.
func (g *Graph) Neighbors(nodeID string) []string {
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if e.From == nodeID {
			seen[e.To] = true
		}
		if e.To == nodeID {
			seen[e.From] = true
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NodeIDs returns all node IDs in sorted order for deterministic output.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
