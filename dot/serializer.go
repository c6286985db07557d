// ABOUTME: Serializer that converts a Graph AST to DOT source text with deterministic output.
// ABOUTME: Nodes are sorted by ID and attributes by key so identical graphs serialize identically.
package dot

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Serialize converts a Graph AST to a DOT-formatted string. Output is
// deterministic: nodes sorted by ID, attributes within each element sorted
// by key, edges in insertion order.
func Serialize(g *Graph) string {
	var b strings.Builder

	name := g.Name
	if needsQuoting(name) {
		name = quoteValue(name)
	}
	fmt.Fprintf(&b, "digraph %s {\n", name)

	if len(g.Attrs) > 0 {
		fmt.Fprintf(&b, "  graph [%s]\n", formatAttrs(g.Attrs))
	}
	if len(g.NodeDefaults) > 0 {
		fmt.Fprintf(&b, "  node [%s]\n", formatAttrs(g.NodeDefaults))
	}
	if len(g.EdgeDefaults) > 0 {
		fmt.Fprintf(&b, "  edge [%s]\n", formatAttrs(g.EdgeDefaults))
	}
	if len(g.Attrs) > 0 || len(g.NodeDefaults) > 0 || len(g.EdgeDefaults) > 0 {
		b.WriteString("\n")
	}

	// Track nodes declared inside clusters so they are not re-declared at
	// the top level (graphviz assigns nodes to the scope that declares them).
	clustered := make(map[string]bool)
	for _, c := range g.Clusters {
		for _, id := range c.NodeIDs {
			clustered[id] = true
		}
	}

	for _, c := range g.Clusters {
		fmt.Fprintf(&b, "  subgraph cluster_%s {\n", sanitizeID(c.ID))
		if c.Label != "" {
			fmt.Fprintf(&b, "    label=%s\n", quoteValue(c.Label))
		}
		for _, k := range sortedKeys(c.Attrs) {
			fmt.Fprintf(&b, "    %s=%s\n", k, quoteValue(c.Attrs[k]))
		}
		for _, id := range c.NodeIDs {
			node := g.FindNode(id)
			if node == nil {
				continue
			}
			writeNodeLine(&b, node, "    ")
		}
		b.WriteString("  }\n")
	}
	if len(g.Clusters) > 0 {
		b.WriteString("\n")
	}

	for _, id := range g.NodeIDs() {
		if clustered[id] {
			continue
		}
		writeNodeLine(&b, g.Nodes[id], "  ")
	}

	if len(g.Nodes) > 0 && len(g.Edges) > 0 {
		b.WriteString("\n")
	}

	for _, e := range g.Edges {
		from := e.From
		if needsQuoting(from) {
			from = quoteValue(from)
		}
		to := e.To
		if needsQuoting(to) {
			to = quoteValue(to)
		}
		if len(e.Attrs) > 0 {
			fmt.Fprintf(&b, "  %s -> %s [%s]\n", from, to, formatAttrs(e.Attrs))
		} else {
			fmt.Fprintf(&b, "  %s -> %s\n", from, to)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// writeNodeLine writes one node declaration at the given indent.
func writeNodeLine(b *strings.Builder, node *Node, indent string) {
	id := node.ID
	if needsQuoting(id) {
		id = quoteValue(id)
	}
	if len(node.Attrs) > 0 {
		fmt.Fprintf(b, "%s%s [%s]\n", indent, id, formatAttrs(node.Attrs))
	} else {
		fmt.Fprintf(b, "%s%s\n", indent, id)
	}
}

// formatAttrs formats a map as a DOT attribute list with keys in sorted order.
func formatAttrs(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, quoteValue(attrs[k])))
	}
	return strings.Join(parts, ", ")
}

// needsQuoting reports whether an identifier must be quoted in DOT source.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if unicode.IsDigit(c) && i > 0 {
			continue
		}
		return true
	}
	return false
}

// quoteValue wraps a value in double quotes, escaping embedded quotes.
func quoteValue(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// sanitizeID converts an arbitrary string into a bare DOT identifier for use
// in cluster names.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}

// sortedKeys returns the keys of a map in sorted order for deterministic output.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
