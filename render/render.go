// ABOUTME: Renders DOT source to SVG/PNG by shelling out to graphviz with a selectable layout engine.
// ABOUTME: All layout, collision, and rendering math lives in graphviz; this package owns none of it.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Layout selects the graphviz layout engine. Names are user-facing and map
// onto graphviz -K engines.
type Layout string

const (
	LayoutHierarchical Layout = "hierarchical" // dot
	LayoutForce        Layout = "force"        // fdp
	LayoutCircular     Layout = "circular"     // circo
	LayoutConcentric   Layout = "concentric"   // twopi
	LayoutGrid         Layout = "grid"         // osage
)

// layoutEngines maps user-facing layout names to graphviz engine names.
var layoutEngines = map[Layout]string{
	LayoutHierarchical: "dot",
	LayoutForce:        "fdp",
	LayoutCircular:     "circo",
	LayoutConcentric:   "twopi",
	LayoutGrid:         "osage",
}

// LayoutNames returns the supported layout names in sorted order for help text.
func LayoutNames() []string {
	names := make([]string, 0, len(layoutEngines))
	for l := range layoutEngines {
		names = append(names, string(l))
	}
	sort.Strings(names)
	return names
}

// ParseLayout validates a user-supplied layout name.
func ParseLayout(s string) (Layout, error) {
	l := Layout(s)
	if _, ok := layoutEngines[l]; !ok {
		return "", fmt.Errorf("unknown layout %q: supported layouts are %s", s, strings.Join(LayoutNames(), ", "))
	}
	return l, nil
}

// Render produces output from DOT source in the given format.
// Supported formats: "dot" (returns the source as-is), "svg", "png"
// (shell out to graphviz). Returns an error when graphviz is missing.
func Render(ctx context.Context, dotText string, layout Layout, format string) ([]byte, error) {
	if strings.TrimSpace(dotText) == "" {
		return nil, fmt.Errorf("cannot render empty DOT text")
	}

	switch format {
	case "dot":
		return []byte(dotText), nil
	case "svg", "png":
		return renderWithGraphviz(ctx, dotText, layout, format)
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are dot, svg, png", format)
	}
}

// GraphvizAvailable checks whether the graphviz dot command is installed.
func GraphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// renderWithGraphviz pipes DOT text through `dot -K<engine> -T<format>`.
func renderWithGraphviz(ctx context.Context, dotText string, layout Layout, format string) ([]byte, error) {
	engine, ok := layoutEngines[layout]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", layout)
	}
	if !GraphvizAvailable() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-K"+engine, "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
