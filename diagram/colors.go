// ABOUTME: Static lookup tables mapping backend node categories to graphviz colors and shapes.
// ABOUTME: A node's own color from the backend always wins over the category default.
package diagram

// Category fill colors, keyed by the backend's category labels.
var categoryColors = map[string]string{
	"service":     "#90CAF9",
	"database":    "#A5D6A7",
	"queue":       "#FFE082",
	"external":    "#E0E0E0",
	"frontend":    "#CE93D8",
	"pipeline":    "#FFAB91",
	"reporting":   "#80CBC4",
	"integration": "#B0BEC5",
}

// Category node shapes.
var categoryShapes = map[string]string{
	"service":     "box",
	"database":    "cylinder",
	"queue":       "parallelogram",
	"external":    "component",
	"frontend":    "box",
	"pipeline":    "box",
	"reporting":   "note",
	"integration": "hexagon",
}

// Defaults for categories the backend invents after this table was written.
const (
	defaultColor = "#ECEFF1"
	defaultShape = "box"
)

// fadedFill and fadedFont de-emphasize nodes that miss the active search term
// without removing them from the layout.
const (
	fadedFill = "#F5F5F5"
	fadedFont = "#BDBDBD"
)

// colorForCategory returns the fill color for a category.
func colorForCategory(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultColor
}

// shapeForCategory returns the node shape for a category.
func shapeForCategory(category string) string {
	if s, ok := categoryShapes[category]; ok {
		return s
	}
	return defaultShape
}
