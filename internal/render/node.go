package render

// Node is one element of a render tree. The engine turns declarative block
// descriptors into trees of these nodes; clients translate them into actual
// UI. Kind decides which of the optional fields are meaningful.
type Node struct {
	Kind     string            `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Columns  []string          `json:"columns,omitempty"`
	Rows     [][]string        `json:"rows,omitempty"`
	Children []Node            `json:"children,omitempty"`

	// Editor-only fields, set on canvas block wrappers
	BlockID   string `json:"blockId,omitempty"`
	BlockType string `json:"blockType,omitempty"`
	Selected  bool   `json:"selected,omitempty"`
	Draggable bool   `json:"draggable,omitempty"`
}

// Node kinds
const (
	KindCanvas      = "canvas"
	KindApp         = "app"
	KindBlock       = "block"
	KindHeading     = "heading"
	KindLabel       = "label"
	KindInput       = "input"
	KindButton      = "button"
	KindTable       = "table"
	KindText        = "text"
	KindPlaceholder = "placeholder"
)

var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "p": true, "span": true,
}

// safeTag constrains a user-supplied tag to the allowed set, defaulting to h2
func safeTag(tag string) string {
	if allowedTags[tag] {
		return tag
	}
	return "h2"
}
