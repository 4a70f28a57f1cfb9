package render

import (
	"fmt"

	"bricks-studio/internal/model"
)

// Mode selects how the app renderer treats interactive blocks
type Mode string

const (
	// ModePreview renders inside the editor; inputs and buttons stay inert
	ModePreview Mode = "preview"
	// ModeLive renders a deployed app; interactive blocks are enabled
	ModeLive Mode = "live"
)

// RowsByCollection carries the resolved data rows per collection id,
// fetched by the caller before rendering.
type RowsByCollection map[string][]model.RowData

// App interprets a project into its end-user tree. Blocks render in list
// order, table blocks are joined to their bound collection's rows, and
// blocks of unknown type produce nothing.
func App(project *model.Project, mode Mode, rows RowsByCollection) Node {
	if project == nil {
		return Node{
			Kind: KindPlaceholder,
			Text: "No components added yet",
		}
	}

	root := Node{
		Kind: KindApp,
		Text: project.Name,
	}

	if len(project.Blocks) == 0 {
		root.Children = []Node{{
			Kind: KindPlaceholder,
			Text: "No components added yet",
		}}
		return root
	}

	root.Children = make([]Node, 0, len(project.Blocks))
	for _, block := range project.Blocks {
		if node, ok := appBlock(block, project, mode, rows); ok {
			root.Children = append(root.Children, node)
		}
	}
	return root
}

func appBlock(block model.Block, project *model.Project, mode Mode, rows RowsByCollection) (Node, bool) {
	switch props := block.Props.(type) {
	case model.TextProps:
		text := props.Text
		if text == "" {
			text = "Heading"
		}
		return Node{Kind: KindHeading, Tag: safeTag(props.Tag), Text: text}, true

	case model.HeadingProps:
		text := props.Text
		if text == "" {
			text = "Heading"
		}
		return Node{Kind: KindHeading, Tag: safeTag(props.Level), Text: text}, true

	case model.InputProps:
		node := Node{
			Kind:     KindInput,
			Text:     props.Label,
			Attrs:    map[string]string{"placeholder": props.Placeholder, "name": props.Name},
			Disabled: mode == ModePreview,
		}
		return node, true

	case model.ButtonProps:
		text := props.Text
		if text == "" {
			text = "Button"
		}
		return Node{
			Kind:     KindButton,
			Text:     text,
			Attrs:    map[string]string{"variant": props.Variant},
			Disabled: mode == ModePreview,
		}, true

	case model.TableProps:
		return appTable(props, project, rows), true

	default:
		return Node{}, false
	}
}

// appTable resolves a table block's collection binding. An unbound table
// shows its literal content; a binding to a collection that no longer
// exists degrades to a named placeholder rather than failing the render.
func appTable(props model.TableProps, project *model.Project, rows RowsByCollection) Node {
	if props.CollectionID == "" {
		columns := props.Columns
		if columns == nil {
			columns = []string{}
		}
		tableRows := props.Rows
		if tableRows == nil {
			tableRows = [][]string{}
		}
		return Node{Kind: KindTable, Columns: columns, Rows: tableRows}
	}

	collection := project.FindCollection(props.CollectionID)
	if collection == nil {
		name := props.CollectionName
		if name == "" {
			name = props.CollectionID
		}
		return Node{Kind: KindPlaceholder, Text: fmt.Sprintf("Table: %s", name)}
	}

	columns := make([]string, len(collection.Fields))
	for i, field := range collection.Fields {
		columns[i] = field.Name
	}

	data := rows[collection.ID]
	if len(data) == 0 {
		return Node{
			Kind:    KindTable,
			Columns: columns,
			Rows:    [][]string{},
			Text:    "No data yet",
		}
	}

	tableRows := make([][]string, len(data))
	for i, row := range data {
		cells := make([]string, len(collection.Fields))
		for j, field := range collection.Fields {
			cells[j] = formatCell(row[field.Name])
		}
		tableRows[i] = cells
	}
	return Node{Kind: KindTable, Columns: columns, Rows: tableRows}
}

// formatCell renders one row value. Missing values render empty, not "<nil>".
func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers arrive as float64; keep integers free of a trailing .0
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
