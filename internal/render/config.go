package render

import (
	"strings"

	"bricks-studio/internal/model"
)

// FormField is one editable property of the selected block
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"` // "text" or "select"
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// Form describes the property-editing surface for the selected block.
// Writes go back through the session's UpdateBlock.
type Form struct {
	Empty     bool        `json:"empty,omitempty"`
	Message   string      `json:"message,omitempty"`
	BlockID   string      `json:"blockId,omitempty"`
	BlockType string      `json:"blockType,omitempty"`
	Fields    []FormField `json:"fields,omitempty"`
}

// ConfigForm builds the property form for a block. A nil block yields the
// neutral "select a block" placeholder, never an error.
func ConfigForm(block *model.Block, schema model.SchemaList) Form {
	if block == nil {
		return Form{
			Empty:   true,
			Message: "Select a block to edit its properties.",
		}
	}

	form := Form{
		BlockID:   block.ID,
		BlockType: string(block.Type),
	}

	switch props := block.Props.(type) {
	case model.TextProps:
		form.Fields = []FormField{
			{Name: "text", Label: "Text Content", Kind: "text", Value: props.Text, Placeholder: "Enter heading text"},
			{Name: "tag", Label: "HTML Tag", Kind: "select", Value: props.Tag, Options: []string{"h1", "h2", "h3", "p"}},
		}

	case model.HeadingProps:
		form.Fields = []FormField{
			{Name: "text", Label: "Text Content", Kind: "text", Value: props.Text, Placeholder: "Enter heading text"},
			{Name: "level", Label: "Level", Kind: "select", Value: props.Level, Options: []string{"h1", "h2", "h3", "h4", "h5", "h6"}},
		}

	case model.InputProps:
		form.Fields = []FormField{
			{Name: "label", Label: "Label", Kind: "text", Value: props.Label, Placeholder: "Label text"},
			{Name: "placeholder", Label: "Placeholder", Kind: "text", Value: props.Placeholder, Placeholder: "Placeholder text"},
			{Name: "name", Label: "Field Name", Kind: "text", Value: props.Name, Placeholder: "Input field name"},
		}

	case model.ButtonProps:
		form.Fields = []FormField{
			{Name: "text", Label: "Text", Kind: "text", Value: props.Text, Placeholder: "Button text"},
			{Name: "variant", Label: "Variant", Kind: "select", Value: props.Variant, Options: []string{"default", "outline", "secondary", "ghost", "link", "destructive"}},
		}

	case model.TableProps:
		collectionOptions := make([]string, 0, len(schema))
		for _, collection := range schema {
			collectionOptions = append(collectionOptions, collection.ID)
		}
		form.Fields = []FormField{
			{Name: "columns", Label: "Columns (comma separated)", Kind: "text", Value: strings.Join(props.Columns, ", "), Placeholder: "Column 1, Column 2"},
			{Name: "collectionId", Label: "Collection", Kind: "select", Value: props.CollectionID, Options: collectionOptions},
		}

	default:
		form.Message = "No configuration available."
	}

	return form
}

// ParseColumns turns the comma separated columns value into a trimmed list
// with empty entries dropped.
func ParseColumns(value string) []string {
	parts := strings.Split(value, ",")
	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			columns = append(columns, trimmed)
		}
	}
	return columns
}
