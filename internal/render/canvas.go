package render

import (
	"bricks-studio/internal/model"
)

// Canvas interprets a project's ordered block list into an editable tree:
// every block becomes a draggable, selectable wrapper node whose children
// describe the block's visual content. At most one block is selected.
func Canvas(project *model.Project, selectedBlockID string) Node {
	if project == nil {
		return Node{
			Kind: KindPlaceholder,
			Text: "Create or load a project to start building.",
		}
	}

	root := Node{
		Kind: KindCanvas,
		Text: project.Name,
	}

	if len(project.Blocks) == 0 {
		root.Children = []Node{{
			Kind: KindPlaceholder,
			Text: "Add or drag a block here to get started.",
		}}
		return root
	}

	root.Children = make([]Node, len(project.Blocks))
	for i, block := range project.Blocks {
		root.Children[i] = canvasBlock(block, block.ID == selectedBlockID)
	}
	return root
}

func canvasBlock(block model.Block, selected bool) Node {
	wrapper := Node{
		Kind:      KindBlock,
		BlockID:   block.ID,
		BlockType: string(block.Type),
		Selected:  selected,
		Draggable: true,
	}

	switch props := block.Props.(type) {
	case model.TextProps:
		text := props.Text
		if text == "" {
			text = "Heading"
		}
		wrapper.Children = []Node{{
			Kind: KindHeading,
			Tag:  safeTag(props.Tag),
			Text: text,
		}}

	case model.HeadingProps:
		text := props.Text
		if text == "" {
			text = "Heading"
		}
		wrapper.Children = []Node{{
			Kind: KindHeading,
			Tag:  safeTag(props.Level),
			Text: text,
		}}

	case model.InputProps:
		label := props.Label
		if label == "" {
			label = "Label"
		}
		placeholder := props.Placeholder
		if placeholder == "" {
			placeholder = "Enter text"
		}
		wrapper.Children = []Node{
			{Kind: KindLabel, Text: label},
			{
				Kind:     KindInput,
				Attrs:    map[string]string{"placeholder": placeholder, "name": props.Name},
				Disabled: true,
			},
		}

	case model.ButtonProps:
		text := props.Text
		if text == "" {
			text = "Button"
		}
		wrapper.Children = []Node{{
			Kind:     KindButton,
			Text:     text,
			Attrs:    map[string]string{"variant": props.Variant},
			Disabled: true,
		}}

	case model.TableProps:
		// Literal content only; collection binding is resolved by the app
		// renderer, not the editor canvas.
		columns := props.Columns
		if columns == nil {
			columns = []string{}
		}
		rows := props.Rows
		if rows == nil {
			rows = [][]string{}
		}
		wrapper.Children = []Node{{
			Kind:    KindTable,
			Columns: columns,
			Rows:    rows,
		}}

	default:
		wrapper.Children = []Node{{
			Kind: KindPlaceholder,
			Text: "Unknown block type",
		}}
	}

	return wrapper
}

// Reorder computes the block id order that results from dropping draggedID
// onto targetID: the dragged block leaves its old index and is inserted at
// the target's index. Returns false (no-op) when the ids are equal or
// either is absent.
func Reorder(blocks []model.Block, draggedID, targetID string) ([]string, bool) {
	if draggedID == targetID {
		return nil, false
	}

	oldIndex, newIndex := -1, -1
	for i, block := range blocks {
		if block.ID == draggedID {
			oldIndex = i
		}
		if block.ID == targetID {
			newIndex = i
		}
	}
	if oldIndex == -1 || newIndex == -1 {
		return nil, false
	}

	ids := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.ID != draggedID {
			ids = append(ids, block.ID)
		}
	}

	// Insert at the target block's index in the updated sequence
	out := make([]string, 0, len(blocks))
	out = append(out, ids[:newIndex]...)
	out = append(out, draggedID)
	out = append(out, ids[newIndex:]...)
	return out, true
}
