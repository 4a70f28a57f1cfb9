package render

import (
	"testing"

	"bricks-studio/internal/model"
)

func testProject(blocks ...model.Block) *model.Project {
	p := model.NewProject("owner", "Test App")
	p.Blocks = blocks
	return p
}

func TestCanvasNilProject(t *testing.T) {
	node := Canvas(nil, "")
	if node.Kind != KindPlaceholder {
		t.Fatalf("expected placeholder, got %s", node.Kind)
	}
	if node.Text != "Create or load a project to start building." {
		t.Errorf("unexpected placeholder text: %q", node.Text)
	}
}

func TestCanvasEmptyProject(t *testing.T) {
	node := Canvas(testProject(), "")
	if node.Kind != KindCanvas {
		t.Fatalf("expected canvas root, got %s", node.Kind)
	}
	if len(node.Children) != 1 || node.Children[0].Kind != KindPlaceholder {
		t.Fatalf("expected single placeholder child, got %+v", node.Children)
	}
	if node.Children[0].Text != "Add or drag a block here to get started." {
		t.Errorf("unexpected placeholder text: %q", node.Children[0].Text)
	}
}

func TestCanvasBlockWrappers(t *testing.T) {
	text := model.NewBlock(model.BlockTypeText)
	button := model.NewBlock(model.BlockTypeButton)
	node := Canvas(testProject(text, button), button.ID)

	if len(node.Children) != 2 {
		t.Fatalf("expected 2 wrappers, got %d", len(node.Children))
	}

	first := node.Children[0]
	if first.Kind != KindBlock || !first.Draggable || first.Selected {
		t.Errorf("unexpected first wrapper: %+v", first)
	}
	if first.BlockID != text.ID || first.BlockType != "text" {
		t.Errorf("wrapper lost block identity: %+v", first)
	}

	second := node.Children[1]
	if !second.Selected {
		t.Error("expected second block to be selected")
	}
	if first.Selected && second.Selected {
		t.Error("selection must be exclusive")
	}
}

func TestCanvasTextBlock(t *testing.T) {
	block := model.Block{ID: "b1", Type: model.BlockTypeText, Props: model.TextProps{Text: "Welcome", Tag: "h1"}}
	node := Canvas(testProject(block), "")

	child := node.Children[0].Children[0]
	if child.Kind != KindHeading || child.Tag != "h1" || child.Text != "Welcome" {
		t.Errorf("unexpected heading node: %+v", child)
	}
}

func TestCanvasTextBlockSanitizesTag(t *testing.T) {
	block := model.Block{ID: "b1", Type: model.BlockTypeText, Props: model.TextProps{Text: "X", Tag: "script"}}
	node := Canvas(testProject(block), "")

	if tag := node.Children[0].Children[0].Tag; tag != "h2" {
		t.Errorf("expected unsafe tag to fall back to h2, got %q", tag)
	}
}

func TestCanvasInputBlockIsInert(t *testing.T) {
	block := model.Block{ID: "b1", Type: model.BlockTypeInput, Props: model.InputProps{Label: "Email", Placeholder: "you@example.com", Name: "email"}}
	node := Canvas(testProject(block), "")

	children := node.Children[0].Children
	if len(children) != 2 {
		t.Fatalf("expected label and input, got %d nodes", len(children))
	}
	if children[0].Kind != KindLabel || children[0].Text != "Email" {
		t.Errorf("unexpected label: %+v", children[0])
	}
	input := children[1]
	if input.Kind != KindInput || !input.Disabled {
		t.Errorf("canvas input must be disabled: %+v", input)
	}
	if input.Attrs["placeholder"] != "you@example.com" || input.Attrs["name"] != "email" {
		t.Errorf("unexpected input attrs: %v", input.Attrs)
	}
}

func TestCanvasTableBlockLiteralContent(t *testing.T) {
	block := model.Block{ID: "b1", Type: model.BlockTypeTable, Props: model.TableProps{
		Columns:      []string{"Name", "Email"},
		Rows:         [][]string{{"Ada", "ada@example.com"}},
		CollectionID: "c1",
	}}
	node := Canvas(testProject(block), "")

	table := node.Children[0].Children[0]
	if table.Kind != KindTable {
		t.Fatalf("expected table node, got %s", table.Kind)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "Name" {
		t.Errorf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "ada@example.com" {
		t.Errorf("unexpected rows: %v", table.Rows)
	}
}

func TestCanvasUnknownBlockType(t *testing.T) {
	block := model.Block{ID: "b1", Type: "carousel", Props: model.UnknownProps{"x": 1}}
	node := Canvas(testProject(block), "")

	wrapper := node.Children[0]
	if wrapper.Kind != KindBlock {
		t.Fatalf("unknown blocks still get a wrapper, got %s", wrapper.Kind)
	}
	child := wrapper.Children[0]
	if child.Kind != KindPlaceholder || child.Text != "Unknown block type" {
		t.Errorf("unexpected unknown-type node: %+v", child)
	}
}

func TestReorder(t *testing.T) {
	blocks := []model.Block{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	order, ok := Reorder(blocks, "a", "c")
	if !ok {
		t.Fatal("expected reorder to apply")
	}
	if order[0] != "b" || order[1] != "c" || order[2] != "a" {
		t.Errorf("drag forward: got %v", order)
	}

	order, ok = Reorder(blocks, "c", "a")
	if !ok {
		t.Fatal("expected reorder to apply")
	}
	if order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Errorf("drag backward: got %v", order)
	}
}

func TestReorderNoOps(t *testing.T) {
	blocks := []model.Block{{ID: "a"}, {ID: "b"}}

	if _, ok := Reorder(blocks, "a", "a"); ok {
		t.Error("dropping a block on itself must be a no-op")
	}
	if _, ok := Reorder(blocks, "ghost", "b"); ok {
		t.Error("unknown dragged id must be a no-op")
	}
	if _, ok := Reorder(blocks, "a", "ghost"); ok {
		t.Error("unknown target id must be a no-op")
	}
}

func TestSafeTag(t *testing.T) {
	for _, tag := range []string{"h1", "h4", "h6", "p", "span"} {
		if safeTag(tag) != tag {
			t.Errorf("expected %q to pass through", tag)
		}
	}
	for _, tag := range []string{"", "div", "script", "H1"} {
		if safeTag(tag) != "h2" {
			t.Errorf("expected %q to fall back to h2", tag)
		}
	}
}
