package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type BlockType string

const (
	BlockTypeText    BlockType = "text"
	BlockTypeHeading BlockType = "heading"
	BlockTypeInput   BlockType = "input"
	BlockTypeButton  BlockType = "button"
	BlockTypeTable   BlockType = "table"
)

// IsValidBlockType checks if a block type is part of the canonical enumeration
func IsValidBlockType(blockType string) bool {
	switch BlockType(blockType) {
	case BlockTypeText, BlockTypeHeading, BlockTypeInput, BlockTypeButton, BlockTypeTable:
		return true
	default:
		return false
	}
}

// BlockProps is the per-type property record of a block. Each block type
// carries its own variant; payloads with an out-of-enum type decode into
// UnknownProps and are carried through untouched.
type BlockProps interface {
	blockType() BlockType
}

// TextProps configures a text block
type TextProps struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// HeadingProps configures a heading block
type HeadingProps struct {
	Text  string `json:"text"`
	Level string `json:"level"`
}

// InputProps configures an input block
type InputProps struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Name        string `json:"name"`
}

// ButtonProps configures a button block
type ButtonProps struct {
	Text    string `json:"text"`
	Variant string `json:"variant"`
}

// TableProps configures a table block. Columns/Rows hold literal content;
// CollectionID is a weak reference resolved against the project schema at
// render time.
type TableProps struct {
	Columns        []string   `json:"columns"`
	Rows           [][]string `json:"rows"`
	CollectionID   string     `json:"collectionId,omitempty"`
	CollectionName string     `json:"collectionName,omitempty"`
}

// UnknownProps preserves the props of a block whose type is not recognized
type UnknownProps map[string]interface{}

func (TextProps) blockType() BlockType    { return BlockTypeText }
func (HeadingProps) blockType() BlockType { return BlockTypeHeading }
func (InputProps) blockType() BlockType   { return BlockTypeInput }
func (ButtonProps) blockType() BlockType  { return BlockTypeButton }
func (TableProps) blockType() BlockType   { return BlockTypeTable }
func (UnknownProps) blockType() BlockType { return "" }

// Block represents one positioned, typed UI unit within a project canvas
type Block struct {
	ID    string     `json:"id"`
	Type  BlockType  `json:"type"`
	Props BlockProps `json:"props"`
}

// DefaultProps returns the initial property record for a block type
func DefaultProps(blockType BlockType) BlockProps {
	switch blockType {
	case BlockTypeText:
		return TextProps{Text: "Heading", Tag: "h2"}
	case BlockTypeHeading:
		return HeadingProps{Text: "Heading", Level: "h2"}
	case BlockTypeInput:
		return InputProps{Label: "Name", Placeholder: "Enter text", Name: "field"}
	case BlockTypeButton:
		return ButtonProps{Text: "Button", Variant: "default"}
	case BlockTypeTable:
		return TableProps{Columns: []string{"Column 1", "Column 2"}, Rows: [][]string{{"", ""}}}
	default:
		return UnknownProps{}
	}
}

// NewBlock creates a block of the given type with default props
func NewBlock(blockType BlockType) Block {
	return Block{
		ID:    uuid.New().String(),
		Type:  blockType,
		Props: DefaultProps(blockType),
	}
}

// ApplyPatch shallow-merges a partial props document into the block's props.
// Only keys present in the patch are overwritten, so applying the same patch
// twice yields the same result as applying it once.
func (b *Block) ApplyPatch(patch json.RawMessage) error {
	if len(patch) == 0 {
		return nil
	}

	switch props := b.Props.(type) {
	case TextProps:
		if err := json.Unmarshal(patch, &props); err != nil {
			return fmt.Errorf("invalid text props patch: %w", err)
		}
		b.Props = props
	case HeadingProps:
		if err := json.Unmarshal(patch, &props); err != nil {
			return fmt.Errorf("invalid heading props patch: %w", err)
		}
		b.Props = props
	case InputProps:
		if err := json.Unmarshal(patch, &props); err != nil {
			return fmt.Errorf("invalid input props patch: %w", err)
		}
		b.Props = props
	case ButtonProps:
		if err := json.Unmarshal(patch, &props); err != nil {
			return fmt.Errorf("invalid button props patch: %w", err)
		}
		b.Props = props
	case TableProps:
		if err := json.Unmarshal(patch, &props); err != nil {
			return fmt.Errorf("invalid table props patch: %w", err)
		}
		b.Props = props
	case UnknownProps:
		var overlay map[string]interface{}
		if err := json.Unmarshal(patch, &overlay); err != nil {
			return fmt.Errorf("invalid props patch: %w", err)
		}
		merged := make(UnknownProps, len(props)+len(overlay))
		for k, v := range props {
			merged[k] = v
		}
		for k, v := range overlay {
			merged[k] = v
		}
		b.Props = merged
	default:
		b.Props = UnknownProps{}
		return b.ApplyPatch(patch)
	}

	return nil
}

type blockEnvelope struct {
	ID    string          `json:"id"`
	Type  BlockType       `json:"type"`
	Props json.RawMessage `json:"props"`
}

// UnmarshalJSON decodes the props variant selected by the type tag.
// Unrecognized types never fail; their props are kept as an untyped bag.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	b.ID = env.ID
	b.Type = env.Type

	if len(env.Props) == 0 {
		env.Props = []byte("{}")
	}

	switch env.Type {
	case BlockTypeText:
		var props TextProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			return fmt.Errorf("invalid text props: %w", err)
		}
		b.Props = props
	case BlockTypeHeading:
		var props HeadingProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			return fmt.Errorf("invalid heading props: %w", err)
		}
		b.Props = props
	case BlockTypeInput:
		var props InputProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			return fmt.Errorf("invalid input props: %w", err)
		}
		b.Props = props
	case BlockTypeButton:
		var props ButtonProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			return fmt.Errorf("invalid button props: %w", err)
		}
		b.Props = props
	case BlockTypeTable:
		var props TableProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			return fmt.Errorf("invalid table props: %w", err)
		}
		b.Props = props
	default:
		var props UnknownProps
		if err := json.Unmarshal(env.Props, &props); err != nil {
			props = UnknownProps{}
		}
		b.Props = props
	}

	return nil
}

// MarshalJSON encodes the block with its typed props inline
func (b Block) MarshalJSON() ([]byte, error) {
	props := b.Props
	if props == nil {
		props = UnknownProps{}
	}
	return json.Marshal(struct {
		ID    string     `json:"id"`
		Type  BlockType  `json:"type"`
		Props BlockProps `json:"props"`
	}{ID: b.ID, Type: b.Type, Props: props})
}

// Clone returns a deep copy of the block
func (b Block) Clone() Block {
	clone := Block{ID: b.ID, Type: b.Type}

	switch props := b.Props.(type) {
	case TableProps:
		cols := make([]string, len(props.Columns))
		copy(cols, props.Columns)
		rows := make([][]string, len(props.Rows))
		for i, row := range props.Rows {
			rows[i] = make([]string, len(row))
			copy(rows[i], row)
		}
		clone.Props = TableProps{
			Columns:        cols,
			Rows:           rows,
			CollectionID:   props.CollectionID,
			CollectionName: props.CollectionName,
		}
	case UnknownProps:
		bag := make(UnknownProps, len(props))
		for k, v := range props {
			bag[k] = v
		}
		clone.Props = bag
	default:
		// Value-type variants copy by assignment
		clone.Props = b.Props
	}

	return clone
}
