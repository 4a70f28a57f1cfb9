package render

import (
	"bricks-studio/internal/model"
)

// CollectionView is one schema collection in the editor sidebar
type CollectionView struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Selected bool                `json:"selected,omitempty"`
	Fields   []model.SchemaField `json:"fields"`
}

// SchemaView is the collection/field management surface of a project
type SchemaView struct {
	Empty       bool             `json:"empty,omitempty"`
	Message     string           `json:"message,omitempty"`
	Collections []CollectionView `json:"collections"`
	FieldTypes  []string         `json:"fieldTypes"`
}

var fieldTypeOptions = []string{
	string(model.FieldTypeString),
	string(model.FieldTypeNumber),
	string(model.FieldTypeBoolean),
	string(model.FieldTypeDate),
}

// Schema builds the schema editor view. Collection selection is transient
// UI state, independent of block selection.
func Schema(project *model.Project, selectedCollectionID string) SchemaView {
	if project == nil {
		return SchemaView{
			Empty:      true,
			Message:    "Create or load a project to start defining data models.",
			FieldTypes: fieldTypeOptions,
		}
	}

	view := SchemaView{
		Collections: make([]CollectionView, len(project.Schema)),
		FieldTypes:  fieldTypeOptions,
	}
	if len(project.Schema) == 0 {
		view.Message = "No collections yet."
	}

	for i, collection := range project.Schema {
		fields := make([]model.SchemaField, len(collection.Fields))
		copy(fields, collection.Fields)
		view.Collections[i] = CollectionView{
			ID:       collection.ID,
			Name:     collection.Name,
			Selected: collection.ID == selectedCollectionID,
			Fields:   fields,
		}
	}
	return view
}
