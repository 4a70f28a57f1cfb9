package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchemaVersion is the current version of the persisted project layout
const SchemaVersion = 1

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
)

// IsValidFieldType checks if a schema field type is valid
func IsValidFieldType(fieldType string) bool {
	switch FieldType(fieldType) {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeDate:
		return true
	default:
		return false
	}
}

// SchemaField describes one typed field of a collection. It is purely
// descriptive; row data is not validated against it.
type SchemaField struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// SchemaCollection is a user-defined data model attached to a project
type SchemaCollection struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Fields []SchemaField `json:"fields"`
}

// NewSchemaCollection creates an empty collection with a fresh id
func NewSchemaCollection(name string) SchemaCollection {
	return SchemaCollection{
		ID:     uuid.New().String(),
		Name:   name,
		Fields: []SchemaField{},
	}
}

// Clone returns a deep copy of the collection
func (c SchemaCollection) Clone() SchemaCollection {
	fields := make([]SchemaField, len(c.Fields))
	copy(fields, c.Fields)
	return SchemaCollection{ID: c.ID, Name: c.Name, Fields: fields}
}

// BlockList is the ordered block sequence of a project, stored as a JSON column
type BlockList []Block

// Value implements driver.Valuer interface for GORM
func (bl BlockList) Value() (driver.Value, error) {
	if bl == nil {
		bl = BlockList{}
	}
	return json.Marshal(bl)
}

// Scan implements sql.Scanner interface for GORM
func (bl *BlockList) Scan(value interface{}) error {
	if value == nil {
		*bl = BlockList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported block list column type %T", value)
	}

	return json.Unmarshal(bytes, bl)
}

// SchemaList is the set of collections of a project, stored as a JSON column
type SchemaList []SchemaCollection

// Value implements driver.Valuer interface for GORM
func (sl SchemaList) Value() (driver.Value, error) {
	if sl == nil {
		sl = SchemaList{}
	}
	return json.Marshal(sl)
}

// Scan implements sql.Scanner interface for GORM
func (sl *SchemaList) Scan(value interface{}) error {
	if value == nil {
		*sl = SchemaList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported schema list column type %T", value)
	}

	return json.Unmarshal(bytes, sl)
}

// Project is the aggregate root: a named, ordered collection of blocks plus
// a user-defined schema. Block order is rendering order.
type Project struct {
	ID            string     `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID       string     `gorm:"type:char(36);index" json:"ownerId"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Blocks        BlockList  `gorm:"type:json" json:"blocks"`
	Schema        SchemaList `gorm:"type:json" json:"schema"`
	SchemaVersion int        `gorm:"not null;default:1" json:"schemaVersion"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate generates a new UUID if ID is empty
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// NewProject creates an empty project owned by the given user
func NewProject(ownerID, name string) *Project {
	return &Project{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Name:          name,
		Blocks:        BlockList{},
		Schema:        SchemaList{},
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().UTC(),
	}
}

// FindBlock returns the block with the given id, or nil
func (p *Project) FindBlock(id string) *Block {
	for i := range p.Blocks {
		if p.Blocks[i].ID == id {
			return &p.Blocks[i]
		}
	}
	return nil
}

// FindCollection returns the collection with the given id, or nil
func (p *Project) FindCollection(id string) *SchemaCollection {
	for i := range p.Schema {
		if p.Schema[i].ID == id {
			return &p.Schema[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the project aggregate. Mutations always work
// on rebuilt top-level containers, never in place.
func (p *Project) Clone() *Project {
	blocks := make(BlockList, len(p.Blocks))
	for i, block := range p.Blocks {
		blocks[i] = block.Clone()
	}

	schema := make(SchemaList, len(p.Schema))
	for i, collection := range p.Schema {
		schema[i] = collection.Clone()
	}

	return &Project{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Blocks:        blocks,
		Schema:        schema,
		SchemaVersion: p.SchemaVersion,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
