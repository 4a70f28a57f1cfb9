package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RowData is the arbitrary string-keyed payload of one collection row
type RowData map[string]interface{}

// Value implements driver.Valuer interface for GORM
func (rd RowData) Value() (driver.Value, error) {
	if rd == nil {
		rd = RowData{}
	}
	return json.Marshal(rd)
}

// Scan implements sql.Scanner interface for GORM
func (rd *RowData) Scan(value interface{}) error {
	if value == nil {
		*rd = RowData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported row data column type %T", value)
	}

	return json.Unmarshal(bytes, rd)
}

// CollectionRow is one externally stored record joined to a schema
// collection by CollectionID at render time. Rows are owned by the data
// store, never by the blocks that display them.
type CollectionRow struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	CollectionID string    `gorm:"type:char(36);index;not null" json:"collectionId"`
	Data         RowData   `gorm:"type:json" json:"data"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the table name for the CollectionRow model
func (CollectionRow) TableName() string {
	return "collection_rows"
}

// BeforeCreate generates a new UUID if ID is empty
func (r *CollectionRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
