package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deployment records one published, immutable snapshot of a project.
// SnapshotKey addresses the serialized aggregate in the snapshot store.
type Deployment struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProjectID   string    `gorm:"type:char(36);index;not null" json:"projectId"`
	SnapshotKey string    `gorm:"size:512;not null" json:"snapshotKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName returns the table name for the Deployment model
func (Deployment) TableName() string {
	return "deployments"
}

// BeforeCreate generates a new UUID if ID is empty
func (d *Deployment) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
