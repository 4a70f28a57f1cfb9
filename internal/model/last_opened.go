package model

import "time"

// LastOpened tracks the most recently opened project per user
type LastOpened struct {
	OwnerID   string    `gorm:"type:char(36);primaryKey" json:"ownerId"`
	ProjectID string    `gorm:"type:char(36);not null" json:"projectId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the LastOpened model
func (LastOpened) TableName() string {
	return "last_opened_projects"
}
