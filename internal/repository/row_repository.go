package repository

import (
	"context"

	"gorm.io/gorm"

	"bricks-studio/internal/model"
)

type rowRepository struct {
	db *gorm.DB
}

// NewRowRepository creates a new instance of RowRepository
func NewRowRepository(db *gorm.DB) RowRepository {
	return &rowRepository{db: db}
}

// ListByCollection retrieves rows of a collection, newest first
func (r *rowRepository) ListByCollection(ctx context.Context, collectionID string) ([]*model.CollectionRow, error) {
	var rows []*model.CollectionRow
	result := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("created_at DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// Insert stores a new row
func (r *rowRepository) Insert(ctx context.Context, row *model.CollectionRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteByCollection removes all rows of a collection
func (r *rowRepository) DeleteByCollection(ctx context.Context, collectionID string) error {
	return r.db.WithContext(ctx).Where("collection_id = ?", collectionID).Delete(&model.CollectionRow{}).Error
}
