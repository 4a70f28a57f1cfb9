package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/utils"
)

type DataService interface {
	ListRows(ctx context.Context, collectionID string) (*ListRowsResponse, error)
	InsertRow(ctx context.Context, collectionID string, data model.RowData) (*model.CollectionRow, error)
	DeleteRows(ctx context.Context, collectionID string) error
	ImportCSV(ctx context.Context, collectionID string, reader io.Reader) (*ImportCSVResponse, error)
}

type dataService struct {
	rows repository.RowRepository
}

type ListRowsResponse struct {
	Rows  []*model.CollectionRow `json:"rows"`
	Total int                    `json:"total"`
}

type ImportCSVResponse struct {
	Imported int      `json:"imported"`
	Columns  []string `json:"columns"`
}

// NewDataService creates a new instance of DataService
func NewDataService(rows repository.RowRepository) DataService {
	return &dataService{
		rows: rows,
	}
}

func (s *dataService) ListRows(ctx context.Context, collectionID string) (*ListRowsResponse, error) {
	// Validate UUID format
	if !utils.IsValidUUID(collectionID) {
		return nil, repository.ErrInvalidUUID
	}

	rows, err := s.rows.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}

	return &ListRowsResponse{
		Rows:  rows,
		Total: len(rows),
	}, nil
}

func (s *dataService) InsertRow(ctx context.Context, collectionID string, data model.RowData) (*model.CollectionRow, error) {
	// Validate UUID format
	if !utils.IsValidUUID(collectionID) {
		return nil, repository.ErrInvalidUUID
	}
	if data == nil {
		data = model.RowData{}
	}

	row := &model.CollectionRow{
		ID:           utils.GenerateUUID(),
		CollectionID: collectionID,
		Data:         data,
	}

	if err := s.rows.Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to insert row: %w", err)
	}

	return row, nil
}

func (s *dataService) DeleteRows(ctx context.Context, collectionID string) error {
	// Validate UUID format
	if !utils.IsValidUUID(collectionID) {
		return repository.ErrInvalidUUID
	}

	if err := s.rows.DeleteByCollection(ctx, collectionID); err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}

	return nil
}

// ImportCSV bulk-loads rows from a CSV document. The first record is the
// header; each following record becomes one row keyed by header name.
func (s *dataService) ImportCSV(ctx context.Context, collectionID string, reader io.Reader) (*ImportCSVResponse, error) {
	// Validate UUID format
	if !utils.IsValidUUID(collectionID) {
		return nil, repository.ErrInvalidUUID
	}

	cr := csv.NewReader(reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv document is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	imported := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		data := make(model.RowData, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			if i < len(record) {
				data[column] = record[i]
			} else {
				data[column] = ""
			}
		}

		row := &model.CollectionRow{
			ID:           utils.GenerateUUID(),
			CollectionID: collectionID,
			Data:         data,
		}
		if err := s.rows.Insert(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to insert row %d: %w", imported+1, err)
		}
		imported++
	}

	return &ImportCSVResponse{
		Imported: imported,
		Columns:  columns,
	}, nil
}
