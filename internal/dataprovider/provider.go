package dataprovider

import (
	"context"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
)

// Provider resolves the data rows backing a schema collection. Table blocks
// bound to a collection render whatever the provider returns; they never
// reach into storage themselves.
type Provider interface {
	Rows(ctx context.Context, collectionID string, limit int) ([]model.RowData, error)
}

// StoreProvider serves rows from the builder's own row store
type StoreProvider struct {
	rows repository.RowRepository
}

// NewStoreProvider creates a provider backed by the internal row store
func NewStoreProvider(rows repository.RowRepository) *StoreProvider {
	return &StoreProvider{rows: rows}
}

// Rows returns the stored rows of a collection, newest first
func (p *StoreProvider) Rows(ctx context.Context, collectionID string, limit int) ([]model.RowData, error) {
	stored, err := p.rows.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	data := make([]model.RowData, len(stored))
	for i, row := range stored {
		data[i] = row.Data
	}
	return data, nil
}

// Resolver routes each collection to its provider: collections with a
// registered external source read from it, everything else reads from the
// internal store.
type Resolver struct {
	store    Provider
	external map[string]Provider
}

// NewResolver creates a resolver with the internal store as the default
func NewResolver(store Provider) *Resolver {
	return &Resolver{
		store:    store,
		external: make(map[string]Provider),
	}
}

// Bind routes a collection to an external provider
func (r *Resolver) Bind(collectionID string, provider Provider) {
	r.external[collectionID] = provider
}

// Rows resolves the rows of one collection through its bound provider
func (r *Resolver) Rows(ctx context.Context, collectionID string, limit int) ([]model.RowData, error) {
	if provider, ok := r.external[collectionID]; ok {
		rows, err := provider.Rows(ctx, collectionID, limit)
		if err == nil {
			middleware.RecordRowsRead("external", len(rows))
		}
		return rows, err
	}
	rows, err := r.store.Rows(ctx, collectionID, limit)
	if err == nil {
		middleware.RecordRowsRead("store", len(rows))
	}
	return rows, err
}
