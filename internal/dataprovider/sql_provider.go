package dataprovider

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"bricks-studio/internal/model"
)

// SQLSource configures one external table serving a collection's rows.
// Driver is "postgres" or "mysql".
type SQLSource struct {
	Driver      string `mapstructure:"driver" json:"driver"`
	DSN         string `mapstructure:"dsn" json:"-"`
	Table       string `mapstructure:"table" json:"table"`
	MaxPoolSize int    `mapstructure:"maxPoolSize" json:"maxPoolSize"`
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SQLProvider reads collection rows out of an external SQL table. Column
// names become row keys, so schema fields line up by name.
type SQLProvider struct {
	source SQLSource

	mu sync.Mutex
	db *sql.DB
}

// NewSQLProvider validates the source and creates a provider. The
// connection opens lazily on first read.
func NewSQLProvider(source SQLSource) (*SQLProvider, error) {
	switch source.Driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", source.Driver)
	}
	if !identifierPattern.MatchString(source.Table) {
		return nil, fmt.Errorf("invalid table name: %s", source.Table)
	}
	return &SQLProvider{source: source}, nil
}

func (p *SQLProvider) conn(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		if err := p.db.PingContext(ctx); err == nil {
			return p.db, nil
		}
		p.db.Close()
		p.db = nil
	}

	db, err := sql.Open(p.source.Driver, p.source.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open external source: %w", err)
	}

	maxOpen := p.source.MaxPoolSize
	if maxOpen <= 0 {
		maxOpen = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping external source: %w", err)
	}

	p.db = db
	return db, nil
}

// Rows reads up to limit rows from the source table. The collection id is
// ignored; the provider is bound per collection by the resolver.
func (p *SQLProvider) Rows(ctx context.Context, _ string, limit int) ([]model.RowData, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", p.source.Table, limit)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query external source: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []model.RowData
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(model.RowData, len(columns))
		for i, column := range columns {
			record[column] = normalizeValue(values[i])
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool
func (p *SQLProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// normalizeValue converts driver-specific values into JSON-friendly ones
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return v
	}
}
