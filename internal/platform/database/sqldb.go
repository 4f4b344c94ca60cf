package database

import (
	"context"
	"database/sql"
)

// Rows is the cursor surface repositories scan from. Adapter packages alias it
// so a single *SQL value satisfies each of their DB interfaces.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// SQL adapts *sql.DB to the narrow interfaces the postgres adapters depend on.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// QueryContext returns *sql.Rows behind the Rows interface.
func (s *SQL) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
