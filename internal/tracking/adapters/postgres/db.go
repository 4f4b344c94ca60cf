package postgres

import (
	"context"
	"database/sql"

	"visitor-analytics-service/internal/platform/database"
)

type RowScanner = database.Rows

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}
