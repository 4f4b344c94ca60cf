package postgres

import (
	"context"
	"errors"
	"fmt"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"
)

type PageVisitRepository struct {
	db DB
}

func NewPageVisitRepository(db DB) *PageVisitRepository {
	return &PageVisitRepository{db: db}
}

var (
	_ ports.PageVisitRepositoryPort = (*PageVisitRepository)(nil)
	_ ports.AnalyticsRefresherPort  = (*PageVisitRepository)(nil)
)

const insertPageVisitSQL = `
INSERT INTO page_visits (
    session_id,
    page_path,
    page_title,
    visit_time
) VALUES (
    $1, $2, $3, $4
)
RETURNING id`

// Only the most recently created visit of the session is touched.
const updateLatestTimeOnPageSQL = `
UPDATE page_visits
SET time_on_page = $2
WHERE id = (
    SELECT id
    FROM page_visits
    WHERE session_id = $1
    ORDER BY created_at DESC
    LIMIT 1
)`

const refreshDailyAnalyticsSQL = `SELECT update_daily_analytics()`

func (r *PageVisitRepository) InsertPageVisit(ctx context.Context, v *domain.PageVisit) (string, error) {
	rows, err := r.db.QueryContext(ctx, insertPageVisitSQL,
		v.SessionID,
		v.PagePath,
		nullable(v.PageTitle),
		v.VisitTime,
	)
	if err != nil {
		return "", fmt.Errorf("insert page visit: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("insert page visit: %w", err)
		}
		return "", errors.New("insert page visit: no id returned")
	}

	var id string
	if err := rows.Scan(&id); err != nil {
		return "", fmt.Errorf("insert page visit: %w", err)
	}
	return id, rows.Err()
}

func (r *PageVisitRepository) UpdateLatestTimeOnPage(ctx context.Context, sessionUUID string, seconds int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateLatestTimeOnPageSQL, sessionUUID, seconds)
	if err != nil {
		return false, fmt.Errorf("update time on page: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PageVisitRepository) RefreshDailyAnalytics(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, refreshDailyAnalyticsSQL); err != nil {
		return fmt.Errorf("update daily analytics: %w", err)
	}
	return nil
}
