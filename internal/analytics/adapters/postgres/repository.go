package postgres

import (
	"context"
	"fmt"
	"time"

	"visitor-analytics-service/internal/analytics/core/domain"
	"visitor-analytics-service/internal/analytics/core/ports"
	"visitor-analytics-service/internal/platform/database"
)

// RowScanner is shared with the tracking adapters through database.Rows.
type RowScanner = database.Rows

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type DashboardRepository struct {
	db DB
}

func NewDashboardRepository(db DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

var _ ports.DashboardReaderPort = (*DashboardRepository)(nil)

const dailySnapshotsSQL = `
SELECT
    date,
    COALESCE(total_visitors, 0),
    COALESCE(unique_visitors, 0),
    COALESCE(total_page_views, 0),
    COALESCE(bounce_rate, 0)::float8,
    COALESCE(avg_session_duration, 0)::float8
FROM site_analytics
WHERE date >= $1::date
ORDER BY date DESC`

const pageViewCountsSQL = `
SELECT
    page_path,
    COUNT(*) AS views
FROM page_visits
WHERE created_at >= $1
GROUP BY page_path`

func (r *DashboardRepository) DailySnapshots(ctx context.Context, since time.Time) ([]domain.DailySnapshot, error) {
	rows, err := r.db.QueryContext(ctx, dailySnapshotsSQL, since.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailySnapshot
	for rows.Next() {
		var s domain.DailySnapshot
		if err := rows.Scan(
			&s.Date,
			&s.TotalVisitors,
			&s.UniqueVisitors,
			&s.TotalPageViews,
			&s.BounceRate,
			&s.AvgSessionDuration,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DashboardRepository) PageViewCounts(ctx context.Context, since time.Time) ([]domain.KeyCount, error) {
	return r.keyCounts(ctx, pageViewCountsSQL, since)
}

func (r *DashboardRepository) SessionCounts(ctx context.Context, since time.Time, facet ports.SessionFacet) ([]domain.KeyCount, error) {
	switch facet {
	case ports.FacetDevice, ports.FacetCountry, ports.FacetBrowser:
	default:
		return nil, fmt.Errorf("unsupported session facet: %s", facet)
	}

	// facet is one of the whitelisted column names above
	query := fmt.Sprintf(`
SELECT
    COALESCE(%s, '') AS key,
    COUNT(*) AS sessions
FROM visitor_sessions
WHERE created_at >= $1
GROUP BY 1`, facet)

	return r.keyCounts(ctx, query, since)
}

func (r *DashboardRepository) keyCounts(ctx context.Context, query string, since time.Time) ([]domain.KeyCount, error) {
	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.KeyCount
	for rows.Next() {
		var kc domain.KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
