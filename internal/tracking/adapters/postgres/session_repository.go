package postgres

import (
	"context"
	"fmt"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ ports.SessionRepositoryPort = (*SessionRepository)(nil)

const findSessionSQL = `
SELECT
    id,
    session_id,
    COALESCE(user_agent, ''),
    COALESCE(device_type, ''),
    COALESCE(browser, ''),
    COALESCE(os, ''),
    COALESCE(referrer, ''),
    COALESCE(landing_page, ''),
    COALESCE(language, ''),
    COALESCE(country, ''),
    COALESCE(city, ''),
    COALESCE(ip_address, ''),
    COALESCE(total_visits, 0),
    COALESCE(total_page_views, 0),
    COALESCE(is_active, false),
    COALESCE(first_visit, created_at),
    COALESCE(last_visit, created_at),
    COALESCE(session_duration, 0)
FROM visitor_sessions
WHERE session_id = $1
LIMIT 1`

const insertSessionSQL = `
INSERT INTO visitor_sessions (
    session_id,
    user_agent,
    device_type,
    browser,
    os,
    referrer,
    landing_page,
    language,
    country,
    city,
    ip_address,
    total_visits,
    total_page_views,
    is_active,
    first_visit,
    last_visit
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8,
    $9, $10, $11, $12, $13, $14, $15, $16
)
ON CONFLICT (session_id) DO NOTHING;
`

const returnVisitSQL = `
UPDATE visitor_sessions
SET total_visits = COALESCE(total_visits, 0) + 1,
    total_page_views = COALESCE(total_page_views, 0) + 1,
    is_active = true,
    last_visit = $2,
    updated_at = now()
WHERE id = $1`

const incrementPageViewsSQL = `SELECT increment_page_views($1)`

const touchLastVisitSQL = `
UPDATE visitor_sessions
SET last_visit = $2,
    updated_at = now()
WHERE id = $1`

const closeSessionSQL = `
UPDATE visitor_sessions
SET session_duration = $2,
    is_active = false,
    updated_at = now()
WHERE id = $1`

func (r *SessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.VisitorSession, error) {
	rows, err := r.db.QueryContext(ctx, findSessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find session: %w", err)
		}
		return nil, nil
	}

	var s domain.VisitorSession
	if err := rows.Scan(
		&s.ID,
		&s.SessionID,
		&s.UserAgent,
		&s.DeviceType,
		&s.Browser,
		&s.OS,
		&s.Referrer,
		&s.LandingPage,
		&s.Language,
		&s.Country,
		&s.City,
		&s.IPAddress,
		&s.TotalVisits,
		&s.TotalPageViews,
		&s.IsActive,
		&s.FirstVisit,
		&s.LastVisit,
		&s.SessionDuration,
	); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &s, rows.Err()
}

func (r *SessionRepository) InsertSession(ctx context.Context, s *domain.VisitorSession) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.SessionID,
		nullable(s.UserAgent),
		s.DeviceType,
		s.Browser,
		s.OS,
		nullable(s.Referrer),
		nullable(s.LandingPage),
		nullable(s.Language),
		nullable(s.Country),
		nullable(s.City),
		nullable(s.IPAddress),
		s.TotalVisits,
		s.TotalPageViews,
		s.IsActive,
		s.FirstVisit,
		s.LastVisit,
	)
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 -> session_id already present (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func (r *SessionRepository) RecordReturnVisit(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "record return visit", returnVisitSQL, id, at)
}

func (r *SessionRepository) IncrementPageViews(ctx context.Context, id string) (int64, error) {
	rows, err := r.db.QueryContext(ctx, incrementPageViewsSQL, id)
	if err != nil {
		return 0, fmt.Errorf("increment page views: %w", err)
	}
	defer rows.Close()

	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, fmt.Errorf("increment page views: %w", err)
		}
	}
	return total, rows.Err()
}

func (r *SessionRepository) TouchLastVisit(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "touch last visit", touchLastVisitSQL, id, at)
}

func (r *SessionRepository) CloseSession(ctx context.Context, id string, durationSeconds int64) error {
	return r.exec(ctx, "close session", closeSessionSQL, id, durationSeconds)
}

func (r *SessionRepository) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
