package ports

import (
	"context"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
)

// SessionRepositoryPort is the row contract on visitor_sessions.
type SessionRepositoryPort interface {
	// FindBySessionID:
	//   s != nil, err = nil   -> row found
	//   s == nil, err = nil   -> no row
	//   s == nil, err != nil  -> DB error
	FindBySessionID(ctx context.Context, sessionID string) (*domain.VisitorSession, error)

	// InsertSession returns created=false when a row with the same session_id
	// already exists (another tab won the race).
	InsertSession(ctx context.Context, s *domain.VisitorSession) (created bool, err error)

	// RecordReturnVisit bumps total_visits and total_page_views, marks the row
	// active and moves last_visit. The increment happens in SQL.
	RecordReturnVisit(ctx context.Context, id string, at time.Time) error

	// IncrementPageViews calls increment_page_views(session_uuid).
	IncrementPageViews(ctx context.Context, id string) (int64, error)

	TouchLastVisit(ctx context.Context, id string, at time.Time) error

	// CloseSession writes the final duration and clears is_active.
	CloseSession(ctx context.Context, id string, durationSeconds int64) error
}

type PageVisitRepositoryPort interface {
	InsertPageVisit(ctx context.Context, v *domain.PageVisit) (id string, err error)

	// UpdateLatestTimeOnPage updates the single most recently created visit of
	// the session. updated=false when the session has no visits.
	UpdateLatestTimeOnPage(ctx context.Context, sessionUUID string, seconds int64) (updated bool, err error)
}

// AnalyticsRefresherPort invokes the remote update_daily_analytics() procedure.
type AnalyticsRefresherPort interface {
	RefreshDailyAnalytics(ctx context.Context) error
}

// GeoLocatorPort is best-effort: callers treat any error as "no location".
type GeoLocatorPort interface {
	Locate(ctx context.Context, ip string) (*domain.Location, error)
}

// IdentityStorePort is the client-local storage holding the session id.
type IdentityStorePort interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, sessionID string) error
}

// PageVisitSinkPort receives a copy of every recorded page visit.
type PageVisitSinkPort interface {
	PublishPageVisit(ctx context.Context, s *domain.VisitorSession, v *domain.PageVisit) error
}

type TrackingMetricsPort interface {
	SessionTracked(outcome string)
	PageVisitTracked()
	TrackingFailed(op string)
}
