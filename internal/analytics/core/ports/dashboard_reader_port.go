package ports

import (
	"context"
	"time"

	"visitor-analytics-service/internal/analytics/core/domain"
)

// SessionFacet names a visitor_sessions column the dashboard breaks down by.
type SessionFacet string

const (
	FacetDevice  SessionFacet = "device_type"
	FacetCountry SessionFacet = "country"
	FacetBrowser SessionFacet = "browser"
)

// DashboardReaderPort returns raw counts. Keys are returned as stored, with
// NULL reported as "", so defaulting stays with the caller.
type DashboardReaderPort interface {
	DailySnapshots(ctx context.Context, since time.Time) ([]domain.DailySnapshot, error)
	PageViewCounts(ctx context.Context, since time.Time) ([]domain.KeyCount, error)
	SessionCounts(ctx context.Context, since time.Time, facet SessionFacet) ([]domain.KeyCount, error)
}
