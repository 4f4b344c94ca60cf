package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"visitor-analytics-service/internal/analytics/core/domain"
	"visitor-analytics-service/internal/analytics/core/ports"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidPeriod = errors.New("invalid period, expected today, week or month")

const topN = 5

type GetDashboardInput struct {
	Period string // "", "today", "week", "month"
}

type GetDashboardUseCase struct {
	reader ports.DashboardReaderPort
	now    func() time.Time
}

func NewGetDashboardUseCase(reader ports.DashboardReaderPort) *GetDashboardUseCase {
	return &GetDashboardUseCase{reader: reader, now: time.Now}
}

// WithClock replaces the time source.
func (uc *GetDashboardUseCase) WithClock(now func() time.Time) *GetDashboardUseCase {
	uc.now = now
	return uc
}

// Since returns the lower bound of the period, relative to now. Today starts
// at midnight UTC.
func Since(p domain.Period, now time.Time) (time.Time, error) {
	now = now.UTC()
	switch p {
	case domain.PeriodToday:
		return now.Truncate(24 * time.Hour), nil
	case domain.PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case domain.PeriodMonth:
		return now.AddDate(0, 0, -30), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context, in GetDashboardInput) (*domain.Dashboard, error) {
	period := domain.Period(in.Period)
	if period == "" {
		period = domain.PeriodToday
	}

	since, err := Since(period, uc.now())
	if err != nil {
		return nil, err
	}

	var (
		days                      []domain.DailySnapshot
		pages                     []domain.KeyCount
		devices, countries, brows []domain.KeyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		days, err = uc.reader.DailySnapshots(gctx, since)
		return wrap("daily snapshots", err)
	})
	g.Go(func() (err error) {
		pages, err = uc.reader.PageViewCounts(gctx, since)
		return wrap("page views", err)
	})
	g.Go(func() (err error) {
		devices, err = uc.reader.SessionCounts(gctx, since, ports.FacetDevice)
		return wrap("device stats", err)
	})
	g.Go(func() (err error) {
		countries, err = uc.reader.SessionCounts(gctx, since, ports.FacetCountry)
		return wrap("country stats", err)
	})
	g.Go(func() (err error) {
		brows, err = uc.reader.SessionCounts(gctx, since, ports.FacetBrowser)
		return wrap("browser stats", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &domain.Dashboard{
		Period:       period,
		Since:        since,
		TopPages:     rank(pages, "", topN),
		DeviceStats:  rank(devices, domain.UnknownDevice, 0),
		CountryStats: rank(countries, domain.UnknownLabel, topN),
		BrowserStats: rank(brows, domain.UnknownLabel, topN),
	}
	summarize(d, days)

	return d, nil
}

// summarize sums the counters and averages the rates over the returned days.
func summarize(d *domain.Dashboard, days []domain.DailySnapshot) {
	if len(days) == 0 {
		return
	}

	var bounce, duration float64
	for _, day := range days {
		d.TotalVisitors += day.TotalVisitors
		d.UniqueVisitors += day.UniqueVisitors
		d.TotalPageViews += day.TotalPageViews
		bounce += day.BounceRate
		duration += day.AvgSessionDuration
	}

	n := float64(len(days))
	d.BounceRate = bounce / n
	d.AvgSessionDuration = duration / n
}

// rank folds empty keys into fallback, merges duplicates, orders by count
// descending then key ascending and keeps the first limit entries (all when
// limit is 0).
func rank(in []domain.KeyCount, fallback string, limit int) []domain.KeyCount {
	merged := make(map[string]int64, len(in))
	for _, kc := range in {
		key := kc.Key
		if key == "" {
			key = fallback
		}
		merged[key] += kc.Count
	}

	out := make([]domain.KeyCount, 0, len(merged))
	for k, c := range merged {
		out = append(out, domain.KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
