package usecase_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"visitor-analytics-service/internal/analytics/core/domain"
	"visitor-analytics-service/internal/analytics/core/ports"
	"visitor-analytics-service/internal/analytics/core/usecase"
)

// fakeDashboardReader implements DashboardReaderPort for tests.
type fakeDashboardReader struct {
	Days     []domain.DailySnapshot
	Pages    []domain.KeyCount
	Sessions map[ports.SessionFacet][]domain.KeyCount
	Err      error

	mu        sync.Mutex
	sinceSeen []time.Time
}

func (f *fakeDashboardReader) see(since time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinceSeen = append(f.sinceSeen, since)
}

func (f *fakeDashboardReader) DailySnapshots(ctx context.Context, since time.Time) ([]domain.DailySnapshot, error) {
	f.see(since)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Days, nil
}

func (f *fakeDashboardReader) PageViewCounts(ctx context.Context, since time.Time) ([]domain.KeyCount, error) {
	f.see(since)
	return f.Pages, nil
}

func (f *fakeDashboardReader) SessionCounts(ctx context.Context, since time.Time, facet ports.SessionFacet) ([]domain.KeyCount, error) {
	f.see(since)
	return f.Sessions[facet], nil
}

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newUseCase(reader ports.DashboardReaderPort) *usecase.GetDashboardUseCase {
	return usecase.NewGetDashboardUseCase(reader).WithClock(func() time.Time { return fixedNow })
}

// ------------------------------------------------------------
// PERIODS
// ------------------------------------------------------------

func TestSince(t *testing.T) {
	tests := []struct {
		period domain.Period
		want   time.Time
	}{
		{domain.PeriodToday, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{domain.PeriodWeek, time.Date(2026, 3, 3, 15, 30, 0, 0, time.UTC)},
		{domain.PeriodMonth, time.Date(2026, 2, 8, 15, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := usecase.Since(tt.period, fixedNow)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.period, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.period, tt.want, got)
		}
	}
}

func TestGetDashboard_InvalidPeriod(t *testing.T) {
	reader := &fakeDashboardReader{}

	_, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{Period: "year"})
	if !errors.Is(err, usecase.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if len(reader.sinceSeen) != 0 {
		t.Fatalf("expected no reads for invalid period")
	}
}

func TestGetDashboard_DefaultsToToday(t *testing.T) {
	reader := &fakeDashboardReader{}

	d, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Period != domain.PeriodToday {
		t.Errorf("expected period=today, got %s", d.Period)
	}
	for _, s := range reader.sinceSeen {
		if !s.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected all reads from midnight, got %v", s)
		}
	}
}

// ------------------------------------------------------------
// SUMMARY
// ------------------------------------------------------------

func TestGetDashboard_SummaryOverDays(t *testing.T) {
	reader := &fakeDashboardReader{
		Days: []domain.DailySnapshot{
			{TotalVisitors: 10, UniqueVisitors: 8, TotalPageViews: 30, BounceRate: 0.5, AvgSessionDuration: 60},
			{TotalVisitors: 20, UniqueVisitors: 12, TotalPageViews: 50, BounceRate: 0.25, AvgSessionDuration: 120},
		},
	}

	d, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.TotalVisitors != 30 || d.UniqueVisitors != 20 || d.TotalPageViews != 80 {
		t.Errorf("unexpected sums: %+v", d)
	}
	if math.Abs(d.BounceRate-0.375) > 1e-9 {
		t.Errorf("expected bounce_rate=0.375, got %v", d.BounceRate)
	}
	if math.Abs(d.AvgSessionDuration-90) > 1e-9 {
		t.Errorf("expected avg_session_duration=90, got %v", d.AvgSessionDuration)
	}
}

func TestGetDashboard_NoDaysGivesZeroRates(t *testing.T) {
	d, err := newUseCase(&fakeDashboardReader{}).Execute(context.Background(), usecase.GetDashboardInput{Period: "month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.BounceRate != 0 || d.AvgSessionDuration != 0 {
		t.Errorf("expected zero rates without rows, got %v / %v", d.BounceRate, d.AvgSessionDuration)
	}
	if d.TopPages == nil || d.DeviceStats == nil {
		t.Errorf("expected empty, non-nil breakdowns")
	}
}

// ------------------------------------------------------------
// BREAKDOWNS
// ------------------------------------------------------------

func TestGetDashboard_TopPages(t *testing.T) {
	reader := &fakeDashboardReader{
		Pages: []domain.KeyCount{
			{Key: "/about", Count: 1},
			{Key: "/", Count: 2},
		},
	}

	d, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{Period: "today"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.KeyCount{{Key: "/", Count: 2}, {Key: "/about", Count: 1}}
	if len(d.TopPages) != len(want) {
		t.Fatalf("expected %d pages, got %d", len(want), len(d.TopPages))
	}
	for i := range want {
		if d.TopPages[i] != want[i] {
			t.Errorf("page %d: expected %+v, got %+v", i, want[i], d.TopPages[i])
		}
	}
}

func TestGetDashboard_BreakdownDefaultsAndLimits(t *testing.T) {
	reader := &fakeDashboardReader{
		Sessions: map[ports.SessionFacet][]domain.KeyCount{
			ports.FacetDevice: {
				{Key: "desktop", Count: 4},
				{Key: "", Count: 1},
				{Key: "mobile", Count: 4},
				{Key: "tablet", Count: 1},
			},
			ports.FacetCountry: {
				{Key: "", Count: 3},
				{Key: "Jordan", Count: 5},
				{Key: "France", Count: 2},
				{Key: "Chile", Count: 2},
				{Key: "Peru", Count: 1},
				{Key: "Japan", Count: 1},
				{Key: "Kenya", Count: 1},
			},
			ports.FacetBrowser: {
				{Key: "Unknown", Count: 1},
				{Key: "", Count: 2},
				{Key: "Chrome", Count: 9},
			},
		},
	}

	d, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// all devices kept, ties by key ascending
	wantDevices := []string{"desktop", "mobile", "tablet", "unknown"}
	if len(d.DeviceStats) != len(wantDevices) {
		t.Fatalf("expected %d devices, got %+v", len(wantDevices), d.DeviceStats)
	}
	for i, k := range wantDevices {
		if d.DeviceStats[i].Key != k {
			t.Errorf("device %d: expected %s, got %s", i, k, d.DeviceStats[i].Key)
		}
	}

	wantCountries := []string{"Jordan", "Unknown", "Chile", "France", "Japan"}
	if len(d.CountryStats) != 5 {
		t.Fatalf("expected top 5 countries, got %d", len(d.CountryStats))
	}
	for i, k := range wantCountries {
		if d.CountryStats[i].Key != k {
			t.Errorf("country %d: expected %s, got %s", i, k, d.CountryStats[i].Key)
		}
	}

	// NULL and literal Unknown merge into one bucket
	if len(d.BrowserStats) != 2 || d.BrowserStats[1] != (domain.KeyCount{Key: "Unknown", Count: 3}) {
		t.Errorf("unexpected browser stats: %+v", d.BrowserStats)
	}
}

func TestGetDashboard_ReaderError(t *testing.T) {
	reader := &fakeDashboardReader{Err: errors.New("db failure")}

	d, err := newUseCase(reader).Execute(context.Background(), usecase.GetDashboardInput{Period: "today"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if d != nil {
		t.Fatalf("expected nil dashboard on error")
	}
}
