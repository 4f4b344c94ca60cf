package domain

import "time"

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

const (
	UnknownDevice = "unknown"
	UnknownLabel  = "Unknown"
)

// DailySnapshot mirrors a row of site_analytics.
type DailySnapshot struct {
	Date               time.Time
	TotalVisitors      int64
	UniqueVisitors     int64
	TotalPageViews     int64
	BounceRate         float64
	AvgSessionDuration float64 // seconds
}

type KeyCount struct {
	Key   string
	Count int64
}

type Dashboard struct {
	Period Period
	Since  time.Time

	TotalVisitors      int64
	UniqueVisitors     int64
	TotalPageViews     int64
	BounceRate         float64
	AvgSessionDuration float64

	TopPages     []KeyCount
	DeviceStats  []KeyCount
	CountryStats []KeyCount
	BrowserStats []KeyCount
}
