package fiber

type PageStatResponse struct {
	Page  string `json:"page" example:"/"`
	Views int64  `json:"views" example:"42"`
}

type DeviceStatResponse struct {
	Device string `json:"device" example:"mobile"`
	Count  int64  `json:"count" example:"17"`
}

type CountryStatResponse struct {
	Country string `json:"country" example:"Jordan"`
	Count   int64  `json:"count" example:"9"`
}

type BrowserStatResponse struct {
	Browser string `json:"browser" example:"Chrome"`
	Count   int64  `json:"count" example:"21"`
}

type DashboardResponse struct {
	Period             string                `json:"period" example:"week"`
	Since              string                `json:"since" example:"2026-03-03T15:30:00Z"`
	TotalVisitors      int64                 `json:"total_visitors"`
	UniqueVisitors     int64                 `json:"unique_visitors"`
	TotalPageViews     int64                 `json:"total_page_views"`
	BounceRate         float64               `json:"bounce_rate"`
	AvgSessionDuration float64               `json:"avg_session_duration"`
	TopPages           []PageStatResponse    `json:"top_pages"`
	DeviceStats        []DeviceStatResponse  `json:"device_stats"`
	CountryStats       []CountryStatResponse `json:"country_stats"`
	BrowserStats       []BrowserStatResponse `json:"browser_stats"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_period"`
	Message string `json:"message" example:"invalid period, expected today, week or month"`
}
