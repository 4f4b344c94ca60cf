package domain

import "time"

// VisitorSession mirrors a row of visitor_sessions.
type VisitorSession struct {
	ID        string // server generated uuid
	SessionID string // client generated, unique

	UserAgent   string
	DeviceType  string
	Browser     string
	OS          string
	Referrer    string
	LandingPage string
	Language    string

	// optional geolocation
	Country   string
	City      string
	IPAddress string

	TotalVisits     int64
	TotalPageViews  int64
	IsActive        bool
	FirstVisit      time.Time
	LastVisit       time.Time
	SessionDuration int64 // seconds
}

type PageVisit struct {
	ID         string
	SessionID  string // visitor_sessions.id, not the client session id
	PagePath   string
	PageTitle  string
	VisitTime  time.Time
	TimeOnPage *int64 // seconds, filled on next navigation or unload
}

// Location is the best-effort enrichment returned by a geolocation lookup.
type Location struct {
	IP      string
	Country string
	City    string
}
