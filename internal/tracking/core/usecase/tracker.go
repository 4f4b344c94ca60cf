package usecase

import (
	"context"
	"errors"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidPageVisit = errors.New("page path is required")
	ErrViewNotFound     = errors.New("view not found")
)

const (
	OutcomeCreated   = "created"
	OutcomeReturning = "returning"

	defaultReferrer = "direct"
	defaultLanguage = "en"
)

type EnsureSessionInput struct {
	UserAgent   string
	Referrer    string
	LandingPage string
	Language    string
	ClientIP    string
}

// Tracker records visitor sessions and page visits. Every remote failure is
// logged and swallowed: tracking must never fail the page that triggered it.
type Tracker struct {
	sessions  ports.SessionRepositoryPort
	visits    ports.PageVisitRepositoryPort
	refresher ports.AnalyticsRefresherPort

	geo     ports.GeoLocatorPort
	sink    ports.PageVisitSinkPort
	metrics ports.TrackingMetricsPort
	log     logrus.FieldLogger
	now     func() time.Time
}

type TrackerOption func(*Tracker)

func WithGeoLocator(g ports.GeoLocatorPort) TrackerOption {
	return func(t *Tracker) { t.geo = g }
}

func WithPageVisitSink(s ports.PageVisitSinkPort) TrackerOption {
	return func(t *Tracker) { t.sink = s }
}

func WithMetrics(m ports.TrackingMetricsPort) TrackerOption {
	return func(t *Tracker) { t.metrics = m }
}

func WithLogger(l logrus.FieldLogger) TrackerOption {
	return func(t *Tracker) { t.log = l }
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(
	sessions ports.SessionRepositoryPort,
	visits ports.PageVisitRepositoryPort,
	refresher ports.AnalyticsRefresherPort,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		sessions:  sessions,
		visits:    visits,
		refresher: refresher,
		metrics:   noopMetrics{},
		log:       logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EnsureSession resolves the session id from the identity store (creating and
// persisting one when absent) and mirrors the session remotely: an existing
// row is bumped, a missing one is inserted. The resolved id is returned even
// when the remote write failed.
func (t *Tracker) EnsureSession(ctx context.Context, identity ports.IdentityStorePort, in EnsureSessionInput) string {
	now := t.now().UTC()

	sessionID, err := identity.Get(ctx)
	if err != nil {
		t.fail("identity_get", "", err)
		sessionID = ""
	}
	if sessionID == "" {
		sessionID = domain.NewSessionID(now)
		if err := identity.Set(ctx, sessionID); err != nil {
			t.fail("identity_set", sessionID, err)
		}
	}

	info := domain.Classify(in.UserAgent)

	s := &domain.VisitorSession{
		SessionID:   sessionID,
		UserAgent:   in.UserAgent,
		DeviceType:  info.DeviceType,
		Browser:     info.Browser,
		OS:          info.OS,
		Referrer:    orDefault(in.Referrer, defaultReferrer),
		LandingPage: in.LandingPage,
		Language:    orDefault(in.Language, defaultLanguage),
		IPAddress:   in.ClientIP,
		TotalVisits: 1,
		IsActive:    true,
		FirstVisit:  now,
		LastVisit:   now,
	}

	if loc := t.locate(ctx, in.ClientIP); loc != nil {
		s.Country = loc.Country
		s.City = loc.City
		if loc.IP != "" {
			s.IPAddress = loc.IP
		}
	}

	existing, err := t.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		t.fail("session_lookup", sessionID, err)
		return sessionID
	}

	if existing != nil {
		if err := t.sessions.RecordReturnVisit(ctx, existing.ID, now); err != nil {
			t.fail("session_return", sessionID, err)
			return sessionID
		}
		t.metrics.SessionTracked(OutcomeReturning)
		return sessionID
	}

	created, err := t.sessions.InsertSession(ctx, s)
	if err != nil {
		t.fail("session_insert", sessionID, err)
		return sessionID
	}
	if created {
		t.metrics.SessionTracked(OutcomeCreated)
		return sessionID
	}

	// Another tab inserted the same session_id between our lookup and insert.
	existing, err = t.sessions.FindBySessionID(ctx, sessionID)
	if err != nil || existing == nil {
		t.fail("session_lookup", sessionID, errOrMissing(err))
		return sessionID
	}
	if err := t.sessions.RecordReturnVisit(ctx, existing.ID, now); err != nil {
		t.fail("session_return", sessionID, err)
		return sessionID
	}
	t.metrics.SessionTracked(OutcomeReturning)
	return sessionID
}

// TrackPageVisit appends a page visit to the session. It is a no-op without a
// session id, and the visit is dropped when the session row does not exist
// yet. Reports whether a visit row was written.
func (t *Tracker) TrackPageVisit(ctx context.Context, sessionID, path, title string) bool {
	if sessionID == "" {
		return false
	}

	session, err := t.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		t.fail("page_visit_lookup", sessionID, err)
		return false
	}
	if session == nil {
		t.log.WithFields(logrus.Fields{"session_id": sessionID, "path": path}).
			Debug("session row not found, page visit dropped")
		return false
	}

	now := t.now().UTC()
	v := &domain.PageVisit{
		SessionID: session.ID,
		PagePath:  path,
		PageTitle: title,
		VisitTime: now,
	}

	id, err := t.visits.InsertPageVisit(ctx, v)
	if err != nil {
		t.fail("page_visit_insert", sessionID, err)
		return false
	}
	v.ID = id
	t.metrics.PageVisitTracked()

	if _, err := t.sessions.IncrementPageViews(ctx, session.ID); err != nil {
		t.fail("increment_page_views", sessionID, err)
	}
	if err := t.sessions.TouchLastVisit(ctx, session.ID, now); err != nil {
		t.fail("touch_last_visit", sessionID, err)
	}

	if t.sink != nil {
		if err := t.sink.PublishPageVisit(ctx, session, v); err != nil {
			t.fail("page_visit_sink", sessionID, err)
		}
	}

	return true
}

// CloseOutPage writes time_on_page for the latest visit of the session.
func (t *Tracker) CloseOutPage(ctx context.Context, sessionID string, timeOnPage time.Duration) {
	if sessionID == "" {
		return
	}

	session, err := t.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		t.fail("close_out_lookup", sessionID, err)
		return
	}
	if session == nil {
		return
	}

	if _, err := t.visits.UpdateLatestTimeOnPage(ctx, session.ID, seconds(timeOnPage)); err != nil {
		t.fail("time_on_page", sessionID, err)
	}
}

// Finalize is the unload path: it writes the session duration, clears the
// active flag and fills time_on_page of the latest visit.
func (t *Tracker) Finalize(ctx context.Context, sessionID string, sessionDuration, timeOnPage time.Duration) {
	if sessionID == "" {
		return
	}

	session, err := t.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		t.fail("finalize_lookup", sessionID, err)
		return
	}
	if session == nil {
		return
	}

	if err := t.sessions.CloseSession(ctx, session.ID, seconds(sessionDuration)); err != nil {
		t.fail("close_session", sessionID, err)
	}
	if _, err := t.visits.UpdateLatestTimeOnPage(ctx, session.ID, seconds(timeOnPage)); err != nil {
		t.fail("time_on_page", sessionID, err)
	}
}

// UpdateDailyAnalytics delegates to the remote rollup procedure.
func (t *Tracker) UpdateDailyAnalytics(ctx context.Context) error {
	if err := t.refresher.RefreshDailyAnalytics(ctx); err != nil {
		t.fail("update_daily_analytics", "", err)
		return err
	}
	return nil
}

func (t *Tracker) locate(ctx context.Context, ip string) *domain.Location {
	if t.geo == nil || ip == "" {
		return nil
	}
	loc, err := t.geo.Locate(ctx, ip)
	if err != nil {
		t.log.WithError(err).WithField("ip", ip).Debug("geolocation unavailable")
		return nil
	}
	return loc
}

func (t *Tracker) fail(op, sessionID string, err error) {
	t.metrics.TrackingFailed(op)
	t.log.WithError(err).WithFields(logrus.Fields{
		"op":         op,
		"session_id": sessionID,
	}).Warn("tracking operation failed")
}

func seconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var errSessionMissing = errors.New("session row missing after conflicting insert")

func errOrMissing(err error) error {
	if err != nil {
		return err
	}
	return errSessionMissing
}

type noopMetrics struct{}

func (noopMetrics) SessionTracked(string) {}
func (noopMetrics) PageVisitTracked()     {}
func (noopMetrics) TrackingFailed(string) {}
