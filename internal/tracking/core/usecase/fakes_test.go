package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
)

// memStore is an in-memory stand-in for visitor_sessions + page_visits.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.VisitorSession // keyed by client session id
	visits   []*domain.PageVisit
	calls    []string

	FindErr      error
	InsertErr    error
	VisitErr     error
	InsertLoses  bool // simulate another tab winning the insert race
	RefreshErr   error
	refreshCount int

	block chan struct{} // when set, lookups wait until it is closed
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*domain.VisitorSession{}}
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memStore) FindBySessionID(ctx context.Context, sessionID string) (*domain.VisitorSession, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("find")
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) InsertSession(ctx context.Context, s *domain.VisitorSession) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("insert_session")
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	if m.InsertLoses {
		m.sessions[s.SessionID] = &domain.VisitorSession{
			ID:          "uuid-other-tab",
			SessionID:   s.SessionID,
			TotalVisits: 1,
			IsActive:    true,
		}
		return false, nil
	}
	if _, ok := m.sessions[s.SessionID]; ok {
		return false, nil
	}
	cp := *s
	cp.ID = fmt.Sprintf("uuid-%d", len(m.sessions)+1)
	m.sessions[s.SessionID] = &cp
	return true, nil
}

func (m *memStore) byID(id string) *domain.VisitorSession {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *memStore) RecordReturnVisit(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("return_visit")
	s := m.byID(id)
	if s == nil {
		return fmt.Errorf("no session %s", id)
	}
	s.TotalVisits++
	s.TotalPageViews++
	s.IsActive = true
	s.LastVisit = at
	return nil
}

func (m *memStore) IncrementPageViews(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("increment_page_views")
	s := m.byID(id)
	if s == nil {
		return 0, fmt.Errorf("no session %s", id)
	}
	s.TotalPageViews++
	return s.TotalPageViews, nil
}

func (m *memStore) TouchLastVisit(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("touch_last_visit")
	if s := m.byID(id); s != nil {
		s.LastVisit = at
	}
	return nil
}

func (m *memStore) CloseSession(ctx context.Context, id string, durationSeconds int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("close_session")
	if s := m.byID(id); s != nil {
		s.SessionDuration = durationSeconds
		s.IsActive = false
	}
	return nil
}

func (m *memStore) InsertPageVisit(ctx context.Context, v *domain.PageVisit) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("insert_page_visit")
	if m.VisitErr != nil {
		return "", m.VisitErr
	}
	cp := *v
	cp.ID = fmt.Sprintf("visit-%d", len(m.visits)+1)
	m.visits = append(m.visits, &cp)
	return cp.ID, nil
}

func (m *memStore) UpdateLatestTimeOnPage(ctx context.Context, sessionUUID string, seconds int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("time_on_page")
	for i := len(m.visits) - 1; i >= 0; i-- {
		if m.visits[i].SessionID == sessionUUID {
			s := seconds
			m.visits[i].TimeOnPage = &s
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) RefreshDailyAnalytics(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCount++
	return m.RefreshErr
}

func (m *memStore) session(sessionID string) *domain.VisitorSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID]
}

func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c != "find" {
			n++
		}
	}
	return n
}

// memIdentity is the browser's local storage.
type memIdentity struct {
	mu     sync.Mutex
	value  string
	GetErr error
	SetErr error
}

func (m *memIdentity) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.GetErr
}

func (m *memIdentity) Set(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.value = sessionID
	return nil
}

type fakeGeo struct {
	loc *domain.Location
	err error
	ips []string
}

func (f *fakeGeo) Locate(ctx context.Context, ip string) (*domain.Location, error) {
	f.ips = append(f.ips, ip)
	return f.loc, f.err
}

type fakeSink struct {
	mu     sync.Mutex
	visits []*domain.PageVisit
	err    error
}

func (f *fakeSink) PublishPageVisit(ctx context.Context, s *domain.VisitorSession, v *domain.PageVisit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
	return f.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	sessions map[string]int
	visits   int
	failures map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{sessions: map[string]int{}, failures: map[string]int{}}
}

func (f *fakeMetrics) SessionTracked(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[outcome]++
}

func (f *fakeMetrics) PageVisitTracked() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits++
}

func (f *fakeMetrics) TrackingFailed(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op]++
}

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
