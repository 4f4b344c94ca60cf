package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

type fakeRowScanner struct {
	rows [][]any
	i    int
	err  error
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if f.i >= len(f.rows) {
		return errors.New("no more rows")
	}
	row := f.rows[f.i]
	if len(dest) != len(row) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			v, ok := row[i].(string)
			if !ok {
				return errors.New("type assertion to string failed")
			}
			*d = v
		case *int64:
			v, ok := row[i].(int64)
			if !ok {
				return errors.New("type assertion to int64 failed")
			}
			*d = v
		case *bool:
			v, ok := row[i].(bool)
			if !ok {
				return errors.New("type assertion to bool failed")
			}
			*d = v
		case *time.Time:
			v, ok := row[i].(time.Time)
			if !ok {
				return errors.New("type assertion to time.Time failed")
			}
			*d = v
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error   { return f.err }
func (f *fakeRowScanner) Close() error { return nil }

// fakeDB implements DB for tests.
type fakeDB struct {
	ExecFn  func(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryFn func(ctx context.Context, query string, args ...any) (RowScanner, error)

	lastQuery string
	lastArgs  []any
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRowScanner{}, nil
}

func sessionRow(id, sessionID string) []any {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []any{
		id, sessionID,
		"ua", "desktop", "Chrome", "Windows", "direct", "/", "en",
		"Jordan", "Amman", "203.0.113.9",
		int64(2), int64(5), true, ts, ts, int64(0),
	}
}

// ------------------------------------------------------------
// FIND
// ------------------------------------------------------------

func TestSessionRepository_FindBySessionID_Found(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "FROM visitor_sessions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "session_1_abc" {
				t.Fatalf("expected session id arg, got %v", args[0])
			}
			return &fakeRowScanner{rows: [][]any{sessionRow("uuid-1", "session_1_abc")}}, nil
		},
	}

	s, err := NewSessionRepository(db).FindBySessionID(context.Background(), "session_1_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.ID != "uuid-1" {
		t.Fatalf("expected session uuid-1, got %+v", s)
	}
	if s.TotalVisits != 2 || s.TotalPageViews != 5 || !s.IsActive {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.Country != "Jordan" {
		t.Fatalf("expected country Jordan, got %s", s.Country)
	}
}

func TestSessionRepository_FindBySessionID_NotFound(t *testing.T) {
	db := &fakeDB{}

	s, err := NewSessionRepository(db).FindBySessionID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil session, got %+v", s)
	}
}

func TestSessionRepository_FindBySessionID_Error(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			return nil, errors.New("db failure")
		},
	}

	s, err := NewSessionRepository(db).FindBySessionID(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if s != nil {
		t.Fatalf("expected nil session on error")
	}
}

// ------------------------------------------------------------
// INSERT
// ------------------------------------------------------------

func TestSessionRepository_InsertSession_Created(t *testing.T) {
	db := &fakeDB{}
	now := time.Now().UTC()

	created, err := NewSessionRepository(db).InsertSession(context.Background(), &domain.VisitorSession{
		SessionID:   "session_1_abc",
		DeviceType:  "desktop",
		Browser:     "Chrome",
		OS:          "Windows",
		Referrer:    "direct",
		Language:    "en",
		TotalVisits: 1,
		IsActive:    true,
		FirstVisit:  now,
		LastVisit:   now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if !strings.Contains(db.lastQuery, "ON CONFLICT (session_id) DO NOTHING") {
		t.Fatalf("expected conflict clause, got %s", db.lastQuery)
	}
	if len(db.lastArgs) != 16 {
		t.Fatalf("expected 16 args, got %d", len(db.lastArgs))
	}
	// empty optional fields go in as NULL
	if db.lastArgs[8] != nil {
		t.Fatalf("expected NULL country, got %v", db.lastArgs[8])
	}
}

func TestSessionRepository_InsertSession_Conflict(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return &fakeResult{rowsAffected: 0}, nil
		},
	}

	created, err := NewSessionRepository(db).InsertSession(context.Background(), &domain.VisitorSession{SessionID: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on conflict")
	}
}

// ------------------------------------------------------------
// COUNTERS
// ------------------------------------------------------------

func TestSessionRepository_RecordReturnVisit(t *testing.T) {
	db := &fakeDB{}
	at := time.Now().UTC()

	if err := NewSessionRepository(db).RecordReturnVisit(context.Background(), "uuid-1", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "total_visits = COALESCE(total_visits, 0) + 1") {
		t.Fatalf("expected in-SQL increment, got %s", db.lastQuery)
	}
	if db.lastArgs[0] != "uuid-1" || db.lastArgs[1] != at {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

func TestSessionRepository_IncrementPageViews(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "increment_page_views($1)") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeRowScanner{rows: [][]any{{int64(6)}}}, nil
		},
	}

	total, err := NewSessionRepository(db).IncrementPageViews(context.Background(), "uuid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected 6, got %d", total)
	}
}

func TestSessionRepository_CloseSession_Error(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db failure")
		},
	}

	err := NewSessionRepository(db).CloseSession(context.Background(), "uuid-1", 42)
	if err == nil || !strings.Contains(err.Error(), "close session") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

// ------------------------------------------------------------
// PAGE VISITS
// ------------------------------------------------------------

func TestPageVisitRepository_InsertPageVisit(t *testing.T) {
	db := &fakeDB{
		QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
			if !strings.Contains(query, "INSERT INTO page_visits") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "uuid-1" || args[1] != "/about" {
				t.Fatalf("unexpected args: %v", args)
			}
			return &fakeRowScanner{rows: [][]any{{"visit-uuid"}}}, nil
		},
	}

	id, err := NewPageVisitRepository(db).InsertPageVisit(context.Background(), &domain.PageVisit{
		SessionID: "uuid-1",
		PagePath:  "/about",
		PageTitle: "About",
		VisitTime: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "visit-uuid" {
		t.Fatalf("expected visit-uuid, got %s", id)
	}
}

func TestPageVisitRepository_InsertPageVisit_NoID(t *testing.T) {
	db := &fakeDB{}

	if _, err := NewPageVisitRepository(db).InsertPageVisit(context.Background(), &domain.PageVisit{}); err == nil {
		t.Fatalf("expected error when no id is returned")
	}
}

func TestPageVisitRepository_UpdateLatestTimeOnPage(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ORDER BY created_at DESC") || !strings.Contains(query, "LIMIT 1") {
				t.Fatalf("expected latest-visit subquery, got %s", query)
			}
			return &fakeResult{rowsAffected: 0}, nil
		},
	}

	updated, err := NewPageVisitRepository(db).UpdateLatestTimeOnPage(context.Background(), "uuid-1", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatalf("expected updated=false when session has no visits")
	}
}

func TestPageVisitRepository_RefreshDailyAnalytics(t *testing.T) {
	db := &fakeDB{}

	if err := NewPageVisitRepository(db).RefreshDailyAnalytics(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "update_daily_analytics()") {
		t.Fatalf("unexpected query: %s", db.lastQuery)
	}
}
