package clickhouse

import (
	"context"
	"fmt"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

// Execer is the part of clickhouse.Conn the sink needs.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

// Open dials ClickHouse over the native protocol and pings it.
func Open(ctx context.Context, opts Options) (ch.Conn, error) {
	conn, err := ch.Open(&ch.Options{
		Addr: []string{opts.Addr},
		Auth: ch.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		ClientInfo: ch.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "visitor-analytics-service", Version: "1.0.0"}},
		},
		Compression: &ch.Compression{Method: ch.CompressionLZ4},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

const createPageVisitEventsSQL = `
CREATE TABLE IF NOT EXISTS page_visit_events (
    visit_id     String,
    session_uuid String,
    session_id   String,
    page_path    String,
    page_title   String,
    device_type  LowCardinality(String),
    browser      LowCardinality(String),
    os           LowCardinality(String),
    country      LowCardinality(String),
    referrer     String,
    visit_time   DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (visit_time, session_uuid)`

const insertPageVisitEventSQL = `
INSERT INTO page_visit_events (
    visit_id, session_uuid, session_id, page_path, page_title,
    device_type, browser, os, country, referrer, visit_time
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// PageVisitSink mirrors every recorded page visit into a ClickHouse table.
type PageVisitSink struct {
	conn Execer
}

var _ ports.PageVisitSinkPort = (*PageVisitSink)(nil)

func NewPageVisitSink(conn Execer) *PageVisitSink {
	return &PageVisitSink{conn: conn}
}

func (s *PageVisitSink) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, createPageVisitEventsSQL); err != nil {
		return fmt.Errorf("create page_visit_events: %w", err)
	}
	return nil
}

func (s *PageVisitSink) PublishPageVisit(ctx context.Context, session *domain.VisitorSession, v *domain.PageVisit) error {
	country := session.Country
	if country == "" {
		country = domain.Unknown
	}

	err := s.conn.Exec(ctx, insertPageVisitEventSQL,
		v.ID,
		session.ID,
		session.SessionID,
		v.PagePath,
		v.PageTitle,
		session.DeviceType,
		session.Browser,
		session.OS,
		country,
		session.Referrer,
		v.VisitTime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert page visit event: %w", err)
	}
	return nil
}
