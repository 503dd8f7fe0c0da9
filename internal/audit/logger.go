package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// storeTimeout bounds each audit write so a slow store cannot hold up the
// request path it is observing.
const storeTimeout = 3 * time.Second

// Sink persists audit records.
type Sink interface {
	InsertLogin(ctx context.Context, rec LoginRecord) error
	InsertActivity(ctx context.Context, entry Entry) error
}

// PGSink implements Sink over the audit_logs and login_logs tables.
type PGSink struct {
	pool *pgxpool.Pool
}

// NewPGSink constructs a PostgreSQL sink.
func NewPGSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

// InsertLogin appends one login attempt row.
func (s *PGSink) InsertLogin(ctx context.Context, rec LoginRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO login_logs (user_id, ip_address, user_agent, is_successful, failure_reason, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`,
		rec.UserID, rec.IP, rec.UserAgent, rec.Success, rec.FailureReason, nullTime(rec.At))
	return err
}

// InsertActivity appends one activity row.
func (s *PGSink) InsertActivity(ctx context.Context, entry Entry) error {
	if entry.Action == "" || entry.Resource == "" {
		return errors.New("audit: entry requires action and resource")
	}
	before, err := json.Marshal(entry.Before)
	if err != nil {
		return err
	}
	after, err := json.Marshal(entry.After)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, resource, resource_id, before_values, after_values, ip_address, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))`,
		entry.ActorID, entry.Action, entry.Resource, entry.ResourceID, before, after, entry.IP, nullTime(entry.At))
	return err
}

var _ Sink = (*PGSink)(nil)

// Logger is the best-effort audit writer shared by the auth core. Failed
// writes are logged and counted but never propagated to the caller.
type Logger struct {
	sink     Sink
	logger   *slog.Logger
	failures prometheus.Counter
}

// NewLogger constructs a Logger. failures may be nil when no metrics
// registry is wired.
func NewLogger(sink Sink, logger *slog.Logger, failures prometheus.Counter) *Logger {
	return &Logger{sink: sink, logger: logger, failures: failures}
}

// LogLogin records an authentication attempt.
func (l *Logger) LogLogin(ctx context.Context, userID *int64, ip, userAgent string, success bool, failureReason string) {
	if l == nil || l.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	err := l.sink.InsertLogin(ctx, LoginRecord{
		UserID:        userID,
		IP:            ip,
		UserAgent:     userAgent,
		Success:       success,
		FailureReason: failureReason,
	})
	l.report("login", err)
}

// LogActivity records a data-mutating or security-relevant action.
func (l *Logger) LogActivity(ctx context.Context, entry Entry) {
	if l == nil || l.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	l.report("activity", l.sink.InsertActivity(ctx, entry))
}

func (l *Logger) report(kind string, err error) {
	if err == nil {
		return
	}
	if l.failures != nil {
		l.failures.Inc()
	}
	if l.logger != nil {
		l.logger.Warn("audit write failed", slog.String("kind", kind), slog.Any("error", err))
	}
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
