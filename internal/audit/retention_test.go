package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type stubExecer struct {
	calls []execCall
	tags  []pgconn.CommandTag
	err   error
}

func (s *stubExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, execCall{sql: sql, args: args})
	if s.err != nil {
		return pgconn.CommandTag{}, s.err
	}
	tag := s.tags[0]
	s.tags = s.tags[1:]
	return tag, nil
}

func TestRetentionPurge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db := &stubExecer{tags: []pgconn.CommandTag{
		pgconn.NewCommandTag("DELETE 40"),
		pgconn.NewCommandTag("DELETE 2"),
	}}
	retention := NewRetention(db, 90*24*time.Hour).WithClock(func() time.Time { return now })

	purged, err := retention.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), purged)

	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "audit_logs")
	assert.Contains(t, db.calls[1].sql, "login_logs")

	cutoff := now.Add(-90 * 24 * time.Hour)
	for _, call := range db.calls {
		require.Len(t, call.args, 1)
		assert.Equal(t, cutoff, call.args[0])
	}
}

func TestRetentionPurgeStoreError(t *testing.T) {
	db := &stubExecer{err: errors.New("relation missing")}
	retention := NewRetention(db, time.Hour)

	_, err := retention.Purge(context.Background())
	assert.Error(t, err)
}
