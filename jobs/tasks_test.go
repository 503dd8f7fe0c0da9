package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/audit"
)

type countingExecer struct {
	calls int
}

func (e *countingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.calls++
	return pgconn.NewCommandTag("DELETE 3"), nil
}

func TestAuditRetentionHandler(t *testing.T) {
	db := &countingExecer{}
	handler := AuditRetentionHandler{Retention: audit.NewRetention(db, 90*24*time.Hour)}

	task, err := NewAuditRetentionTask(AuditRetentionPayload{Horizon: 90 * 24 * time.Hour})
	require.NoError(t, err)
	require.Equal(t, TaskAuditRetention, task.Type())

	require.NoError(t, handler.Handle(context.Background(), task))
	assert.Equal(t, 2, db.calls)
}

func TestAuditRetentionHandlerBadPayload(t *testing.T) {
	handler := AuditRetentionHandler{}

	err := handler.Handle(context.Background(), asynq.NewTask(TaskAuditRetention, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
