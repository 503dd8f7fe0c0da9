// Package jobs contains the asynq background task plumbing. The only task in
// the core is the audit retention purge; application modules register their
// own handlers through WorkerConfig.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/campus-erp/campus-erp/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRetention purges audit and login rows past the retention
	// horizon.
	TaskAuditRetention = "audit:retention"
)

// AuditRetentionPayload configures one purge run.
type AuditRetentionPayload struct {
	Horizon time.Duration `json:"horizon"`
}

// NewAuditRetentionTask constructs an Asynq task.
func NewAuditRetentionTask(payload AuditRetentionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// AuditRetentionHandler binds the retention service to the task type.
type AuditRetentionHandler struct {
	Retention *audit.Retention
	Logger    *slog.Logger
}

// Handle processes TaskAuditRetention tasks.
func (h AuditRetentionHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	purged, err := h.Retention.Purge(ctx)
	if err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.Info("audit retention purge", slog.Int64("rows", purged))
	}
	return nil
}
