// Package audit records authentication events and data-mutating actions.
// Records are append-only and written best-effort: an audit failure is
// observability loss, never a request failure.
package audit

import "time"

// LoginRecord captures one authentication attempt. UserID is nil for
// failures where no account could be identified.
type LoginRecord struct {
	UserID        *int64
	IP            string
	UserAgent     string
	Success       bool
	FailureReason string
	At            time.Time
}

// Entry captures one activity against a resource. Before and After are
// opaque snapshots stored verbatim; no schema is imposed on them.
type Entry struct {
	ActorID    *int64
	Action     string
	Resource   string
	ResourceID string
	Before     map[string]any
	After      map[string]any
	IP         string
	At         time.Time
}
