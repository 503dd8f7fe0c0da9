package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the slice of pgxpool.Pool the retention service needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Retention purges audit and login rows older than the configured horizon.
// Records inside the horizon are never touched; audit data is append-only
// until it ages out.
type Retention struct {
	db      Execer
	horizon time.Duration
	now     func() time.Time
}

// NewRetention constructs a Retention service.
func NewRetention(db Execer, horizon time.Duration) *Retention {
	return &Retention{db: db, horizon: horizon, now: time.Now}
}

// WithClock overrides the time source for tests.
func (r *Retention) WithClock(now func() time.Time) *Retention {
	r.now = now
	return r
}

// Purge deletes aged-out rows and returns how many were removed.
func (r *Retention) Purge(ctx context.Context) (int64, error) {
	cutoff := r.now().UTC().Add(-r.horizon)
	var purged int64
	for _, table := range []string{"audit_logs", "login_logs"} {
		tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE occurred_at < $1`, cutoff)
		if err != nil {
			return purged, err
		}
		purged += tag.RowsAffected()
	}
	return purged, nil
}
