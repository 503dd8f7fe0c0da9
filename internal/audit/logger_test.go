package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	logins     []LoginRecord
	activities []Entry
	err        error
}

func (s *recordingSink) InsertLogin(ctx context.Context, rec LoginRecord) error {
	if s.err != nil {
		return s.err
	}
	s.logins = append(s.logins, rec)
	return nil
}

func (s *recordingSink) InsertActivity(ctx context.Context, entry Entry) error {
	if s.err != nil {
		return s.err
	}
	s.activities = append(s.activities, entry)
	return nil
}

func TestLoggerWritesThrough(t *testing.T) {
	sink := &recordingSink{}
	logger := NewLogger(sink, nil, nil)

	userID := int64(7)
	logger.LogLogin(context.Background(), &userID, "10.0.0.1", "go-test", true, "")
	logger.LogActivity(context.Background(), Entry{
		ActorID:  &userID,
		Action:   "update",
		Resource: "users",
	})

	assert.Len(t, sink.logins, 1)
	assert.Len(t, sink.activities, 1)
	assert.Equal(t, "10.0.0.1", sink.logins[0].IP)
}

func TestLoggerSwallowsSinkFailures(t *testing.T) {
	sink := &recordingSink{err: errors.New("connection refused")}
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_audit_failures_total"})
	logger := NewLogger(sink, nil, failures)

	// Neither call has an error return; the failure surfaces only in the
	// counter.
	logger.LogLogin(context.Background(), nil, "10.0.0.1", "go-test", false, "wrong password")
	logger.LogActivity(context.Background(), Entry{Action: "delete", Resource: "users"})

	assert.Equal(t, float64(2), testutil.ToFloat64(failures))
}

func TestLoggerNilSafety(t *testing.T) {
	var logger *Logger
	logger.LogLogin(context.Background(), nil, "10.0.0.1", "go-test", true, "")
	logger.LogActivity(context.Background(), Entry{Action: "update", Resource: "users"})

	empty := NewLogger(nil, nil, nil)
	empty.LogLogin(context.Background(), nil, "10.0.0.1", "go-test", true, "")
}
