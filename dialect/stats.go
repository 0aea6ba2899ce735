package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSlowThreshold is the duration above which a query counts as slow.
const DefaultSlowThreshold = 100 * time.Millisecond

// Queryer is the subset of sqlx.DB and sqlx.Tx used by the describers.
type Queryer interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalDuration is the total time spent executing queries.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of queries exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of query errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average query duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	if s.TotalQueries == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalQueries)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow query is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsQueryer wraps a Queryer with query statistics collection.
type StatsQueryer struct {
	Queryer
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsQueryer.
type StatsOption func(*StatsQueryer)

// WithStats records into s instead of a private QueryStats, so several
// short-lived queryers (one per transaction) can share counters.
func WithStats(s *QueryStats) StatsOption {
	return func(q *StatsQueryer) {
		if s != nil {
			q.stats = s
		}
	}
}

// WithSlowThreshold sets the threshold for slow query detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(q *StatsQueryer) {
		q.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow queries.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(q *StatsQueryer) {
		q.slowHook = hook
	}
}

// WithSlowQueryLog logs slow queries to logger, or to the default logger
// when logger is nil.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		l.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsQueryer wraps q with statistics collection.
func NewStatsQueryer(q Queryer, opts ...StatsOption) *StatsQueryer {
	s := &StatsQueryer{
		Queryer:       q,
		stats:         &QueryStats{},
		slowThreshold: DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (q *StatsQueryer) QueryStats() *QueryStats {
	return q.stats
}

// SlowThreshold returns the current slow query threshold.
func (q *StatsQueryer) SlowThreshold() time.Duration {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (q *StatsQueryer) SetSlowThreshold(threshold time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.slowThreshold = threshold
}

// SelectContext runs a multi-row query and records statistics.
func (q *StatsQueryer) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := q.Queryer.SelectContext(ctx, dest, query, args...)
	q.record(ctx, query, args, start, err)
	return err
}

// GetContext runs a single-row query and records statistics.
func (q *StatsQueryer) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := q.Queryer.GetContext(ctx, dest, query, args...)
	q.record(ctx, query, args, start, err)
	return err
}

func (q *StatsQueryer) record(ctx context.Context, query string, args []any, start time.Time, err error) {
	duration := time.Since(start)
	q.stats.TotalQueries.Add(1)
	q.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		q.stats.Errors.Add(1)
	}

	q.mu.RLock()
	threshold := q.slowThreshold
	hook := q.slowHook
	q.mu.RUnlock()

	if duration > threshold {
		q.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, args, duration)
		}
	}
}

var _ Queryer = (*StatsQueryer)(nil)
