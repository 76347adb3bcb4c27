package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of fetching statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of no-fetch statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of statement statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsConn wraps a Conn with statement statistics collection.
type StatsConn struct {
	*Conn
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsConn.
type StatsOption func(*StatsConn)

// WithSlowThreshold sets the threshold for slow statement detection.
// Statements taking longer than this duration are counted as slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsConn) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsConn) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the default logger. This is a
// convenience wrapper around WithSlowQueryHook.
func WithSlowQueryLog() StatsOption {
	return WithSlowQueryHook(func(_ context.Context, query string, args []any, duration time.Duration) {
		slog.Warn("slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsConn wraps a Conn with statistics collection.
//
// Example:
//
//	conn := sql.NewStatsConn(sql.Open(sql.Params{}),
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//
//	// Later, check statistics:
//	fmt.Println(conn.QueryStats().Stats())
func NewStatsConn(conn *Conn, opts ...StatsOption) *StatsConn {
	s := &StatsConn{
		Conn:          conn,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (c *StatsConn) QueryStats() *QueryStats {
	return c.stats
}

// SlowThreshold returns the current slow statement threshold.
func (c *StatsConn) SlowThreshold() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (c *StatsConn) SetSlowThreshold(threshold time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slowThreshold = threshold
}

// ExecuteQuery runs the statement and records statistics.
func (c *StatsConn) ExecuteQuery(ctx context.Context, query string, args []any, opts ...ExecOption) (*Result, error) {
	o := &execOptions{}
	for _, opt := range opts {
		opt(o)
	}
	start := time.Now()
	res, err := c.Conn.ExecuteQuery(ctx, query, args, opts...)
	c.record(ctx, query, args, start, err, !o.noFetch)
	return res, err
}

func (c *StatsConn) record(ctx context.Context, query string, args []any, start time.Time, err error, fetched bool) {
	duration := time.Since(start)
	if fetched {
		c.stats.TotalQueries.Add(1)
	} else {
		c.stats.TotalExecs.Add(1)
	}
	c.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		c.stats.Errors.Add(1)
	}

	c.mu.RLock()
	threshold := c.slowThreshold
	hook := c.slowHook
	c.mu.RUnlock()

	if duration > threshold {
		c.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, args, duration)
		}
	}
}
