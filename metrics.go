package primecache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives build and query observations.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors are called synchronously from the build and from every query,
// so implementations must be safe for concurrent use and cheap.
type MetricsCollector interface {
	// RecordBuild is called once, when the build reaches a terminal state.
	// err is nil if the cache became Ready.
	RecordBuild(stats BuildStats, err error)

	// RecordQuery is called after each range query (Range, UpTo, Count,
	// Bitmap). results is the number of primes returned.
	RecordQuery(results int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(BuildStats, error)         {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	BuildPrimes      atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryTotalNanos  atomic.Int64
	QueryResultTotal atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(stats BuildStats, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(stats.Duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildPrimes.Add(int64(stats.Primes))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryResultTotal.Add(int64(results))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildTotalNanos:  b.BuildTotalNanos.Load(),
		BuildPrimes:      b.BuildPrimes.Load(),
		QueryCount:       b.QueryCount.Load(),
		QueryErrors:      b.QueryErrors.Load(),
		QueryAvgNanos:    b.getAvgQueryNanos(),
		QueryResultTotal: b.QueryResultTotal.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	BuildTotalNanos  int64
	BuildPrimes      int64
	QueryCount       int64
	QueryErrors      int64
	QueryAvgNanos    int64
	QueryResultTotal int64
}

// BuildStats describes a finished build.
type BuildStats struct {
	// Bound is the exclusive upper limit that was sieved.
	Bound int
	// Primes is the number of primes cached.
	Primes int
	// Workers is the number of segments marked concurrently (1 = sequential).
	Workers int
	// MarksBytes is the size of the transient marks buffer.
	MarksBytes int64
	// Duration is the wall time of sieve plus compaction.
	Duration time.Duration
}

// Throughput returns values sieved per second. Durations under a
// millisecond count as one millisecond.
func (s BuildStats) Throughput() float64 {
	return float64(s.Bound) / max(s.Duration, time.Millisecond).Seconds()
}

// PrimeRate returns primes found per second, with the same floor as
// Throughput.
func (s BuildStats) PrimeRate() float64 {
	return float64(s.Primes) / max(s.Duration, time.Millisecond).Seconds()
}
