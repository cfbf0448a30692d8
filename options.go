package primecache

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// DefaultBound is the sieve bound used when WithBound is not given (2^24).
const DefaultBound = 1 << 24

// MinStart is the smallest start a range query accepts.
type MinStart int

const (
	// MinStartZero accepts any non-negative start. Ranges below 2 simply
	// contain no primes.
	MinStartZero MinStart = 0

	// MinStartTwo rejects starts below 2, the smallest prime.
	MinStartTwo MinStart = 2
)

func (m MinStart) String() string {
	switch m {
	case MinStartZero:
		return "zero"
	case MinStartTwo:
		return "two"
	default:
		return fmt.Sprintf("MinStart(%d)", int(m))
	}
}

type options struct {
	bound            int
	minStart         MinStart
	workers          int
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Cache.
type Option func(*options)

// WithBound sets the exclusive upper limit of the cached universe.
// The bound must be greater than 2.
func WithBound(bound int) Option {
	return func(o *options) {
		o.bound = bound
	}
}

// WithMinStart sets the minimum start accepted by range queries.
//
// MinStartZero (the default) lets callers ask for [0, n]. MinStartTwo
// rejects any start below 2 with ErrInvalidRange. UpTo queries start at the
// configured minimum.
func WithMinStart(m MinStart) Option {
	return func(o *options) {
		o.minStart = m
	}
}

// WithWorkers configures how many goroutines mark composites during the
// build.
//
// 1 (the default) runs the plain sequential sieve. Values <= 0 use one worker
// per physical core. Small bounds are always sieved sequentially because each
// worker needs a segment of at least 64Ki values.
//
// The resulting cache is identical for every worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit caps the bytes a build may reserve: the transient marks
// buffer (one bit per value) plus the retained prime list. A build that would
// exceed the cap fails with ErrInvalidConfiguration. 0 disables the cap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for build and query
// observations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &primecache.BasicMetricsCollector{}
//	c, _ := primecache.New(primecache.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for the build and queries.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := primecache.NewJSONLogger(slog.LevelDebug)
//	c, _ := primecache.New(primecache.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		bound:            DefaultBound,
		minStart:         MinStartZero,
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = defaultWorkers()
	}
	return o
}

func (o *options) validate() error {
	if o.bound <= 2 {
		return &ConfigError{Bound: o.bound, Reason: "bound must be greater than 2"}
	}
	if o.minStart != MinStartZero && o.minStart != MinStartTwo {
		return &ConfigError{Bound: o.bound, Reason: fmt.Sprintf("unsupported minimum start %d", int(o.minStart))}
	}
	if o.memoryLimit < 0 {
		return &ConfigError{Bound: o.bound, Reason: fmt.Sprintf("negative memory limit %d", o.memoryLimit)}
	}
	return nil
}

func defaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
