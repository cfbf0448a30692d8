package primecache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/primecache/internal/resource"
	"github.com/hupe1980/primecache/internal/sieve"
)

// Cache holds every prime below its bound in ascending order.
//
// The sieve runs once. After that the cache is immutable and all query
// methods are safe for concurrent use without locking.
type Cache struct {
	opts   options
	logger *Logger
	memory *resource.Controller

	once  sync.Once
	state atomic.Int32
	done  chan struct{}

	// Written once by build, before state moves to Ready or Failed.
	primes []int
	stats  BuildStats
	err    error
}

// New builds a cache eagerly and returns it in the Ready state.
//
// Example:
//
//	c, err := primecache.New(primecache.WithBound(1 << 20))
//	if err != nil { ... }
//	primes, _ := c.Range(10, 20) // [11 13 17 19]
func New(optFns ...Option) (*Cache, error) {
	c, err := NewLazy(optFns...)
	if err != nil {
		return nil, err
	}
	if err := c.Build(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewLazy validates the options and returns an Uninitialized cache.
// Queries fail with ErrNotInitialized until Build (or Start) completes.
func NewLazy(optFns ...Option) (*Cache, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Cache{
		opts:   o,
		logger: o.logger.WithBound(o.bound),
		memory: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
		}),
		done: make(chan struct{}),
	}, nil
}

// Build runs the sieve if it has not run yet and returns the build error.
// Concurrent and repeated calls block until the single build finishes and
// all observe the same outcome.
func (c *Cache) Build() error {
	c.once.Do(c.build)
	return c.err
}

// Start runs Build on a new goroutine. Use Wait to block on the result.
func (c *Cache) Start() {
	go func() { _ = c.Build() }()
}

// Wait blocks until the cache is Ready or Failed, or ctx is done.
//
// It returns nil once Ready. A failed build, or ctx expiring first, is
// reported as ErrNotInitialized wrapping the cause. Expiry does not stop the
// build.
func (c *Cache) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		if c.err != nil {
			return fmt.Errorf("%w: %w", ErrNotInitialized, c.err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotInitialized, ctx.Err())
	}
}

// Done returns a channel that is closed when the build reaches a terminal
// state.
func (c *Cache) Done() <-chan struct{} {
	return c.done
}

func (c *Cache) build() {
	ctx := context.Background()
	c.state.Store(int32(StateBuilding))

	start := time.Now()
	res, err := sieve.Build(sieve.Config{
		Bound:   c.opts.bound,
		Workers: c.opts.workers,
		Memory:  c.memory,
	})
	stats := BuildStats{
		Bound:      c.opts.bound,
		Primes:     len(res.Primes),
		Workers:    res.Workers,
		MarksBytes: res.MarksBytes,
		Duration:   time.Since(start),
	}

	if err != nil {
		c.err = translateError(c.opts.bound, err)
		c.stats = stats
		c.state.Store(int32(StateFailed))
		close(c.done)
		c.opts.metricsCollector.RecordBuild(stats, c.err)
		c.logger.LogBuild(ctx, stats, c.err)
		return
	}

	c.primes = res.Primes
	c.stats = stats
	c.state.Store(int32(StateReady))
	close(c.done)
	c.opts.metricsCollector.RecordBuild(stats, nil)
	c.logger.LogBuild(ctx, stats, nil)
}

// State returns the current lifecycle stage.
func (c *Cache) State() State {
	return State(c.state.Load())
}

// ready gates every read of primes behind the Ready transition.
func (c *Cache) ready() error {
	switch State(c.state.Load()) {
	case StateReady:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: build failed: %w", ErrNotInitialized, c.err)
	default:
		return ErrNotInitialized
	}
}

// Bound returns the exclusive upper limit of the cached universe.
func (c *Cache) Bound() int { return c.opts.bound }

// MinStart returns the minimum start accepted by range queries.
func (c *Cache) MinStart() MinStart { return c.opts.minStart }

// Len returns the number of cached primes, or 0 before the cache is Ready.
func (c *Cache) Len() int {
	if c.ready() != nil {
		return 0
	}
	return len(c.primes)
}

// Stats returns the statistics of the finished build.
func (c *Cache) Stats() (BuildStats, error) {
	select {
	case <-c.done:
		return c.stats, c.err
	default:
		return BuildStats{}, ErrNotInitialized
	}
}

// MemoryUsage returns the bytes currently reserved by the cache: the prime
// list once Ready, plus the marks buffer while building.
func (c *Cache) MemoryUsage() int64 {
	return c.memory.MemoryUsage()
}

// MemoryLimit returns the configured reservation limit in bytes, 0 if
// unlimited.
func (c *Cache) MemoryLimit() int64 {
	return c.memory.MemoryLimit()
}

// PeakMemoryUsage returns the most bytes the build reserved at once.
func (c *Cache) PeakMemoryUsage() int64 {
	return c.memory.PeakMemoryUsage()
}
