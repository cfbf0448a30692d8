// Package primecache provides an in-memory cache of the primes below a fixed
// bound, answering repeated range queries without recomputation.
//
// The cache is built once with the Sieve of Eratosthenes. The transient
// bit-packed sieve buffer lives off-heap and is released as soon as the
// primes have been compacted into an ascending []int; only that list is
// retained. Range queries binary-search the list and return zero-copy views.
//
// # Quick Start
//
//	c, err := primecache.New(primecache.WithBound(1 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	primes, _ := c.UpTo(100)     // [2 3 5 ... 97]
//	primes, _ = c.Range(10, 20)  // [11 13 17 19]
//	ok, _ := c.Contains(104729)  // true
//
// # Lifecycle
//
// A Cache moves through Uninitialized -> Building -> Ready (or Failed).
// New builds eagerly. NewLazy returns an Uninitialized cache that is built by
// Build or, in the background, by Start:
//
//	c, _ := primecache.NewLazy(primecache.WithBound(1 << 26))
//	c.Start()
//
//	ctx, cancel := context.WithTimeout(ctx, time.Second)
//	defer cancel()
//	if err := c.Wait(ctx); err != nil {
//	    // errors.Is(err, primecache.ErrNotInitialized)
//	}
//
// Queries never observe a partially built cache; before Ready they fail with
// ErrNotInitialized.
//
// # Configuration
//
//   - WithBound: exclusive upper limit (default DefaultBound, 2^24)
//   - WithMinStart: MinStartZero (default) or MinStartTwo
//   - WithWorkers: parallel marking; <= 0 uses one worker per physical core
//   - WithMemoryLimit: reject builds that would reserve more bytes
//   - WithLogger, WithLogLevel, WithMetricsCollector: observability
//
// # Errors
//
// ErrInvalidConfiguration (with *ConfigError details) comes from
// construction, ErrInvalidRange (with *RangeError details) from queries, and
// ErrNotInitialized from queries against a cache that is not Ready. Use
// errors.Is and errors.As.
package primecache
