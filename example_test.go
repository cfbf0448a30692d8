package primecache_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/primecache"
)

// Example_upTo demonstrates building a cache and listing the primes up to a value.
func Example_upTo() {
	c, err := primecache.New(primecache.WithBound(1 << 16))
	if err != nil {
		log.Fatal(err)
	}

	primes, err := c.UpTo(30)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(primes)
	// Output: [2 3 5 7 11 13 17 19 23 29]
}

// Example_range demonstrates a range query and the error for a reversed range.
func Example_range() {
	c, err := primecache.New(primecache.WithBound(1000), primecache.WithMinStart(primecache.MinStartTwo))
	if err != nil {
		log.Fatal(err)
	}

	primes, _ := c.Range(10, 20)
	fmt.Println(primes)

	_, err = c.Range(5, 2)
	fmt.Println(errors.Is(err, primecache.ErrInvalidRange))
	// Output:
	// [11 13 17 19]
	// true
}

// Example_background demonstrates building the cache on a goroutine and
// waiting for it with a deadline.
func Example_background() {
	c, err := primecache.NewLazy(primecache.WithBound(1<<20), primecache.WithWorkers(0))
	if err != nil {
		log.Fatal(err)
	}
	c.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := c.Wait(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(c.State(), c.Len())
	// Output: ready 82025
}

// Example_metrics demonstrates collecting build and query metrics.
func Example_metrics() {
	metrics := &primecache.BasicMetricsCollector{}

	c, err := primecache.New(
		primecache.WithBound(10_000),
		primecache.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	_, _ = c.Range(100, 200)

	stats := metrics.GetStats()
	fmt.Println(stats.BuildPrimes, stats.QueryCount, stats.QueryResultTotal)
	// Output: 1229 1 21
}
