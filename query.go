package primecache

import (
	"context"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/primecache/internal/conv"
)

// Range returns the cached primes in [start, end], ascending.
//
// The result is a read-only view into the cache, not a copy. Its capacity is
// clipped, so appending to it reallocates instead of overwriting the cache.
// A range with no primes yields an empty, non-nil slice.
//
// start must be >= MinStart(), end must be < Bound() and start <= end;
// otherwise the error wraps ErrInvalidRange.
func (c *Cache) Range(start, end int) ([]int, error) {
	t := time.Now()
	view, err := c.view(start, end)
	c.observe(start, end, len(view), time.Since(t), err)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpTo returns the cached primes in [MinStart(), value].
//
// Under MinStartTwo a value below 2 is rejected with ErrInvalidRange.
func (c *Cache) UpTo(value int) ([]int, error) {
	return c.Range(int(c.opts.minStart), value)
}

// Count returns the number of cached primes in [start, end] under the same
// rules as Range.
func (c *Cache) Count(start, end int) (int, error) {
	t := time.Now()
	view, err := c.view(start, end)
	c.observe(start, end, len(view), time.Since(t), err)
	if err != nil {
		return 0, err
	}
	return len(view), nil
}

// Bitmap returns the cached primes in [start, end] as a roaring bitmap, for
// set algebra with other integer sets. The bitmap is a copy owned by the
// caller. Primes that do not fit in uint32 are rejected with
// ErrInvalidRange.
func (c *Cache) Bitmap(start, end int) (*roaring.Bitmap, error) {
	t := time.Now()
	view, err := c.view(start, end)
	var values []uint32
	if err == nil {
		values, err = conv.IntsToUint32s(view)
		if err != nil {
			err = &RangeError{Start: start, End: end, Bound: c.opts.bound, MinStart: int(c.opts.minStart), Reason: err.Error()}
		}
	}
	c.observe(start, end, len(values), time.Since(t), err)
	if err != nil {
		return nil, err
	}

	bm := roaring.New()
	bm.AddMany(values)
	return bm, nil
}

// Contains reports whether n is prime. n must lie in [0, Bound()).
func (c *Cache) Contains(n int) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	if n < 0 || n >= c.opts.bound {
		return false, &RangeError{Start: n, End: n, Bound: c.opts.bound, MinStart: int(c.opts.minStart), Reason: "value outside [0, bound)"}
	}
	i := sort.SearchInts(c.primes, n)
	return i < len(c.primes) && c.primes[i] == n, nil
}

// Primes returns a read-only view of the whole cache.
func (c *Cache) Primes() ([]int, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.primes[:len(c.primes):len(c.primes)], nil
}

func (c *Cache) view(start, end int) ([]int, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := c.checkRange(start, end); err != nil {
		return nil, err
	}
	lo, hi := searchBounds(c.primes, start, end)
	return c.primes[lo:hi:hi], nil
}

func (c *Cache) checkRange(start, end int) error {
	var reason string
	switch {
	case start > end:
		reason = "start is greater than end"
	case start < int(c.opts.minStart):
		reason = "start is below the minimum start"
	case end >= c.opts.bound:
		reason = "end is not below the bound"
	default:
		return nil
	}
	return &RangeError{
		Start:    start,
		End:      end,
		Bound:    c.opts.bound,
		MinStart: int(c.opts.minStart),
		Reason:   reason,
	}
}

func (c *Cache) observe(start, end, results int, d time.Duration, err error) {
	c.opts.metricsCollector.RecordQuery(results, d, err)
	c.logger.LogQuery(context.Background(), start, end, results, err)
}

// searchBounds returns the half-open index range [lo, hi) of the values of
// primes that lie in [start, end]. primes must be ascending and end must be
// below math.MaxInt.
func searchBounds(primes []int, start, end int) (lo, hi int) {
	lo = sort.SearchInts(primes, start)
	hi = lo + sort.SearchInts(primes[lo:], end+1)
	return lo, hi
}

// linearBounds is the scan searchBounds replaces. Kept as the reference the
// binary search is checked against.
func linearBounds(primes []int, start, end int) (lo, hi int) {
	for lo < len(primes) && primes[lo] < start {
		lo++
	}
	hi = lo
	for hi < len(primes) && primes[hi] <= end {
		hi++
	}
	return lo, hi
}
