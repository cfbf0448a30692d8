package sieve

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/primecache/internal/mmap"
	"github.com/hupe1980/primecache/internal/resource"
)

// ErrBoundTooSmall is returned for a bound that cannot hold a prime.
var ErrBoundTooSmall = errors.New("sieve: bound must be greater than 2")

// minSegmentWords keeps parallel segments at 64Ki bits or more.
const minSegmentWords = 1024

// Config configures one build.
type Config struct {
	// Bound is the exclusive upper limit. Must be > 2.
	Bound int

	// Workers is the number of goroutines marking composites.
	// Values <= 1 run the plain sequential sieve.
	Workers int

	// Memory, if set, must admit the marks buffer and the estimated prime
	// list before anything is allocated.
	Memory *resource.Controller
}

// Result is the outcome of a build.
type Result struct {
	// Primes lists every prime below the bound, ascending.
	Primes []int

	// Workers is the number of segments that were marked concurrently.
	Workers int

	// MarksBytes is the size of the transient buffer that was released.
	MarksBytes int64
}

// Build sieves [0, cfg.Bound) and returns the primes in ascending order.
func Build(cfg Config) (Result, error) {
	if cfg.Bound <= 2 {
		return Result{}, fmt.Errorf("%w: %d", ErrBoundTooSmall, cfg.Bound)
	}

	marksBytes := MarksBytes(cfg.Bound)
	capacity := EstimateCount(cfg.Bound)
	listBytes := int64(capacity) * 8

	if err := cfg.Memory.AcquireMemory(marksBytes + listBytes); err != nil {
		return Result{}, fmt.Errorf("sieve: reserve %d bytes for bound %d: %w", marksBytes+listBytes, cfg.Bound, err)
	}

	primes, workers, err := build(cfg.Bound, cfg.Workers, capacity)

	cfg.Memory.ReleaseMemory(marksBytes)
	if err != nil {
		cfg.Memory.ReleaseMemory(listBytes)
		return Result{}, err
	}

	return Result{Primes: shrink(primes, cfg.Memory), Workers: workers, MarksBytes: marksBytes}, nil
}

// shrink copies primes into an exact-size slice so the estimate's slack can
// be returned to mem. If mem cannot admit the copy, the list keeps its
// capacity and its full reservation.
func shrink(primes []int, mem *resource.Controller) []int {
	reserved := int64(cap(primes)) * 8
	exact := int64(len(primes)) * 8
	if exact == reserved {
		return primes
	}
	if err := mem.AcquireMemory(exact); err != nil {
		return primes
	}

	out := make([]int, len(primes))
	copy(out, primes)
	mem.ReleaseMemory(reserved)
	return out
}

func build(bound, workers, capacity int) (primes []int, used int, err error) {
	marks, err := NewMarks(bound)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if rerr := marks.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("sieve: release marks buffer: %w", rerr)
		}
	}()

	maxFactor := ISqrt(bound)

	segments := segmentCount(bound, workers)
	if segments <= 1 {
		markSequential(marks, maxFactor)
		used = 1
	} else {
		if err := markParallel(marks, maxFactor, segments); err != nil {
			return nil, 0, err
		}
		used = segments
	}

	if err := marks.mapping.Advise(mmap.AccessSequential); err != nil {
		return nil, 0, fmt.Errorf("sieve: advise marks buffer: %w", err)
	}

	primes, err = marks.Candidates(2, bound, make([]int, 0, capacity))
	if err != nil {
		return nil, 0, fmt.Errorf("sieve: compact: %w", err)
	}
	return primes, used, nil
}

// markSequential marks every multiple of each prime factor up to maxFactor.
// Multiples below f*f were already marked by a smaller factor.
func markSequential(marks *Marks, maxFactor int) {
	bound := marks.Bound()
	for f := 2; f <= maxFactor; f++ {
		if !marks.IsCandidate(f) {
			continue
		}
		for m := f * f; m < bound; m += f {
			marks.MarkComposite(m)
		}
	}
}

func markParallel(marks *Marks, maxFactor, segments int) error {
	// Base primes first, so every segment sieves with the same factors.
	baseBound := maxFactor + 1
	for f := 2; f*f < baseBound; f++ {
		if !marks.IsCandidate(f) {
			continue
		}
		for m := f * f; m < baseBound; m += f {
			marks.MarkComposite(m)
		}
	}
	base, err := marks.Candidates(2, baseBound, nil)
	if err != nil {
		return err
	}

	bound := marks.Bound()
	words := wordCount(bound)
	perSegment := (words + segments - 1) / segments

	g := new(errgroup.Group)
	g.SetLimit(segments)
	for lo := 0; lo < bound; lo += perSegment * wordBits {
		hi := min(lo+perSegment*wordBits, bound)
		g.Go(func() error {
			markSegment(marks, base, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// markSegment marks the multiples of base that fall in [lo, hi).
func markSegment(marks *Marks, base []int, lo, hi int) {
	for _, p := range base {
		first := p * p
		if first >= hi {
			break
		}
		if first < lo {
			first = (lo + p - 1) / p * p
		}
		for m := first; m < hi; m += p {
			marks.MarkComposite(m)
		}
	}
}

func segmentCount(bound, workers int) int {
	if workers <= 1 {
		return 1
	}
	maxSegments := wordCount(bound) / minSegmentWords
	return max(1, min(workers, maxSegments))
}

// ISqrt returns floor(sqrt(n)) for n >= 0.
func ISqrt(n int) int {
	if n < 2 {
		return n
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// EstimateCount returns an upper bound for the number of primes below bound,
// using Rosser and Schoenfeld's pi(x) < 1.25506 x / ln x.
func EstimateCount(bound int) int {
	if bound <= 2 {
		return 0
	}
	x := float64(bound)
	return int(1.25506*x/math.Log(x)) + 1
}
