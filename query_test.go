package primecache

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Range(t *testing.T) {
	c := newTestCache(t, WithBound(1000))

	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"TenToTwenty", 10, 20, []int{11, 13, 17, 19}},
		{"BelowTwo", 0, 1, []int{}},
		{"ZeroToTwo", 0, 2, []int{2}},
		{"PrimeEndpoints", 11, 19, []int{11, 13, 17, 19}},
		{"PrimeGap", 24, 28, []int{}},
		{"SinglePrime", 97, 97, []int{97}},
		{"SingleComposite", 98, 98, []int{}},
		{"LastBelowBound", 990, 999, []int{991, 997}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Range(tt.start, tt.end)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCache_UpTo(t *testing.T) {
	t.Run("MinStartZero", func(t *testing.T) {
		c := newTestCache(t, WithBound(1000))

		got, err := c.UpTo(100)
		require.NoError(t, err)
		assert.Equal(t, primesBelow100, got)

		got, err = c.UpTo(1)
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = c.UpTo(-1)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("MinStartTwo", func(t *testing.T) {
		c := newTestCache(t, WithBound(1000), WithMinStart(MinStartTwo))
		assert.Equal(t, MinStartTwo, c.MinStart())

		got, err := c.UpTo(100)
		require.NoError(t, err)
		assert.Equal(t, primesBelow100, got)

		got, err = c.UpTo(2)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, got)

		_, err = c.UpTo(1)
		assert.ErrorIs(t, err, ErrInvalidRange)

		_, err = c.Range(0, 10)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestCache_RangeSingleValue(t *testing.T) {
	const bound = 500
	c := newTestCache(t, WithBound(bound))

	isPrime := make(map[int]bool)
	for _, p := range trialDivision(bound) {
		isPrime[p] = true
	}

	for s := 0; s < bound; s++ {
		got, err := c.Range(s, s)
		require.NoError(t, err)
		if isPrime[s] {
			assert.Equal(t, []int{s}, got, "start %d", s)
		} else {
			assert.Empty(t, got, "start %d", s)
		}
	}
}

func TestCache_RangeFullCache(t *testing.T) {
	for _, bound := range []int{3, 100, 10_000} {
		c := newTestCache(t, WithBound(bound))

		got, err := c.Range(2, bound-1)
		require.NoError(t, err)

		all, err := c.Primes()
		require.NoError(t, err)
		assert.Equal(t, all, got)
	}
}

func TestCache_RangeInvalid(t *testing.T) {
	c := newTestCache(t, WithBound(100), WithMinStart(MinStartTwo))

	tests := []struct {
		name       string
		start, end int
	}{
		{"StartAfterEnd", 5, 2},
		{"EndAtBound", 2, 100},
		{"EndPastBound", 50, 101},
		{"StartBelowMinimum", 1, 10},
		{"NegativeStart", -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Range(tt.start, tt.end)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrInvalidRange)

			var re *RangeError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.start, re.Start)
			assert.Equal(t, tt.end, re.End)
			assert.Equal(t, 100, re.Bound)
			assert.Equal(t, 2, re.MinStart)

			_, err = c.Count(tt.start, tt.end)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}

	// Rejected queries leave the cache usable.
	got, err := c.Range(10, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 17, 19}, got)
}

func TestCache_RangeIsImmutableView(t *testing.T) {
	c := newTestCache(t, WithBound(100))

	before, err := c.Primes()
	require.NoError(t, err)
	snapshot := append([]int(nil), before...)

	view, err := c.Range(10, 20)
	require.NoError(t, err)
	assert.Equal(t, len(view), cap(view))

	// Appending must reallocate instead of clobbering 23.
	_ = append(view, -1)

	again, err := c.Range(10, 20)
	require.NoError(t, err)
	assert.Equal(t, view, again)

	after, err := c.Primes()
	require.NoError(t, err)
	assert.Equal(t, snapshot, after)
}

func TestCache_ConcurrentQueries(t *testing.T) {
	c := newTestCache(t, WithBound(10_000))
	want, err := c.Range(100, 9000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				got, err := c.Range(100, 9000)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}

func TestCache_Count(t *testing.T) {
	c := newTestCache(t, WithBound(10_000))

	n, err := c.Count(0, 9999)
	require.NoError(t, err)
	assert.Equal(t, 1229, n)

	n, err = c.Count(10, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = c.Count(24, 28)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCache_Contains(t *testing.T) {
	c := newTestCache(t, WithBound(200))

	for _, tt := range []struct {
		n    int
		want bool
	}{
		{0, false}, {1, false}, {2, true}, {3, true}, {4, false},
		{97, true}, {121, false}, {197, true}, {199, true},
	} {
		got, err := c.Contains(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}

	_, err := c.Contains(200)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = c.Contains(-1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCache_Bitmap(t *testing.T) {
	c := newTestCache(t, WithBound(1000))

	bm, err := c.Bitmap(10, 20)
	require.NoError(t, err)
	assert.Equal(t, []uint32{11, 13, 17, 19}, bm.ToArray())

	// Caller owns the bitmap.
	bm.Add(12)
	again, err := c.Bitmap(10, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), again.GetCardinality())

	empty, err := c.Bitmap(24, 28)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = c.Bitmap(20, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCache_QueryMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := newTestCache(t, WithBound(100), WithMetricsCollector(metrics))

	_, err := c.Range(10, 20)
	require.NoError(t, err)
	_, err = c.UpTo(99)
	require.NoError(t, err)
	_, err = c.Range(5, 2)
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(25), stats.BuildPrimes)
	assert.Equal(t, int64(3), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(4+25), stats.QueryResultTotal)
}

func TestSearchBounds_MatchesLinearScan(t *testing.T) {
	primes := trialDivision(2000)
	rng := rand.New(rand.NewPCG(1, 2))

	check := func(start, end int) {
		blo, bhi := searchBounds(primes, start, end)
		llo, lhi := linearBounds(primes, start, end)
		assert.Equal(t, llo, blo, "lo for [%d, %d]", start, end)
		assert.Equal(t, lhi, bhi, "hi for [%d, %d]", start, end)
	}

	for start := 0; start < 60; start++ {
		for end := start; end < 60; end++ {
			check(start, end)
		}
	}
	for range 2000 {
		a, b := rng.IntN(2000), rng.IntN(2000)
		check(min(a, b), max(a, b))
	}

	// Empty cache and ranges beyond the last prime.
	check(0, 0)
	lo, hi := searchBounds(nil, 0, 10)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
	check(1990, 1999)
}
