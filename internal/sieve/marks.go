package sieve

import (
	"fmt"
	"unsafe"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/primecache/internal/conv"
	"github.com/hupe1980/primecache/internal/mmap"
)

const wordBits = 64

// Marks is the transient primality buffer of one build.
//
// A set bit means the index is composite. The backing memory starts zeroed,
// so every index begins as a prime candidate.
type Marks struct {
	bound   int
	bits    *bitset.BitSet
	mapping *mmap.Mapping
}

// MarksBytes returns the size of the buffer NewMarks maps for bound.
func MarksBytes(bound int) int64 {
	if bound <= 0 {
		return 0
	}
	return int64(wordCount(bound)) * 8
}

func wordCount(bound int) int {
	return (bound + wordBits - 1) / wordBits
}

// NewMarks maps a buffer covering [0, bound) with 0 and 1 already marked.
func NewMarks(bound int) (*Marks, error) {
	if bound <= 2 {
		return nil, fmt.Errorf("%w: %d", ErrBoundTooSmall, bound)
	}

	words := wordCount(bound)
	mapping, err := mmap.MapAnon(words * 8)
	if err != nil {
		return nil, fmt.Errorf("sieve: map marks buffer: %w", err)
	}

	buf := mapping.Bytes()
	w := unsafe.Slice((*uint64)(unsafe.Pointer(&buf[0])), words)

	m := &Marks{
		bound:   bound,
		bits:    bitset.From(w),
		mapping: mapping,
	}
	m.bits.Set(0).Set(1)
	return m, nil
}

// Bound returns the exclusive upper limit the marks cover.
func (m *Marks) Bound() int { return m.bound }

// MarkComposite flags i as composite.
func (m *Marks) MarkComposite(i int) {
	m.bits.Set(uint(i))
}

// IsCandidate reports whether i has not been marked composite.
func (m *Marks) IsCandidate(i int) bool {
	return !m.bits.Test(uint(i))
}

// Candidates returns every unmarked index in [from, to), ascending.
func (m *Marks) Candidates(from, to int, dst []int) ([]int, error) {
	to = min(to, m.bound)
	start, err := conv.IntToUint(from)
	if err != nil {
		return dst, err
	}
	for i, ok := m.bits.NextClear(start); ok; i, ok = m.bits.NextClear(i + 1) {
		v, err := conv.UintToInt(i)
		if err != nil {
			return dst, err
		}
		if v >= to {
			break
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Release unmaps the buffer. The Marks must not be used afterwards.
func (m *Marks) Release() error {
	m.bits = nil
	return m.mapping.Close()
}
