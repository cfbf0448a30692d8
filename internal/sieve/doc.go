// Package sieve builds the ordered list of primes below a bound with the
// Sieve of Eratosthenes.
//
// The build is arena-style: a bit-packed Marks buffer is mapped off-heap,
// composites are marked, the surviving indexes are compacted into a []int,
// and the buffer is unmapped before Build returns. Only the compacted list
// outlives the call.
//
// With more than one worker, base primes up to sqrt(bound) are sieved first
// and the rest of the range is split into word-aligned segments that are
// marked concurrently. Segments never share a 64-bit word, so marking needs
// no synchronization and the result is identical to the sequential path.
package sieve
