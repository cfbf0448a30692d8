// Package conv provides safe integer type conversion utilities.
//
// The sieve works in int at the API boundary, uint for bitset indexes and
// uint32 for roaring bitmaps. These helpers bounds-check the crossings.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices bounded by the sieve bound), use direct type casts instead to avoid
// overhead.
package conv
