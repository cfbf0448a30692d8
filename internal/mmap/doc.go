// Package mmap provides anonymous memory mappings for short-lived, large
// scratch buffers.
//
// The prime sieve needs one bit per integer below the bound while it runs and
// nothing afterwards. Mapping that buffer outside the Go heap means it can be
// handed back to the OS the moment compaction finishes, instead of waiting
// for the garbage collector.
//
// # Usage
//
//	m, err := mmap.MapAnon(size)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes() // zero-filled, read-write
//	_ = m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON, madvise(2) for hints
//   - Windows: VirtualAlloc/VirtualFree (Advise is a no-op)
//   - Anything else: a plain heap slice
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close() returns.
package mmap
