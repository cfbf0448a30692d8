// Package resource tracks and limits the memory a prime cache build reserves.
//
// A build reserves its transient marks buffer and the estimated size of the
// retained prime list up front. With a hard limit configured the reservation
// fails fast with ErrMemoryLimitExceeded instead of letting an oversized bound
// run the process out of memory:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(n); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(n)
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
