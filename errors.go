package primecache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/primecache/internal/resource"
	"github.com/hupe1980/primecache/internal/sieve"
)

var (
	// ErrInvalidConfiguration is returned when a cache cannot be built with
	// the given options. It is fatal to that instance.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidRange is returned when query bounds are out of order or fall
	// outside the cached universe. The cache stays usable.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNotInitialized is returned when a query reaches a cache that is not
	// Ready, either because the build has not finished or because it failed.
	ErrNotInitialized = errors.New("cache not initialized")
)

// ConfigError describes a rejected configuration.
//
// errors.Is(err, ErrInvalidConfiguration) reports true; the underlying cause
// (if any) is reachable through errors.Is/errors.As as well.
type ConfigError struct {
	Bound  int
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid configuration (bound %d): %s: %v", e.Bound, e.Reason, e.cause)
	}
	return fmt.Sprintf("invalid configuration (bound %d): %s", e.Bound, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidConfiguration}
	}
	return []error{ErrInvalidConfiguration, e.cause}
}

// RangeError describes a rejected query.
type RangeError struct {
	Start    int
	End      int
	Bound    int
	MinStart int
	Reason   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d] for bound %d: %s", e.Start, e.End, e.Bound, e.Reason)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

func translateError(bound int, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sieve.ErrBoundTooSmall) {
		return &ConfigError{Bound: bound, Reason: "bound must be greater than 2", cause: err}
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return &ConfigError{Bound: bound, Reason: "build does not fit the memory limit", cause: err}
	}

	return err
}
