//go:build !unix && !windows

package mmap

// Platforms without mmap fall back to the Go heap. The buffer is still
// zero-filled; release just drops the reference.
func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), func([]byte) error { return nil }, nil
}

func osAdvise(data []byte, pattern AccessPattern) error {
	return nil
}
