package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// IntToUint converts a non-negative int to a bit index.
func IntToUint(v int) (uint, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint (negative)", v)
	}
	return uint(v), nil
}

// UintToInt converts a bit index back to int.
func UintToInt(v uint) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// IntsToUint32s converts an ascending slice of non-negative ints into a new
// uint32 slice. Only the last element is range checked, so the input must be
// sorted.
func IntsToUint32s(vs []int) ([]uint32, error) {
	if len(vs) == 0 {
		return []uint32{}, nil
	}
	if vs[0] < 0 {
		return nil, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", vs[0])
	}
	if _, err := IntToUint32(vs[len(vs)-1]); err != nil {
		return nil, err
	}
	out := make([]uint32, len(vs))
	for i, v := range vs {
		out[i] = uint32(v)
	}
	return out, nil
}
