package numberutils

import (
	"fmt"
	"math"
)

// FloatToInt64 converts a float holding an integral value to int64.
// Fractional, infinite and NaN values are rejected.
func FloatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not a finite number", f)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("value %v is not an integer", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v overflows int64", f)
	}
	return int64(f), nil
}
