package numberutils

import (
	"fmt"
	"math"
	"strconv"
)

// ParseNonNegative reads an optional query number. An empty string yields defaultVal.
func ParseNonNegative(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	return strconv.Atoi(s)
}

// FloatToInt converts a float holding an integral value to int.
// Fractional, infinite and NaN values are rejected.
func FloatToInt(f float64) (int, error) {
	i, err := FloatToInt64(f)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt || i < math.MinInt {
		return 0, fmt.Errorf("value %v overflows int", f)
	}
	return int(i), nil
}
