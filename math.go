package venue

import "math"

// Checked i64 arithmetic for position updates. Any overflow fails the whole
// invocation with ErrMath; nothing in position accounting may wrap.

func addI64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrMath
	}
	return sum, nil
}

func subI64(a, b int64) (int64, error) {
	if b == math.MinInt64 {
		if a >= 0 {
			return 0, ErrMath
		}
		return a - b, nil
	}
	return addI64(a, -b)
}

func mulI64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, ErrMath
	}
	prod := a * b
	if prod/b != a {
		return 0, ErrMath
	}
	return prod, nil
}

// i64FromU64 rejects amounts that do not fit a signed position delta.
func i64FromU64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, ErrMath
	}
	return int64(v), nil
}
