package metrics

import "math"

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Average returns the arithmetic mean of values and false when values is
// empty.
func Average[T Number](values []T) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values)), true
}

// StandardDeviation returns the population standard deviation of values,
// computed in two passes. An empty input has a deviation of 0.
func StandardDeviation[T Number](values []T) float64 {
	mean, ok := Average(values)
	if !ok {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		d := float64(v) - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
