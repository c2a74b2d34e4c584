// Package stats holds the small numeric helpers the animator needs per frame.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PopStd returns the population standard deviation of xs. Fewer than two
// samples have no spread and yield 0.
func PopStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// RollingStd returns the population standard deviation of
// values[max(0, i-window) .. i], both ends inclusive.
func RollingStd(values []float64, i, window int) float64 {
	lo := i - window
	if lo < 0 {
		lo = 0
	}
	return PopStd(values[lo : i+1])
}

// Max returns the largest value across all series. ok is false when every
// series is empty.
func Max(series ...[]float64) (max float64, ok bool) {
	max = math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if v > max {
				max = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return max, true
}

// Min returns the smallest value of xs.
func Min(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	min := xs[0]
	for _, v := range xs[1:] {
		if v < min {
			min = v
		}
	}
	return min, true
}
