package anim

import (
	"math"

	"github.com/san-kum/anomview/internal/stats"
)

// Bounds is a closed axis interval.
type Bounds struct {
	Min, Max float64
}

// Span returns Max-Min.
func (b Bounds) Span() float64 { return b.Max - b.Min }

// Frame is a snapshot of the display buffers after one step. Slices are
// owned by the frame.
type Frame struct {
	// Index is the frame index passed to Advance.
	Index int
	// Sample is the absolute index into the source series.
	Sample int

	X         []float64
	Y         []float64
	Threshold []float64
	// Class holds the derived label series; empty without class labels.
	Class []float64
	// Std holds the rolling standard deviation; empty unless ShowStd.
	Std []float64

	XAxis Bounds
	YAxis Bounds

	// Masked marks the initial frame whose series must not be drawn yet.
	Masked bool
}

// Len is the number of samples held in the frame.
func (f Frame) Len() int { return len(f.X) }

// Latest returns the newest value, threshold and whether that sample is
// flagged anomalous.
func (f Frame) Latest() (value, threshold float64, anomalous bool) {
	n := len(f.Y)
	if n == 0 {
		return 0, 0, false
	}
	value, threshold = f.Y[n-1], f.Threshold[n-1]
	if len(f.Class) == n {
		anomalous = f.Class[n-1] != NormalSentinel
	}
	return value, threshold, anomalous
}

// YBounds applies the y-axis policy: lower bound 0, upper bound YHeadroom
// times the largest observed value (values only, or values, threshold and
// std when adjust is set).
func YBounds(y, th, std []float64, adjust bool) Bounds {
	var (
		max float64
		ok  bool
	)
	if adjust {
		max, ok = stats.Max(y, th, std)
	} else {
		max, ok = stats.Max(y)
	}
	if !ok {
		return Bounds{Min: 0, Max: initialYMax}
	}
	return Bounds{Min: 0, Max: max * YHeadroom}
}

// XBounds applies the x-axis policy: from the oldest x position to
// floor(XPadding*windowSize) past it.
func XBounds(x []float64, windowSize int) Bounds {
	min, ok := stats.Min(x)
	if !ok {
		return Bounds{Min: 0, Max: float64(windowSize)}
	}
	return Bounds{Min: min, Max: min + math.Floor(XPadding*float64(windowSize))}
}
