package anim

import (
	"math"
	"time"
)

const (
	DefaultWindowSize     = 300
	DefaultUpdateInterval = 25 * time.Millisecond
	DefaultStart          = 0
	DefaultStdWindowSize  = 50

	// NormalSentinel replaces the value of non-anomalous samples in the
	// derived class series so they fall below the visible y range.
	NormalSentinel = -1.0

	// YHeadroom scales the largest visible value to the y-axis upper bound.
	YHeadroom = 1.2
	// XPadding widens the x window beyond the buffer capacity.
	XPadding = 1.4

	initialYMax = 0.5
)

// Options configures an Animator. Start from DefaultOptions.
type Options struct {
	// Values are the reconstruction errors, one per time step.
	Values []float64
	// Threshold is aligned to Values.
	Threshold []float64
	// ClassLabels flags anomalies (1) and normal samples (0). Empty disables
	// class coloring.
	ClassLabels []int

	WindowSize     int
	UpdateInterval time.Duration
	Start          int

	HideClasses        bool
	AdjustYToThreshold bool
	ShowStd            bool
	StdWindowSize      int
}

// DefaultOptions returns options with every documented default and no data.
func DefaultOptions() Options {
	return Options{
		WindowSize:     DefaultWindowSize,
		UpdateInterval: DefaultUpdateInterval,
		Start:          DefaultStart,
		HideClasses:    true,
		ShowStd:        true,
		StdWindowSize:  DefaultStdWindowSize,
	}
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	if o.WindowSize <= 0 {
		return &OptionError{Option: "animation_window_size", Value: o.WindowSize, Wrapped: ErrInvalidOption}
	}
	if o.UpdateInterval <= 0 {
		return &OptionError{Option: "update_interval", Value: o.UpdateInterval, Wrapped: ErrInvalidOption}
	}
	if o.StdWindowSize <= 0 {
		return &OptionError{Option: "std_window_size", Value: o.StdWindowSize, Wrapped: ErrInvalidOption}
	}
	if len(o.Values) == 0 {
		return ErrNoSamples
	}
	if len(o.Threshold) != len(o.Values) {
		return &OptionError{Option: "threshold", Value: len(o.Threshold), Wrapped: ErrLengthMismatch}
	}
	if len(o.ClassLabels) != 0 && len(o.ClassLabels) != len(o.Values) {
		return &OptionError{Option: "class_labels", Value: len(o.ClassLabels), Wrapped: ErrLengthMismatch}
	}
	for i, l := range o.ClassLabels {
		if l != 0 && l != 1 {
			return &OptionError{Option: "class_labels", Value: i, Wrapped: ErrInvalidLabel}
		}
	}
	if o.Start < 0 || o.Start >= len(o.Values) {
		return &OptionError{Option: "start", Value: o.Start, Wrapped: ErrStartOutOfRange}
	}
	return nil
}

// FrameCount is the number of frame indices a player schedules, including
// the terminal one that reports ErrEndOfStream.
func (o Options) FrameCount() int {
	return len(o.Values) - o.Start
}

// HasClasses reports whether class labels were supplied.
func (o Options) HasClasses() bool { return len(o.ClassLabels) > 0 }

// FrameRate converts an update interval to whole frames per second, rounding
// up.
func FrameRate(interval time.Duration) int {
	ms := float64(interval) / float64(time.Millisecond)
	if ms <= 0 {
		return 1
	}
	return int(math.Ceil(1000.0 / ms))
}
