package anim

import (
	"errors"
	"fmt"
)

// Domain errors for animator construction and frame advancement.
var (
	// ErrNoSamples indicates an empty value series.
	ErrNoSamples = errors.New("anim: no samples to animate")

	// ErrLengthMismatch indicates threshold or labels not aligned to values.
	ErrLengthMismatch = errors.New("anim: series lengths differ")

	// ErrStartOutOfRange indicates a start offset outside the value series.
	ErrStartOutOfRange = errors.New("anim: start index beyond series length")

	// ErrInvalidOption indicates a non-positive size or interval.
	ErrInvalidOption = errors.New("anim: option out of valid range")

	// ErrInvalidLabel indicates a class label other than 0 or 1.
	ErrInvalidLabel = errors.New("anim: class label must be 0 or 1")

	// ErrFrameOutOfRange indicates a negative frame index.
	ErrFrameOutOfRange = errors.New("anim: frame index out of range")

	// ErrEndOfStream is returned once every sample from Start onward has been
	// consumed. It is terminal.
	ErrEndOfStream = errors.New("anim: end of stream")
)

// OptionError wraps a validation failure with the offending option.
type OptionError struct {
	Option  string
	Value   any
	Wrapped error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Option, e.Value)
}

func (e *OptionError) Unwrap() error {
	return e.Wrapped
}

// FrameError wraps a failure to advance to a specific frame.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Wrapped.Error())
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
