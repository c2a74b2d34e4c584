package anim

import (
	"github.com/san-kum/anomview/internal/stats"
	"github.com/san-kum/anomview/internal/window"
)

// Animator owns the rolling display buffers for one playback.
type Animator struct {
	opts    Options
	derived []float64

	x, y, th *window.Window[float64]
	cls, std *window.Window[float64]

	lastFrame int
}

// New validates opts and returns an animator with empty buffers.
func New(opts Options) (*Animator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &Animator{
		opts: opts,
		x:    window.New[float64](opts.WindowSize),
		y:    window.New[float64](opts.WindowSize),
		th:   window.New[float64](opts.WindowSize),
	}
	if opts.HasClasses() {
		a.derived = DeriveLabels(opts.Values, opts.ClassLabels)
		a.cls = window.New[float64](opts.WindowSize)
	}
	if opts.ShowStd {
		a.std = window.New[float64](opts.WindowSize)
	}
	return a, nil
}

// DeriveLabels maps each anomalous sample to its value and every other
// sample to NormalSentinel. labels must be aligned to values.
func DeriveLabels(values []float64, labels []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if labels[i] == 1 {
			out[i] = v
		} else {
			out[i] = NormalSentinel
		}
	}
	return out
}

func (a *Animator) Options() Options { return a.opts }

// DerivedLabels returns a copy of the derived class series, or nil without
// class labels.
func (a *Animator) DerivedLabels() []float64 {
	if a.derived == nil {
		return nil
	}
	out := make([]float64, len(a.derived))
	copy(out, a.derived)
	return out
}

// Reset empties every buffer.
func (a *Animator) Reset() {
	a.lastFrame = 0
	a.x.Clear()
	a.y.Clear()
	a.th.Clear()
	if a.cls != nil {
		a.cls.Clear()
	}
	if a.std != nil {
		a.std.Clear()
	}
}

// Prime resets the buffers, loads the sample at frame 0 and returns the
// masked initial frame with fixed axes. Players that prime continue with
// Advance(1).
func (a *Animator) Prime() Frame {
	a.Reset()
	a.push(0)
	f := a.snapshot(0, a.opts.Start)
	f.Masked = true
	f.XAxis = Bounds{Min: float64(a.opts.Start), Max: float64(a.opts.WindowSize)}
	f.YAxis = Bounds{Min: 0, Max: initialYMax}
	return f
}

// Advance pushes the sample for frameIndex into every buffer and returns the
// resulting frame. It returns ErrEndOfStream, without touching the buffers,
// once frameIndex+1 reaches the number of samples from Start onward.
func (a *Animator) Advance(frameIndex int) (Frame, error) {
	if frameIndex < 0 {
		return Frame{}, &FrameError{Frame: frameIndex, Wrapped: ErrFrameOutOfRange}
	}
	if frameIndex+1 >= a.opts.FrameCount() {
		return Frame{}, ErrEndOfStream
	}
	a.push(frameIndex)

	f := a.snapshot(frameIndex, a.opts.Start+frameIndex)
	f.YAxis = YBounds(f.Y, f.Threshold, f.Std, a.opts.AdjustYToThreshold)
	f.XAxis = XBounds(f.X, a.opts.WindowSize)
	return f, nil
}

// Snapshot returns the current buffer contents without advancing. Axes
// follow the per-frame policy.
func (a *Animator) Snapshot() Frame {
	f := a.snapshot(a.lastFrame, a.opts.Start+a.lastFrame)
	f.YAxis = YBounds(f.Y, f.Threshold, f.Std, a.opts.AdjustYToThreshold)
	f.XAxis = XBounds(f.X, a.opts.WindowSize)
	return f
}

func (a *Animator) push(frameIndex int) {
	i := a.opts.Start + frameIndex
	a.lastFrame = frameIndex
	if last, ok := a.x.Back(); ok {
		a.x.Push(last + 1)
	} else {
		a.x.Push(float64(a.opts.Start))
	}
	a.y.Push(a.opts.Values[i])
	a.th.Push(a.opts.Threshold[i])
	if a.cls != nil {
		a.cls.Push(a.derived[i])
	}
	if a.std != nil {
		a.std.Push(stats.RollingStd(a.opts.Values, i, a.opts.StdWindowSize))
	}
}

func (a *Animator) snapshot(frameIndex, sample int) Frame {
	f := Frame{
		Index:     frameIndex,
		Sample:    sample,
		X:         a.x.Values(),
		Y:         a.y.Values(),
		Threshold: a.th.Values(),
	}
	if a.cls != nil {
		f.Class = a.cls.Values()
	}
	if a.std != nil {
		f.Std = a.std.Values()
	}
	return f
}
