package anim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Renderer draws frames. Close is called exactly once when the frame loop
// ends, whatever the reason.
type Renderer interface {
	Render(f Frame) error
	Close() error
}

// Legend returns the legend entries in series order for opts.
func Legend(opts Options) []string {
	var legend []string
	if opts.HideClasses {
		legend = []string{"reconstruction error", "threshold"}
	} else {
		legend = []string{"normal reconstruction error", "anomaly reconstruction error", "threshold"}
	}
	if opts.ShowStd {
		legend = append(legend, fmt.Sprintf("sliding window std (window size=%d)", opts.StdWindowSize))
	}
	return legend
}

// Drive renders the whole animation synchronously: the primed initial frame,
// then frames 1.. until end of stream. It returns the number of frames
// rendered.
func Drive(a *Animator, r Renderer) (n int, err error) {
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	if err := r.Render(a.Prime()); err != nil {
		return 0, err
	}
	n = 1

	for i := 1; ; i++ {
		f, err := a.Advance(i)
		if errors.Is(err, ErrEndOfStream) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := r.Render(f); err != nil {
			return n, err
		}
		n++
	}
}

// Play renders the same sequence as Drive, one frame per UpdateInterval,
// until end of stream or ctx is done.
func Play(ctx context.Context, a *Animator, r Renderer) (err error) {
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	if err := r.Render(a.Prime()); err != nil {
		return err
	}

	ticker := time.NewTicker(a.opts.UpdateInterval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		f, err := a.Advance(i)
		if errors.Is(err, ErrEndOfStream) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.Render(f); err != nil {
			return err
		}
	}
}
