// Package anim implements the sliding-window animation of a reconstruction
// error series.
//
// The package is renderer agnostic:
//
//   - [Options]: source series and presentation settings with documented defaults
//   - [Animator]: owns the rolling display buffers and advances them per frame
//   - [Frame]: immutable snapshot handed to a [Renderer]
//   - [Drive] and [Play]: offline and wall-clock paced frame loops
//
// # Example
//
//	opts := anim.DefaultOptions()
//	opts.Values, opts.Threshold = errs, th
//	a, err := anim.New(opts)
//	if err != nil {
//		return err
//	}
//	err = anim.Play(ctx, a, renderer)
//
// # Thread Safety
//
// An Animator is NOT safe for concurrent use. Build one Animator per player;
// export builds its own from the same Options.
package anim
