// Package viz provides the terminal player for reconstruction-error
// animations.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the player, advancing an [anim.Animator] once per update
//     interval
//   - [Canvas]: Braille-based pixel canvas with one color layer per series
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first sample
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	S     - Save a PNG snapshot of the current frame
//	?     - Show help overlay
//
// # Recording
//
// Recordings and snapshots are rasterized with the same renderer the export
// command uses, so a recorded session looks like an exported animation.
package viz
