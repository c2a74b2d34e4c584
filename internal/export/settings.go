package export

import (
	"runtime"
	"time"

	"github.com/san-kum/anomview/internal/anim"
)

// Figure is the output size in inches at DPI pixels per inch.
type Figure struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// Pixels returns the figure size in pixels.
func (f Figure) Pixels() (w, h int) {
	return int(f.WidthIn * float64(f.DPI)), int(f.HeightIn * float64(f.DPI))
}

// Margins place the plot area as fractions of the figure, measured from the
// left and bottom edges.
type Margins struct {
	Left, Bottom, Right, Top float64
}

type Settings struct {
	// FrameRate in frames per second. Zero derives it from the update
	// interval.
	FrameRate int
	Figure    Figure
	Margins   Margins
	// Workers rasterizing frames concurrently. Values below 1 mean 1.
	Workers int
}

// DefaultSettings returns a 10x4 inch figure at 100 dpi with tight margins
// and the frame rate implied by interval.
func DefaultSettings(interval time.Duration) Settings {
	return Settings{
		FrameRate: anim.FrameRate(interval),
		Figure:    Figure{WidthIn: 10, HeightIn: 4, DPI: 100},
		Margins:   Margins{Left: 0.07, Bottom: 0.15, Right: 0.99, Top: 0.99},
		Workers:   min(4, runtime.NumCPU()),
	}
}

// GIF frame delays are in hundredths of a second, rounded to nearest.
func (s Settings) delay() int {
	if s.FrameRate <= 0 {
		return 1
	}
	return max((100+s.FrameRate/2)/s.FrameRate, 1)
}
