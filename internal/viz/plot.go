package viz

import (
	"math"

	"github.com/san-kum/anomview/internal/anim"
)

// projection maps frame coordinates to canvas sub-pixels.
type projection struct {
	x, y anim.Bounds
	w, h int
}

func newProjection(c *Canvas, f anim.Frame) projection {
	w, h := c.Size()
	p := projection{x: f.XAxis, y: f.YAxis, w: w, h: h}
	if p.x.Max <= p.x.Min {
		p.x.Max = p.x.Min + 1
	}
	if p.y.Max <= p.y.Min {
		p.y.Max = p.y.Min + 1
	}
	return p
}

func (p projection) px(x float64) int {
	return clampInt(int(math.Round((x-p.x.Min)/p.x.Span()*float64(p.w-1))), -p.w, 2*p.w)
}

func (p projection) py(y float64) int {
	return clampInt(p.h-1-int(math.Round((y-p.y.Min)/p.y.Span()*float64(p.h-1))), -p.h, 2*p.h)
}

func (p projection) polyline(c *Canvas, xs, ys []float64, l Layer) {
	if len(ys) != len(xs) {
		return
	}
	for i := range xs {
		x, y := p.px(xs[i]), p.py(ys[i])
		if i == 0 {
			c.Set(x, y, l)
			continue
		}
		c.DrawLine(p.px(xs[i-1]), p.py(ys[i-1]), x, y, l)
	}
}

// drawFrame renders f onto c: axes, then std, threshold and value dots so
// that values stay on top. Masked frames only get axes.
func drawFrame(c *Canvas, f anim.Frame, hideClasses bool) {
	c.Clear()
	w, h := c.Size()
	c.DrawLine(0, 0, 0, h-1, LayerAxis)
	c.DrawLine(0, h-1, w-1, h-1, LayerAxis)
	if f.Masked || f.Len() == 0 {
		return
	}

	p := newProjection(c, f)
	p.polyline(c, f.X, f.Std, LayerStd)
	p.polyline(c, f.X, f.Threshold, LayerThreshold)

	classes := !hideClasses && len(f.Class) == len(f.X)
	for i := range f.X {
		l := LayerValues
		if classes && f.Class[i] != anim.NormalSentinel {
			l = LayerAnomaly
		}
		c.Set(p.px(f.X[i]), p.py(f.Y[i]), l)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
