package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/anomview/internal/anim"
)

var (
	// Fully transparent but non-zero, so go-chart does not substitute a
	// default stroke color.
	noStroke = drawing.Color{R: 255, G: 255, B: 255, A: 0}

	colorSingle    = chart.ColorAlternateGray
	colorNormal    = chart.ColorGreen
	colorAnomaly   = chart.ColorRed
	colorThreshold = chart.ColorBlack
	colorStd       = chart.ColorBlue
)

// Rasterizer draws frames into images of a fixed figure size. Image may be
// called from several goroutines.
type Rasterizer struct {
	opts     anim.Options
	settings Settings
	legend   []legendEntry
}

type legendEntry struct {
	label string
	color drawing.Color
}

func NewRasterizer(opts anim.Options, settings Settings) *Rasterizer {
	labels := anim.Legend(opts)
	colors := []drawing.Color{colorSingle, colorThreshold}
	if !opts.HideClasses {
		colors = []drawing.Color{colorNormal, colorAnomaly, colorThreshold}
	}
	if opts.ShowStd {
		colors = append(colors, colorStd)
	}
	entries := make([]legendEntry, len(labels))
	for i, l := range labels {
		entries[i] = legendEntry{label: l, color: colors[i]}
	}
	// Load the shared chart font before any concurrent render does.
	_, _ = chart.GetDefaultFont()
	return &Rasterizer{opts: opts, settings: settings, legend: entries}
}

func dots(col drawing.Color, width float64) chart.Style {
	return chart.Style{StrokeColor: noStroke, DotColor: col, DotWidth: width}
}

func line(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 2}
}

// go-chart needs two points to derive a slope; a single sample is drawn
// twice.
func pad(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0]}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}

// nonEmpty keeps axis ranges drawable when the policy yields a degenerate or
// inverted interval.
func nonEmpty(b anim.Bounds) *chart.ContinuousRange {
	if b.Max <= b.Min {
		b.Max = b.Min + 1
	}
	return &chart.ContinuousRange{Min: b.Min, Max: b.Max}
}

func (r *Rasterizer) series(f anim.Frame) []chart.Series {
	valueColor, anomalyColor := colorSingle, colorAnomaly
	if !r.opts.HideClasses {
		valueColor = colorNormal
	}
	thStyle, stdStyle := line(colorThreshold), line(colorStd)
	if f.Masked {
		valueColor, anomalyColor = noStroke, noStroke
		thStyle, stdStyle = line(noStroke), line(noStroke)
	}

	xs, ys := pad(f.X, f.Y)
	out := []chart.Series{
		chart.ContinuousSeries{Name: "values", XValues: xs, YValues: ys, Style: dots(valueColor, 1.5)},
	}

	if !r.opts.HideClasses && len(f.Class) == len(f.X) {
		var ax, ay []float64
		for i, c := range f.Class {
			if c != anim.NormalSentinel {
				ax = append(ax, f.X[i])
				ay = append(ay, c)
			}
		}
		if len(ax) > 0 {
			ax, ay = pad(ax, ay)
			out = append(out, chart.ContinuousSeries{Name: "anomalies", XValues: ax, YValues: ay, Style: dots(anomalyColor, 2)})
		}
	}

	xs, ths := pad(f.X, f.Threshold)
	out = append(out, chart.ContinuousSeries{Name: "threshold", XValues: xs, YValues: ths, Style: thStyle})

	if r.opts.ShowStd && len(f.Std) == len(f.X) {
		xs, std := pad(f.X, f.Std)
		out = append(out, chart.ContinuousSeries{Name: "std", XValues: xs, YValues: std, Style: stdStyle})
	}
	return out
}

// Image renders f into an RGBA image.
func (r *Rasterizer) Image(f anim.Frame) (*image.RGBA, error) {
	if f.Len() == 0 {
		return nil, fmt.Errorf("export: empty frame %d", f.Index)
	}
	w, h := r.settings.Figure.Pixels()
	m := r.settings.Margins

	ch := chart.Chart{
		Width:  w,
		Height: h,
		DPI:    float64(r.settings.Figure.DPI),
		Background: chart.Style{Padding: chart.Box{
			Top:    int((1 - m.Top) * float64(h)),
			Left:   int(m.Left * float64(w)),
			Right:  int((1 - m.Right) * float64(w)),
			Bottom: int(m.Bottom * float64(h)),
		}},
		XAxis:  chart.XAxis{Name: "time step", Range: nonEmpty(f.XAxis)},
		YAxis:  chart.YAxis{Name: "reconstruction error", Range: nonEmpty(f.YAxis)},
		Series: r.series(f),
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("export: render frame %d: %w", f.Index, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("export: decode frame %d: %w", f.Index, err)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	r.drawLegend(rgba)
	return rgba, nil
}

// drawLegend lays the entries out in two columns in the upper right corner.
func (r *Rasterizer) drawLegend(dst *image.RGBA) {
	if len(r.legend) == 0 {
		return
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: face}

	const (
		swatch = 14
		gap    = 6
		pad    = 6
		rowH   = 16
	)
	colW := 0
	for _, e := range r.legend {
		if tw := dr.MeasureString(e.label).Ceil(); tw > colW {
			colW = tw
		}
	}
	colW += swatch + gap + pad
	cols := 2
	if len(r.legend) < cols {
		cols = len(r.legend)
	}
	rows := (len(r.legend) + cols - 1) / cols

	b := dst.Bounds()
	boxW, boxH := cols*colW+pad, rows*rowH+pad
	x0 := b.Max.X - int((1-r.settings.Margins.Right)*float64(b.Dx())) - boxW - 10
	y0 := b.Min.Y + int((1-r.settings.Margins.Top)*float64(b.Dy())) + 10
	box := image.Rect(x0, y0, x0+boxW, y0+boxH)
	draw.Draw(dst, box, image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 220}), image.Point{}, draw.Over)

	for i, e := range r.legend {
		cx := x0 + pad + (i%cols)*colW
		cy := y0 + pad + (i/cols)*rowH
		sw := image.Rect(cx, cy+rowH/2-2, cx+swatch, cy+rowH/2+1)
		draw.Draw(dst, sw, image.NewUniform(e.color), image.Point{}, draw.Src)
		dr.Dot = fixed.Point26_6{X: fixed.I(cx + swatch + gap), Y: fixed.I(cy + face.Metrics().Ascent.Ceil())}
		dr.DrawString(e.label)
	}
}
