package metrics

import "math"

// Peak is the largest reconstruction error seen.
type Peak struct {
	max     float64
	samples int
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak_error" }

func (p *Peak) Observe(value, threshold float64, label int) {
	if p.samples == 0 {
		p.max = value
	}
	p.max = math.Max(p.max, value)
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

// Mean is the average reconstruction error.
type Mean struct {
	sum     float64
	samples int
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean_error" }

func (m *Mean) Observe(value, threshold float64, label int) {
	m.sum += value
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Exceedance is the fraction of samples strictly above their threshold.
type Exceedance struct {
	above   int
	samples int
}

func NewExceedance() *Exceedance { return &Exceedance{} }

func (e *Exceedance) Name() string { return "exceedance" }

func (e *Exceedance) Observe(value, threshold float64, label int) {
	e.samples++
	if value > threshold {
		e.above++
	}
}

func (e *Exceedance) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.above) / float64(e.samples)
}

// Count is the number of samples above their threshold.
func (e *Exceedance) Count() int { return e.above }

func (e *Exceedance) Reset() {
	e.above = 0
	e.samples = 0
}
