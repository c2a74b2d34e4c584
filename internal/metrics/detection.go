package metrics

// Detection scores "value above threshold" as a classifier against the class
// labels. Its Value is the F1 score. Unlabelled samples are ignored.
type Detection struct {
	tp, fp, fn, tn int
}

func NewDetection() *Detection { return &Detection{} }

func (d *Detection) Name() string { return "f1" }

func (d *Detection) Observe(value, threshold float64, label int) {
	if label == Unlabelled {
		return
	}
	flagged := value > threshold
	switch {
	case flagged && label == 1:
		d.tp++
	case flagged:
		d.fp++
	case label == 1:
		d.fn++
	default:
		d.tn++
	}
}

// Counts returns true positives, false positives, false negatives and true
// negatives.
func (d *Detection) Counts() (tp, fp, fn, tn int) { return d.tp, d.fp, d.fn, d.tn }

func (d *Detection) Precision() float64 {
	if d.tp+d.fp == 0 {
		return 0
	}
	return float64(d.tp) / float64(d.tp+d.fp)
}

func (d *Detection) Recall() float64 {
	if d.tp+d.fn == 0 {
		return 0
	}
	return float64(d.tp) / float64(d.tp+d.fn)
}

func (d *Detection) Value() float64 {
	p, r := d.Precision(), d.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (d *Detection) Reset() { *d = Detection{} }

// PrecisionMetric and RecallMetric expose the other scores of d as
// metrics. They read d and observe nothing themselves.
func (d *Detection) PrecisionMetric() Metric { return view{name: "precision", value: d.Precision} }

func (d *Detection) RecallMetric() Metric { return view{name: "recall", value: d.Recall} }

type view struct {
	name  string
	value func() float64
}

func (v view) Name() string { return v.name }
func (v view) Observe(_, _ float64, _ int) {}
func (v view) Value() float64 { return v.value() }
func (v view) Reset() {}
