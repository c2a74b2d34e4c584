// Package metrics summarizes how a threshold separates a reconstruction
// error series.
package metrics

import "sort"

// Metric observes one sample at a time. Label is -1 when the series has no
// class labels.
type Metric interface {
	Name() string
	Observe(value, threshold float64, label int)
	Value() float64
	Reset()
}

// Unlabelled is passed as label for series without class labels.
const Unlabelled = -1

// Default returns the metrics reported by the plot command. Detection
// metrics are only included when the series carries labels.
func Default(labelled bool) []Metric {
	ms := []Metric{NewPeak(), NewMean(), NewExceedance()}
	if labelled {
		d := NewDetection()
		ms = append(ms, d, d.PrecisionMetric(), d.RecallMetric())
	}
	return ms
}

// Summarize feeds every sample to ms and returns their values by name.
// labels may be empty.
func Summarize(values, threshold []float64, labels []int, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i, v := range values {
		label := Unlabelled
		if i < len(labels) {
			label = labels[i]
		}
		for _, m := range ms {
			m.Observe(v, threshold[i], label)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the keys of a summary in a stable order.
func Names(summary map[string]float64) []string {
	names := make([]string, 0, len(summary))
	for k := range summary {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
