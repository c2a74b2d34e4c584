package source

import (
	"math"
	"math/rand"
)

// Synthetic returns a demo series of n steps: a noisy periodic baseline of
// reconstruction errors with injected anomaly bursts, a threshold that tracks
// the running level, and labels marking the bursts.
func Synthetic(n int, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed))
	s := &Series{
		Values:      make([]float64, n),
		Threshold:   make([]float64, n),
		ClassLabels: make([]int, n),
	}

	burstLeft := 0
	level := 0.0
	for i := 0; i < n; i++ {
		base := 0.08 + 0.03*math.Sin(float64(i)/40) + 0.02*rng.Float64()
		if burstLeft == 0 && rng.Float64() < 0.006 {
			burstLeft = 5 + rng.Intn(20)
		}
		v := base
		if burstLeft > 0 {
			v += 0.15 + 0.2*rng.Float64()
			s.ClassLabels[i] = 1
			burstLeft--
		}
		s.Values[i] = v

		// Exponential smoothing of the non-anomalous level.
		if i == 0 {
			level = base
		} else if s.ClassLabels[i] == 0 {
			level = 0.98*level + 0.02*v
		}
		s.Threshold[i] = level * 1.8
	}
	return s
}
