package anim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/anomview/internal/anim"
)

func series(n int) (values, threshold []float64) {
	values = make([]float64, n)
	threshold = make([]float64, n)
	for i := range values {
		values[i] = 0.2 + 0.1*math.Sin(float64(i)/3) + 0.01*float64(i%7)
		threshold[i] = 0.35 + 0.001*float64(i)
	}
	return values, threshold
}

func naivePopStd(xs []float64) float64 {
	mean := 0.0
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	ss := 0.0
	for _, v := range xs {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

var _ = Describe("Animator", func() {
	var opts anim.Options

	BeforeEach(func() {
		opts = anim.DefaultOptions()
		opts.Values, opts.Threshold = series(40)
		opts.WindowSize = 8
		opts.StdWindowSize = 5
	})

	Describe("Advance", func() {
		It("grows buffers to min(f+1, windowSize)", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			for f := 0; f < opts.FrameCount()-1; f++ {
				frame, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
				want := min(f+1, opts.WindowSize)
				Expect(frame.X).To(HaveLen(want))
				Expect(frame.Y).To(HaveLen(want))
				Expect(frame.Threshold).To(HaveLen(want))
				Expect(frame.Std).To(HaveLen(want))
			}
		})

		It("increases x by exactly one per call starting at Start", func() {
			opts.Start = 5
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			prev := -1.0
			for f := 0; f < opts.FrameCount()-1; f++ {
				frame, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
				last := frame.X[len(frame.X)-1]
				if f == 0 {
					Expect(last).To(Equal(5.0))
				} else {
					Expect(last).To(Equal(prev + 1))
				}
				for k := 1; k < len(frame.X); k++ {
					Expect(frame.X[k] - frame.X[k-1]).To(Equal(1.0))
				}
				prev = last
			}
		})

		It("stores the population std of the trailing window", func() {
			opts.Start = 3
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			for f := 0; f < opts.FrameCount()-1; f++ {
				frame, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
				i := opts.Start + f
				lo := max(0, i-opts.StdWindowSize)
				Expect(frame.Std[len(frame.Std)-1]).To(BeNumerically("~", naivePopStd(opts.Values[lo:i+1]), 1e-12))
			}
		})

		It("signals end of stream without mutating buffers", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			last := opts.FrameCount() - 1
			for f := 0; f < last; f++ {
				_, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
			}
			before := a.Snapshot()

			_, err = a.Advance(last)
			Expect(err).To(MatchError(anim.ErrEndOfStream))
			_, err = a.Advance(last + 10)
			Expect(err).To(MatchError(anim.ErrEndOfStream))

			Expect(a.Snapshot()).To(Equal(before))
		})

		It("rejects negative frame indices", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Advance(-1)
			Expect(err).To(MatchError(anim.ErrFrameOutOfRange))

			var fe *anim.FrameError
			Expect(err).To(BeAssignableToTypeOf(fe))
		})

		It("keeps only the most recent samples in arrival order", func() {
			opts.WindowSize = 3
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			var frame anim.Frame
			for f := 0; f < 5; f++ {
				frame, err = a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(frame.X).To(Equal([]float64{2, 3, 4}))
			Expect(frame.Y).To(Equal(opts.Values[2:5]))
			Expect(frame.Threshold).To(Equal(opts.Threshold[2:5]))
			Expect(frame.Std).To(HaveLen(3))
		})

		It("returns snapshots that later frames do not alter", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			first, err := a.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			copied := append([]float64(nil), first.Y...)

			for f := 1; f < 20; f++ {
				_, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(first.Y).To(Equal(copied))
		})

		It("is deterministic across fresh instances", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			b, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			for f := 0; f < opts.FrameCount()-1; f++ {
				fa, errA := a.Advance(f)
				fb, errB := b.Advance(f)
				Expect(errA).NotTo(HaveOccurred())
				Expect(errB).NotTo(HaveOccurred())
				Expect(fa).To(Equal(fb))
			}
		})
	})

	Describe("optional buffers", func() {
		It("leaves std empty when ShowStd is off", func() {
			opts.ShowStd = false
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			frame, err := a.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Std).To(BeEmpty())
		})

		It("leaves class empty without labels", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			frame, err := a.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Class).To(BeEmpty())
			Expect(a.DerivedLabels()).To(BeNil())
		})

		It("pushes derived labels aligned with values", func() {
			opts.Values = []float64{0.1, 0.9, 0.2, 0.3}
			opts.Threshold = []float64{0.5, 0.5, 0.5, 0.5}
			opts.ClassLabels = []int{0, 1, 0, 1}
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())

			var frame anim.Frame
			for f := 0; f < 3; f++ {
				frame, err = a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(frame.Class).To(Equal([]float64{-1, 0.9, -1}))

			_, _, anomalous := frame.Latest()
			Expect(anomalous).To(BeFalse())
		})
	})

	Describe("axis policy", func() {
		It("scales y to the values only by default", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			for f := 0; f < 15; f++ {
				frame, err := a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
				maxY := frame.Y[0]
				for _, v := range frame.Y {
					maxY = max(maxY, v)
				}
				Expect(frame.YAxis.Min).To(Equal(0.0))
				Expect(frame.YAxis.Max).To(BeNumerically("~", 1.2*maxY, 1e-12))
			}
		})

		It("includes threshold and std when adjusting to threshold", func() {
			opts.AdjustYToThreshold = true
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			frame, err := a.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.YAxis.Max).To(BeNumerically("~", 1.2*opts.Threshold[0], 1e-12))
		})

		It("pads the x window past the buffer capacity", func() {
			opts.WindowSize = 10
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			var frame anim.Frame
			for f := 0; f < 25; f++ {
				frame, err = a.Advance(f)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(frame.XAxis).To(Equal(anim.Bounds{Min: 15, Max: 29}))
		})

		It("applies the y headroom to whichever series YBounds considers", func() {
			y, th, std := []float64{0.1, 0.5}, []float64{2, 2}, []float64{3}
			Expect(anim.YBounds(y, th, std, false)).To(Equal(anim.Bounds{Min: 0, Max: 0.5 * anim.YHeadroom}))
			Expect(anim.YBounds(y, th, std, true).Max).To(BeNumerically("~", 3.6, 1e-12))
		})

		It("falls back to the initial y range without data", func() {
			Expect(anim.YBounds(nil, nil, nil, true)).To(Equal(anim.Bounds{Min: 0, Max: 0.5}))
		})

		It("floors the padded x span", func() {
			b := anim.XBounds([]float64{12, 13, 14}, 7)
			Expect(b).To(Equal(anim.Bounds{Min: 12, Max: 21}))
			Expect(b.Span()).To(Equal(9.0))
		})
	})

	Describe("Prime", func() {
		It("returns a masked frame with fixed axes", func() {
			opts.Start = 2
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			frame := a.Prime()

			Expect(frame.Masked).To(BeTrue())
			Expect(frame.X).To(Equal([]float64{2}))
			Expect(frame.Y).To(Equal([]float64{opts.Values[2]}))
			Expect(frame.YAxis).To(Equal(anim.Bounds{Min: 0, Max: 0.5}))
			Expect(frame.XAxis).To(Equal(anim.Bounds{Min: 2, Max: 8}))
		})

		It("continues at frame 1 without repeating sample 0", func() {
			a, err := anim.New(opts)
			Expect(err).NotTo(HaveOccurred())
			a.Prime()
			frame, err := a.Advance(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Y).To(Equal(opts.Values[0:2]))
			Expect(frame.X).To(Equal([]float64{0, 1}))
		})
	})
})

var _ = Describe("DeriveLabels", func() {
	It("keeps anomalous values and replaces the rest with the sentinel", func() {
		got := anim.DeriveLabels([]float64{0.1, 0.9, 0.2}, []int{0, 1, 0})
		Expect(got).To(Equal([]float64{-1, 0.9, -1}))
	})
})

var _ = Describe("Options", func() {
	valid := func() anim.Options {
		o := anim.DefaultOptions()
		o.Values = []float64{1, 2, 3}
		o.Threshold = []float64{1, 1, 1}
		return o
	}

	It("carries the documented defaults", func() {
		o := anim.DefaultOptions()
		Expect(o.WindowSize).To(Equal(300))
		Expect(o.UpdateInterval.Milliseconds()).To(Equal(int64(25)))
		Expect(o.Start).To(Equal(0))
		Expect(o.HideClasses).To(BeTrue())
		Expect(o.AdjustYToThreshold).To(BeFalse())
		Expect(o.ShowStd).To(BeTrue())
		Expect(o.StdWindowSize).To(Equal(50))
	})

	DescribeTable("validation failures",
		func(mutate func(*anim.Options), want error) {
			o := valid()
			mutate(&o)
			_, err := anim.New(o)
			Expect(err).To(MatchError(want))
		},
		Entry("no values", func(o *anim.Options) { o.Values, o.Threshold = nil, nil }, anim.ErrNoSamples),
		Entry("short threshold", func(o *anim.Options) { o.Threshold = o.Threshold[:2] }, anim.ErrLengthMismatch),
		Entry("short labels", func(o *anim.Options) { o.ClassLabels = []int{0} }, anim.ErrLengthMismatch),
		Entry("bad label", func(o *anim.Options) { o.ClassLabels = []int{0, 2, 1} }, anim.ErrInvalidLabel),
		Entry("start past end", func(o *anim.Options) { o.Start = 3 }, anim.ErrStartOutOfRange),
		Entry("negative start", func(o *anim.Options) { o.Start = -1 }, anim.ErrStartOutOfRange),
		Entry("zero window", func(o *anim.Options) { o.WindowSize = 0 }, anim.ErrInvalidOption),
		Entry("zero interval", func(o *anim.Options) { o.UpdateInterval = 0 }, anim.ErrInvalidOption),
		Entry("zero std window", func(o *anim.Options) { o.StdWindowSize = 0 }, anim.ErrInvalidOption),
	)

	It("names the offending option", func() {
		o := valid()
		o.Start = 10
		err := o.Validate()
		Expect(err.Error()).To(ContainSubstring("start=10"))
	})
})

var _ = Describe("Reset", func() {
	It("empties the buffers so x restarts at Start", func() {
		opts := anim.DefaultOptions()
		opts.Values, opts.Threshold = series(10)
		opts.Start = 2
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Advance(3)
		Expect(err).NotTo(HaveOccurred())
		a.Reset()
		Expect(a.Snapshot().Len()).To(BeZero())

		f, err := a.Advance(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.X).To(Equal([]float64{2}))
		Expect(f.Sample).To(Equal(3))
	})
})
