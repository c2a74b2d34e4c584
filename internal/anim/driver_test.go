package anim_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/anomview/internal/anim"
)

type recorder struct {
	frames  []anim.Frame
	closed  int
	failAt  int
	failErr error
}

func (r *recorder) Render(f anim.Frame) error {
	if r.failErr != nil && len(r.frames) == r.failAt {
		return r.failErr
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) Close() error {
	r.closed++
	return nil
}

var _ = Describe("Drive", func() {
	var opts anim.Options

	BeforeEach(func() {
		opts = anim.DefaultOptions()
		opts.Values, opts.Threshold = series(12)
		opts.WindowSize = 4
	})

	It("renders the primed frame then every frame until end of stream", func() {
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())
		r := &recorder{}

		n, err := anim.Drive(a, r)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(opts.FrameCount() - 1))
		Expect(r.frames).To(HaveLen(n))
		Expect(r.frames[0].Masked).To(BeTrue())
		Expect(r.frames[n-1].Sample).To(Equal(len(opts.Values) - 2))
		Expect(r.closed).To(Equal(1))
	})

	It("stops and closes on a render failure", func() {
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())
		boom := errors.New("boom")
		r := &recorder{failAt: 3, failErr: boom}

		n, err := anim.Drive(a, r)
		Expect(err).To(MatchError(boom))
		Expect(n).To(Equal(3))
		Expect(r.closed).To(Equal(1))
	})

	It("renders only the primed frame for a single remaining sample", func() {
		opts.Start = len(opts.Values) - 1
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())
		r := &recorder{}

		n, err := anim.Drive(a, r)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})
})

var _ = Describe("Play", func() {
	It("paces frames and stops at end of stream", func() {
		opts := anim.DefaultOptions()
		opts.Values, opts.Threshold = series(6)
		opts.UpdateInterval = time.Millisecond
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())
		r := &recorder{}

		Expect(anim.Play(context.Background(), a, r)).To(Succeed())
		Expect(r.frames).To(HaveLen(5))
		Expect(r.closed).To(Equal(1))
	})

	It("returns the context error when cancelled", func() {
		opts := anim.DefaultOptions()
		opts.Values, opts.Threshold = series(1000)
		opts.UpdateInterval = time.Hour
		a, err := anim.New(opts)
		Expect(err).NotTo(HaveOccurred())
		r := &recorder{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(anim.Play(ctx, a, r)).To(MatchError(context.Canceled))
		Expect(r.frames).To(HaveLen(1))
		Expect(r.closed).To(Equal(1))
	})
})

var _ = Describe("Legend", func() {
	DescribeTable("entries",
		func(hide, std bool, want []string) {
			o := anim.DefaultOptions()
			o.HideClasses, o.ShowStd, o.StdWindowSize = hide, std, 20
			Expect(anim.Legend(o)).To(Equal(want))
		},
		Entry("single series", true, false, []string{"reconstruction error", "threshold"}),
		Entry("single series with std", true, true, []string{"reconstruction error", "threshold", "sliding window std (window size=20)"}),
		Entry("classes", false, false, []string{"normal reconstruction error", "anomaly reconstruction error", "threshold"}),
	)
})

var _ = Describe("FrameRate", func() {
	DescribeTable("rounds up to whole frames per second",
		func(interval time.Duration, want int) {
			Expect(anim.FrameRate(interval)).To(Equal(want))
		},
		Entry("default", 25*time.Millisecond, 40),
		Entry("demo", 20*time.Millisecond, 50),
		Entry("uneven", 30*time.Millisecond, 34),
		Entry("slow", 2*time.Second, 1),
	)
})
