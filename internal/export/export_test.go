package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/anomview/internal/anim"
)

func testOptions(n int) anim.Options {
	opts := anim.DefaultOptions()
	opts.Values = make([]float64, n)
	opts.Threshold = make([]float64, n)
	opts.ClassLabels = make([]int, n)
	for i := range opts.Values {
		opts.Values[i] = 0.1 + 0.05*float64(i%4)
		opts.Threshold[i] = 0.3
		if i%5 == 3 {
			opts.ClassLabels[i] = 1
			opts.Values[i] = 0.5
		}
	}
	opts.WindowSize = 5
	opts.StdWindowSize = 3
	opts.HideClasses = false
	return opts
}

func testSettings() Settings {
	s := DefaultSettings(anim.DefaultUpdateInterval)
	s.Figure.DPI = 60
	return s
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings(25 * time.Millisecond)
	if s.FrameRate != 40 {
		t.Errorf("expected 40 fps, got %d", s.FrameRate)
	}
	if w, h := s.Figure.Pixels(); w != 1000 || h != 400 {
		t.Errorf("expected 1000x400, got %dx%d", w, h)
	}
	if s.delay() != 3 {
		t.Errorf("expected delay 3, got %d", s.delay())
	}
}

func TestSettings_Delay(t *testing.T) {
	tests := []struct {
		fps, want int
	}{
		{40, 3},
		{30, 3},
		{10, 10},
		{7, 14},
		{100, 1},
		{200, 1},
		{0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("fps=%d", tt.fps), func(t *testing.T) {
			if got := (Settings{FrameRate: tt.fps}).delay(); got != tt.want {
				t.Errorf("delay = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRasterizer_Image(t *testing.T) {
	opts := testOptions(12)
	s := testSettings()
	a, err := anim.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRasterizer(opts, s)

	frames := []anim.Frame{a.Prime()}
	for i := 1; i < 6; i++ {
		f, err := a.Advance(i)
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, f)
	}

	w, h := s.Figure.Pixels()
	for _, f := range frames {
		img, err := r.Image(f)
		if err != nil {
			t.Fatalf("frame %d: %v", f.Index, err)
		}
		if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
			t.Errorf("frame %d: size %dx%d, want %dx%d", f.Index, b.Dx(), b.Dy(), w, h)
		}
	}

	if _, err := r.Image(anim.Frame{}); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestRasterizer_Legend(t *testing.T) {
	opts := testOptions(4)
	r := NewRasterizer(opts, testSettings())
	if len(r.legend) != 4 {
		t.Fatalf("expected 4 legend entries, got %d", len(r.legend))
	}
	if r.legend[1].color != colorAnomaly {
		t.Error("second entry should use the anomaly color")
	}

	opts.HideClasses, opts.ShowStd = true, false
	r = NewRasterizer(opts, testSettings())
	if len(r.legend) != 2 || r.legend[0].color != colorSingle {
		t.Errorf("unexpected legend: %+v", r.legend)
	}
}

func TestExport_GIF(t *testing.T) {
	opts := testOptions(8)
	path := filepath.Join(t.TempDir(), "out.gif")

	n, err := Export(context.Background(), opts, path, testSettings(), discard())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if n != opts.FrameCount()-1 {
		t.Errorf("expected %d frames, got %d", opts.FrameCount()-1, n)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != n {
		t.Errorf("gif has %d frames, want %d", len(g.Image), n)
	}
	if g.Delay[0] != 3 {
		t.Errorf("gif delay = %d, want 3", g.Delay[0])
	}
}

func TestExport_Workers(t *testing.T) {
	for _, workers := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			opts := testOptions(30)
			s := testSettings()
			s.Workers = workers
			dir := filepath.Join(t.TempDir(), "frames")

			n, err := Export(context.Background(), opts, dir, s, discard())
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}
			if n != opts.FrameCount()-1 {
				t.Errorf("expected %d frames, got %d", opts.FrameCount()-1, n)
			}
			last := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", n-1))
			if _, err := os.Stat(last); err != nil {
				t.Errorf("last frame missing: %v", err)
			}
		})
	}
}

func TestParallelFor(t *testing.T) {
	tests := []struct {
		n, workers int
	}{
		{0, 4},
		{1, 4},
		{7, 3},
		{16, 4},
		{5, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/workers=%d", tt.n, tt.workers), func(t *testing.T) {
			seen := make([]int32, tt.n)
			parallelFor(tt.n, tt.workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Errorf("index %d visited %d times", i, c)
				}
			}
		})
	}
}

func TestExport_PNGSequence(t *testing.T) {
	opts := testOptions(5)
	dir := filepath.Join(t.TempDir(), "frames")

	n, err := Export(context.Background(), opts, dir, testSettings(), discard())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Errorf("expected %d files, got %d", n, len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_00000.png")); err != nil {
		t.Errorf("first frame missing: %v", err)
	}
}

func TestExport_Errors(t *testing.T) {
	tmp := t.TempDir()

	_, err := Export(context.Background(), testOptions(5), filepath.Join(tmp, "out.mp4"), testSettings(), discard())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	bad := testOptions(5)
	bad.Start = 9
	_, err = Export(context.Background(), bad, filepath.Join(tmp, "out.gif"), testSettings(), discard())
	if !errors.Is(err, anim.ErrStartOutOfRange) {
		t.Errorf("expected ErrStartOutOfRange, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Export(ctx, testOptions(5), filepath.Join(tmp, "cancelled.gif"), testSettings(), discard())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// cancelAfter cancels its context once n frames have been rendered.
type cancelAfter struct {
	*Sink
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Render(f anim.Frame) error {
	if c.n--; c.n == 0 {
		c.cancel()
	}
	return c.Sink.Render(f)
}

func TestSink_CancelDiscardsPartialOutput(t *testing.T) {
	s := testSettings()
	s.Workers = 1
	after := 3*framesPerWorker - 4

	for _, name := range []string{"out.gif", "frames"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			a, err := anim.New(testOptions(60))
			if err != nil {
				t.Fatal(err)
			}
			enc, err := NewEncoder(path, s)
			if err != nil {
				t.Fatal(err)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sink := NewSink(ctx, NewRasterizer(testOptions(60), s), enc, s.Workers, discard())

			_, err = anim.Drive(a, &cancelAfter{Sink: sink, n: after, cancel: cancel})
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if sink.Frames() < 2*framesPerWorker {
				t.Fatalf("expected at least %d frames encoded before cancel, got %d", 2*framesPerWorker, sink.Frames())
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("expected %s to be removed, stat returned %v", name, err)
			}
		})
	}
}

func TestGIFEncoder_AbortAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	enc := NewGIFEncoder(path, 3)
	if err := enc.Add(img); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	if err := enc.Abort(); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected gif to be removed, stat returned %v", err)
	}
}

func TestPNGSequence_AbortKeepsExistingDir(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	seq, err := NewPNGSequence(dir)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := seq.Add(img); err != nil {
			t.Fatal(err)
		}
	}
	if err := seq.Abort(); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("directory removed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "notes.txt" {
		t.Errorf("expected only notes.txt to remain, got %v", entries)
	}
}
