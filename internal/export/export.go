package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/san-kum/anomview/internal/anim"
)

// framesPerWorker sets how many frames the sink collects per worker before
// rasterizing them as one batch.
const framesPerWorker = 8

// gifMemoryWarn is the buffered paletted size above which a GIF export logs
// a warning. GIFEncoder keeps every frame in memory until Close.
const gifMemoryWarn = 1 << 30

// Sink is an anim.Renderer that rasterizes frames into an Encoder. Frames are
// collected into batches, rasterized concurrently and encoded in order.
type Sink struct {
	ctx     context.Context
	raster  *Rasterizer
	enc     Encoder
	log     *slog.Logger
	workers int
	pending []anim.Frame
	frames  int
	err     error
}

func NewSink(ctx context.Context, raster *Rasterizer, enc Encoder, workers int, log *slog.Logger) *Sink {
	workers = max(workers, 1)
	return &Sink{
		ctx:     ctx,
		raster:  raster,
		enc:     enc,
		log:     log,
		workers: workers,
		pending: make([]anim.Frame, 0, workers*framesPerWorker),
	}
}

func (s *Sink) Render(f anim.Frame) error {
	if s.err != nil {
		return s.err
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return err
	}
	s.pending = append(s.pending, f)
	if len(s.pending) < cap(s.pending) {
		return nil
	}
	s.err = s.flush()
	return s.err
}

// Frames returns the number of frames handed to the encoder so far.
func (s *Sink) Frames() int { return s.frames }

func (s *Sink) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	imgs := make([]*image.RGBA, len(s.pending))
	errs := make([]error, len(s.pending))
	parallelFor(len(s.pending), s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			imgs[i], errs[i] = s.raster.Image(s.pending[i])
		}
	})

	for i, img := range imgs {
		f := s.pending[i]
		if errs[i] != nil {
			return errs[i]
		}
		if err := s.enc.Add(img); err != nil {
			return fmt.Errorf("export: encode frame %d: %w", f.Index, err)
		}
		s.frames++
		if s.frames%100 == 0 {
			s.log.Debug("frames encoded", "frames", s.frames, "sample", f.Sample)
		}
	}
	s.pending = s.pending[:0]
	return nil
}

// Close encodes any pending frames and finalizes the encoder. If rendering
// failed or ctx is done, the partial output is discarded instead.
func (s *Sink) Close() error {
	if s.err == nil {
		s.err = s.flush()
	}
	if s.err != nil {
		s.pending = s.pending[:0]
		if aerr := s.enc.Abort(); aerr != nil {
			return errors.Join(s.err, aerr)
		}
		return s.err
	}
	return s.enc.Close()
}

// Export renders the whole animation for opts into path and returns the
// number of frames written. It builds its own Animator, so it never shares
// buffers with a running player.
func Export(ctx context.Context, opts anim.Options, path string, settings Settings, log *slog.Logger) (int, error) {
	if settings.FrameRate <= 0 {
		settings.FrameRate = anim.FrameRate(opts.UpdateInterval)
	}
	a, err := anim.New(opts)
	if err != nil {
		return 0, err
	}
	enc, err := NewEncoder(path, settings)
	if err != nil {
		return 0, err
	}

	w, h := settings.Figure.Pixels()
	log.Info("export started", "path", path, "fps", settings.FrameRate, "width", w, "height", h,
		"frames", opts.FrameCount()-1, "workers", max(settings.Workers, 1))
	if _, ok := enc.(*GIFEncoder); ok {
		if need := int64(opts.FrameCount()) * int64(w) * int64(h); need > gifMemoryWarn {
			log.Warn("gif export buffers every frame in memory", "bytes", need,
				"hint", "export a png sequence or lower the dpi")
		}
	}
	start := time.Now()

	sink := NewSink(ctx, NewRasterizer(opts, settings), enc, settings.Workers, log)
	if _, err := anim.Drive(a, sink); err != nil {
		if aerr := enc.Abort(); aerr != nil {
			log.Warn("could not remove partial export", "path", path, "err", aerr)
		}
		return sink.Frames(), err
	}
	log.Info("export finished", "path", path, "frames", sink.Frames(), "elapsed", time.Since(start).Round(time.Millisecond))
	return sink.Frames(), nil
}
