package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("export: unsupported output format")

// Encoder receives rendered frames in order. Close finalizes the output;
// Abort discards it, removing anything already written.
type Encoder interface {
	Add(img image.Image) error
	Close() error
	Abort() error
}

// NewEncoder picks an encoder from the output path: .gif writes an animated
// GIF, .png or an extensionless path writes a numbered PNG sequence into a
// directory.
func NewEncoder(path string, s Settings) (Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return NewGIFEncoder(path, s.delay()), nil
	case ".png":
		return NewPNGSequence(strings.TrimSuffix(path, filepath.Ext(path)))
	case "":
		return NewPNGSequence(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// GIFEncoder buffers paletted frames and writes the file on Close.
type GIFEncoder struct {
	path    string
	delay   int
	frames  []*image.Paletted
	written bool
}

func NewGIFEncoder(path string, delay int) *GIFEncoder {
	return &GIFEncoder{path: path, delay: delay}
}

func (e *GIFEncoder) Add(img image.Image) error {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	e.frames = append(e.frames, p)
	return nil
}

func (e *GIFEncoder) Frames() int { return len(e.frames) }

func (e *GIFEncoder) Close() error {
	if len(e.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range e.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, e.delay)
	}
	f, err := os.Create(e.path)
	if err != nil {
		return err
	}
	e.written = true
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return errors.Join(err, e.Abort())
	}
	e.frames = nil
	return f.Close()
}

// Abort drops the buffered frames and removes the file if Close wrote one.
func (e *GIFEncoder) Abort() error {
	e.frames = nil
	if !e.written {
		return nil
	}
	e.written = false
	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PNGSequence writes frame_00000.png, frame_00001.png, ... into dir.
type PNGSequence struct {
	dir     string
	created bool
	written []string
}

func NewPNGSequence(dir string) (*PNGSequence, error) {
	_, err := os.Stat(dir)
	created := os.IsNotExist(err)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSequence{dir: dir, created: created}, nil
}

func (s *PNGSequence) Add(img image.Image) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%05d.png", len(s.written)))
	if err := SavePNG(path, img); err != nil {
		return err
	}
	s.written = append(s.written, path)
	return nil
}

func (s *PNGSequence) Close() error { return nil }

// Abort removes the frames written so far, and dir if the sequence created
// it.
func (s *PNGSequence) Abort() error {
	var errs []error
	for _, path := range s.written {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	s.written = nil
	if s.created {
		if err := os.Remove(s.dir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SavePNG writes a single image to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
