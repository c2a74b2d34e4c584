package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/anomview/internal/anim"
	"github.com/san-kum/anomview/internal/source"
)

const (
	DefaultFigureWidth  = 10.0
	DefaultFigureHeight = 4.0
	DefaultDPI          = 100
	DefaultTheme        = "minimal"
)

type Config struct {
	Data               string       `yaml:"data"`
	WindowSize         int          `yaml:"animation_window_size"`
	UpdateInterval     int          `yaml:"update_interval"`
	Start              int          `yaml:"start"`
	HideClasses        bool         `yaml:"hide_classes"`
	AdjustYToThreshold bool         `yaml:"adjust_y_to_threshold"`
	ShowStd            bool         `yaml:"show_std"`
	StdWindowSize      int          `yaml:"std_window_size"`
	Theme              string       `yaml:"theme"`
	Export             ExportConfig `yaml:"export"`
}

type ExportConfig struct {
	Output   string  `yaml:"output"`
	FPS      int     `yaml:"fps"`
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
	DPI      int     `yaml:"dpi"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowSize:     anim.DefaultWindowSize,
		UpdateInterval: int(anim.DefaultUpdateInterval / time.Millisecond),
		Start:          anim.DefaultStart,
		HideClasses:    true,
		ShowStd:        true,
		StdWindowSize:  anim.DefaultStdWindowSize,
		Theme:          DefaultTheme,
		Export: ExportConfig{
			Output:   "animation.gif",
			WidthIn:  DefaultFigureWidth,
			HeightIn: DefaultFigureHeight,
			DPI:      DefaultDPI,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that do not depend on the series.
func (c *Config) Validate() error {
	switch {
	case c.WindowSize <= 0:
		return fmt.Errorf("animation_window_size must be positive, got %d", c.WindowSize)
	case c.UpdateInterval <= 0:
		return fmt.Errorf("update_interval must be positive, got %d", c.UpdateInterval)
	case c.Start < 0:
		return fmt.Errorf("start must not be negative, got %d", c.Start)
	case c.StdWindowSize <= 0:
		return fmt.Errorf("std_window_size must be positive, got %d", c.StdWindowSize)
	case c.Export.FPS < 0:
		return fmt.Errorf("export.fps must not be negative, got %d", c.Export.FPS)
	case c.Export.WidthIn <= 0 || c.Export.HeightIn <= 0:
		return fmt.Errorf("export figure size must be positive, got %gx%g", c.Export.WidthIn, c.Export.HeightIn)
	case c.Export.DPI <= 0:
		return fmt.Errorf("export.dpi must be positive, got %d", c.Export.DPI)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Millisecond
}

// AnimOptions combines the presentation settings with a loaded series.
func (c *Config) AnimOptions(s *source.Series) anim.Options {
	opts := anim.DefaultOptions()
	if s != nil {
		opts.Values = s.Values
		opts.Threshold = s.Threshold
		opts.ClassLabels = s.ClassLabels
	}
	opts.WindowSize = c.WindowSize
	opts.UpdateInterval = c.Interval()
	opts.Start = c.Start
	opts.HideClasses = c.HideClasses
	opts.AdjustYToThreshold = c.AdjustYToThreshold
	opts.ShowStd = c.ShowStd
	opts.StdWindowSize = c.StdWindowSize
	return opts
}
