package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/anomview/internal/anim"
	"github.com/san-kum/anomview/internal/config"
	"github.com/san-kum/anomview/internal/export"
	"github.com/san-kum/anomview/internal/logging"
	"github.com/san-kum/anomview/internal/metrics"
	"github.com/san-kum/anomview/internal/source"
	"github.com/san-kum/anomview/internal/viz"
)

var (
	// Config file and preset
	configFile string
	preset     string
	// Logging
	logLevel string
	logFile  string
	// Animation options
	windowSize  int
	interval    int
	start       int
	hideClasses bool
	adjustY     bool
	showStd     bool
	stdWindow   int
	theme       string
	// Player
	exitAtEnd  bool
	recordPath string
	// Export figure
	fps      int
	widthIn  float64
	heightIn float64
	dpi      int
	// Plot size
	plotHeight int
	plotWidth  int
	// Synthetic data
	samples int
	seed    int64
)

// main registers the anomview commands and flags and executes the root
// command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "anomview",
		Short:        "sliding window animation of reconstruction errors",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")

	playCmd := &cobra.Command{
		Use:   "play [data]",
		Short: "play the animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addOptionFlags(playCmd)
	playCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	playCmd.Flags().BoolVar(&exitAtEnd, "exit-at-end", false, "quit when the last sample is shown")
	playCmd.Flags().StringVar(&recordPath, "record", "anomview.gif", "output of the g (record) key")
	addFigureFlags(playCmd)

	exportCmd := &cobra.Command{
		Use:   "export [data] [output]",
		Short: "render the animation to a GIF or a PNG sequence",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runExport,
	}
	addOptionFlags(exportCmd)
	addFigureFlags(exportCmd)
	exportCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default derived from the update interval)")

	plotCmd := &cobra.Command{
		Use:   "plot [data]",
		Short: "plot the whole series and threshold",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height in rows")
	plotCmd.Flags().IntVar(&plotWidth, "width", 100, "plot width in columns")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	addOptionFlags(initCmd)

	generateCmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "write a synthetic series with labelled anomalies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().IntVar(&samples, "samples", 3000, "number of samples")
	generateCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(playCmd, exportCmd, plotCmd, presetsCmd, initCmd, generateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addOptionFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().IntVar(&windowSize, "window", d.WindowSize, "animation window size in samples")
	cmd.Flags().IntVar(&interval, "interval", d.UpdateInterval, "update interval in ms")
	cmd.Flags().IntVar(&start, "start", d.Start, "first sample to show")
	cmd.Flags().BoolVar(&hideClasses, "hide-classes", d.HideClasses, "draw all values in one color")
	cmd.Flags().BoolVar(&adjustY, "adjust-y", d.AdjustYToThreshold, "fit the y axis to threshold and std too")
	cmd.Flags().BoolVar(&showStd, "show-std", d.ShowStd, "draw the sliding window std")
	cmd.Flags().IntVar(&stdWindow, "std-window", d.StdWindowSize, "sliding window std size")
}

func addFigureFlags(cmd *cobra.Command) {
	d := config.DefaultConfig().Export
	cmd.Flags().Float64Var(&widthIn, "width-in", d.WidthIn, "figure width in inches")
	cmd.Flags().Float64Var(&heightIn, "height-in", d.HeightIn, "figure height in inches")
	cmd.Flags().IntVar(&dpi, "dpi", d.DPI, "figure resolution")
}

// loadConfig resolves the settings for cmd: preset, then config file, then
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	// Config file overrides preset
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	f := cmd.Flags()
	if f.Changed("window") {
		cfg.WindowSize = windowSize
	}
	if f.Changed("interval") {
		cfg.UpdateInterval = interval
	}
	if f.Changed("start") {
		cfg.Start = start
	}
	if f.Changed("hide-classes") {
		cfg.HideClasses = hideClasses
	}
	if f.Changed("adjust-y") {
		cfg.AdjustYToThreshold = adjustY
	}
	if f.Changed("show-std") {
		cfg.ShowStd = showStd
	}
	if f.Changed("std-window") {
		cfg.StdWindowSize = stdWindow
	}
	if f.Changed("theme") {
		cfg.Theme = theme
	}
	if f.Changed("fps") {
		cfg.Export.FPS = fps
	}
	if f.Changed("width-in") {
		cfg.Export.WidthIn = widthIn
	}
	if f.Changed("height-in") {
		cfg.Export.HeightIn = heightIn
	}
	if f.Changed("dpi") {
		cfg.Export.DPI = dpi
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSeries reads the data file named by the first argument, or by the
// config when no argument was given.
func loadSeries(cfg *config.Config, args []string, log *slog.Logger) (*source.Series, error) {
	path := cfg.Data
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("no data file: pass one as argument or set data in the config")
	}
	s, err := source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Info("series loaded", "path", path, "samples", s.Len(), "labels", len(s.ClassLabels) > 0)
	return s, nil
}

func exportSettings(cfg *config.Config) export.Settings {
	s := export.DefaultSettings(cfg.Interval())
	if cfg.Export.FPS > 0 {
		s.FrameRate = cfg.Export.FPS
	}
	s.Figure = export.Figure{WidthIn: cfg.Export.WidthIn, HeightIn: cfg.Export.HeightIn, DPI: cfg.Export.DPI}
	return s
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the player, so logs only go to a file.
	log, closer, err := logging.Open(logFile, logLevel, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	series, err := loadSeries(cfg, args, log)
	if err != nil {
		return err
	}

	vc := viz.DefaultConfig(cfg.Interval())
	vc.Theme = cfg.Theme
	vc.RecordPath = recordPath
	vc.Export = exportSettings(cfg)
	vc.ExitAtEnd = exitAtEnd
	vc.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return viz.Play(ctx, cfg.AnimOptions(series), vc)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.Open(logFile, logLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	series, err := loadSeries(cfg, args, log)
	if err != nil {
		return err
	}
	out := cfg.Export.Output
	if len(args) > 1 {
		out = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := export.Export(ctx, cfg.AnimOptions(series), out, exportSettings(cfg), log)
	if err != nil {
		return fmt.Errorf("export failed after %d frames: %w", n, err)
	}
	fmt.Printf("wrote %d frames to %s\n", n, out)
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.Open(logFile, logLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	series, err := loadSeries(cfg, args, log)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return anim.ErrNoSamples
	}
	if len(series.Threshold) != series.Len() {
		return fmt.Errorf("%w: %d values, %d thresholds", anim.ErrLengthMismatch, series.Len(), len(series.Threshold))
	}

	labelled := len(series.ClassLabels) > 0
	summary := metrics.Summarize(series.Values, series.Threshold, series.ClassLabels, metrics.Default(labelled)...)

	fmt.Printf("samples: %d\n", series.Len())
	for _, name := range metrics.Names(summary) {
		fmt.Printf("%s: %.4f\n", name, summary[name])
	}
	fmt.Println()

	graph := asciigraph.PlotMany([][]float64{series.Values, series.Threshold},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("reconstruction error (green) and threshold (red)"),
	)
	fmt.Println(graph)
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "anomview.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote config to %s\n", path)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := "anomview_demo.csv"
	if len(args) > 0 {
		path = args[0]
	}
	if samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", samples)
	}
	s := source.Synthetic(samples, seed)
	if err := source.Save(path, s); err != nil {
		return err
	}
	labelled := 0
	for _, l := range s.ClassLabels {
		labelled += l
	}
	fmt.Printf("wrote %d samples (%d labelled anomalies) to %s\n", s.Len(), labelled, path)
	return nil
}
