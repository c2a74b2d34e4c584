package viz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/anomview/internal/anim"
	"github.com/san-kum/anomview/internal/export"
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	minWidth      = 20
	minHeight     = 5
	gutterWidth   = 10
	// rows used by everything except the canvas
	chromeHeight = 10
)

// Config holds the presentation settings of the player.
type Config struct {
	Theme string
	// Width and Height are the canvas size in terminal cells. Zero follows
	// the terminal size.
	Width, Height int
	// RecordPath is where the g key writes its GIF.
	RecordPath string
	// SnapshotDir receives PNG snapshots taken with the s key.
	SnapshotDir string
	// Export sets the raster size used for recordings and snapshots.
	Export export.Settings
	// ExitAtEnd quits the program when the stream ends instead of holding
	// the last frame.
	ExitAtEnd bool
	Logger    *slog.Logger
}

func DefaultConfig(interval time.Duration) Config {
	return Config{
		Theme:       ThemeMinimal.Name,
		RecordPath:  "anomview.gif",
		SnapshotDir: ".",
		Export:      export.DefaultSettings(interval),
	}
}

type TickMsg time.Time

// Model is the bubbletea model of the player. It owns the animator and the
// canvas; ticks arrive sequentially so neither needs locking.
type Model struct {
	anim   *anim.Animator
	opts   anim.Options
	cfg    Config
	log    *slog.Logger
	frame  anim.Frame
	next   int
	total  int
	canvas *Canvas
	theme  Theme
	styles styles
	legend []string

	running  bool
	done     bool
	showHelp bool
	message  string
	err      error

	raster   *export.Rasterizer
	rec      export.Encoder
	recorded int
}

// NewModel primes a and returns a model ready to advance from frame 1.
func NewModel(a *anim.Animator, cfg Config) Model {
	opts := a.Options()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Export.FrameRate <= 0 {
		cfg.Export = export.DefaultSettings(opts.UpdateInterval)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	theme := GetTheme(cfg.Theme)

	m := Model{
		anim:    a,
		opts:    opts,
		cfg:     cfg,
		log:     cfg.Logger,
		total:   opts.FrameCount() - 1,
		canvas:  NewCanvas(max(w, minWidth), max(h, minHeight)),
		theme:   theme,
		styles:  newStyles(theme, opts.HideClasses),
		legend:  anim.Legend(opts),
		running: true,
		raster:  export.NewRasterizer(opts, cfg.Export),
	}
	m.restart()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.UpdateInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Frame returns the frame currently on screen.
func (m Model) Frame() anim.Frame { return m.frame }

// Done reports whether the stream has ended.
func (m Model) Done() bool { return m.done }

// Running reports whether playback is not paused.
func (m Model) Running() bool { return m.running }

func (m Model) Theme() Theme { return m.theme }

func (m Model) Err() error { return m.err }

// Update handles input events and advances the animation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			wasDone := m.done
			m.restart()
			if wasDone {
				return m, m.tick()
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme, m.opts.HideClasses)
		case "g":
			if m.rec != nil {
				m.stopRecording()
			} else {
				m.startRecording()
			}
		case "s":
			m.snapshot()
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.running {
			if err := m.step(); err != nil {
				m.stopRecording()
				if !errors.Is(err, anim.ErrEndOfStream) {
					m.err = err
					m.log.Error("advance failed", "frame", m.next, "err", err)
					return m, tea.Quit
				}
				m.done = true
				m.log.Info("end of stream", "frames", m.next)
				if m.cfg.ExitAtEnd {
					return m, tea.Quit
				}
				return m, nil
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() error {
	f, err := m.anim.Advance(m.next)
	if err != nil {
		return err
	}
	m.frame = f
	m.next++
	m.draw()
	if m.rec != nil {
		m.capture()
	}
	return nil
}

// restart primes the animator again and shows the masked initial frame.
func (m *Model) restart() {
	m.frame = m.anim.Prime()
	m.next = 1
	m.done = false
	m.draw()
}

func (m *Model) draw() { drawFrame(m.canvas, m.frame, m.opts.HideClasses) }

func (m *Model) resize(w, h int) {
	if m.cfg.Width > 0 && m.cfg.Height > 0 {
		return
	}
	cw, ch := m.canvas.Width, m.canvas.Height
	if m.cfg.Width <= 0 {
		cw = max(w-gutterWidth-4, minWidth)
	}
	if m.cfg.Height <= 0 {
		ch = max(h-chromeHeight, minHeight)
	}
	if cw == m.canvas.Width && ch == m.canvas.Height {
		return
	}
	m.canvas = NewCanvas(cw, ch)
	m.draw()
}

func (m *Model) startRecording() {
	enc, err := export.NewEncoder(m.cfg.RecordPath, m.cfg.Export)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.rec, m.recorded = enc, 0
	m.message = "recording to " + m.cfg.RecordPath
	m.log.Info("recording started", "path", m.cfg.RecordPath)
	m.capture()
}

func (m *Model) capture() {
	img, err := m.raster.Image(m.frame)
	if err == nil {
		err = m.rec.Add(img)
	}
	if err != nil {
		m.message = "recording failed: " + err.Error()
		m.log.Error("recording failed", "err", err)
		if aerr := m.rec.Abort(); aerr != nil {
			m.log.Warn("could not remove partial recording", "path", m.cfg.RecordPath, "err", aerr)
		}
		m.rec = nil
		return
	}
	m.recorded++
}

func (m *Model) stopRecording() {
	if m.rec == nil {
		return
	}
	if err := m.rec.Close(); err != nil {
		m.message = "saving recording failed: " + err.Error()
		m.log.Error("saving recording failed", "path", m.cfg.RecordPath, "err", err)
	} else {
		m.message = fmt.Sprintf("saved %d frames to %s", m.recorded, m.cfg.RecordPath)
		m.log.Info("recording saved", "path", m.cfg.RecordPath, "frames", m.recorded)
	}
	m.rec = nil
}

func (m *Model) snapshot() {
	path := filepath.Join(m.cfg.SnapshotDir, fmt.Sprintf("anomview_%06d.png", m.frame.Sample))
	img, err := m.raster.Image(m.frame)
	if err == nil {
		err = export.SavePNG(path, img)
	}
	if err != nil {
		m.message = "snapshot failed: " + err.Error()
		m.log.Error("snapshot failed", "path", path, "err", err)
		return
	}
	m.message = "snapshot saved to " + path
	m.log.Info("snapshot saved", "path", path)
}

func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	status := st.running.Render("PLAYING")
	switch {
	case m.done:
		status = st.muted.Render("FINISHED")
	case !m.running:
		status = st.paused.Render("PAUSED")
	}
	if m.rec != nil {
		status += "  " + st.recording.Render(fmt.Sprintf("● REC %d", m.recorded))
	}
	s.WriteString(st.title.Render("ANOMVIEW") + "  " + status + "\n")

	s.WriteString(m.plotView() + "\n")
	s.WriteString(m.legendView() + "\n")
	s.WriteString(m.statusView() + "\n")

	done := 0.0
	if m.total > 0 {
		done = float64(m.frame.Index+1) / float64(m.total)
	}
	s.WriteString(ProgressBar(done, m.canvas.Width+gutterWidth, st.layers[LayerValues]) + "\n")
	if m.message != "" {
		s.WriteString(st.value.Render(m.message) + "\n")
	}
	s.WriteString(Separator(m.canvas.Width+gutterWidth, st.muted) + "\n")
	s.WriteString(st.help.Render("SP:Pause R:Restart Q:Quit T:Theme G:Record S:Snapshot ?:Help"))

	if m.showHelp {
		return st.panel.Render(helpText) + "\n" + s.String()
	}
	return s.String()
}

const helpText = `KEYBOARD SHORTCUTS

Space  Pause/Resume playback
R      Restart from the first sample
Q      Quit
T      Cycle themes
G      Toggle GIF recording
S      Save a PNG snapshot
?      Toggle this help`

// plotView renders the canvas with y labels in a left gutter and x labels
// underneath.
func (m Model) plotView() string {
	st := m.styles
	rows := strings.Split(strings.TrimSuffix(m.canvas.Render(st.layers), "\n"), "\n")
	y := m.frame.YAxis

	var s strings.Builder
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = fmt.Sprintf("%.3g", y.Max)
		case len(rows) / 2:
			label = fmt.Sprintf("%.3g", y.Min+y.Span()/2)
		case len(rows) - 1:
			label = fmt.Sprintf("%.3g", y.Min)
		}
		s.WriteString(st.muted.Render(fmt.Sprintf("%*s ", gutterWidth-1, label)))
		s.WriteString(row + "\n")
	}

	x := m.frame.XAxis
	left, right := fmt.Sprintf("%.0f", x.Min), fmt.Sprintf("%.0f", x.Max)
	pad := max(m.canvas.Width-len(left)-len(right), 1)
	s.WriteString(strings.Repeat(" ", gutterWidth) + st.muted.Render(left+strings.Repeat(" ", pad)+right))
	return s.String()
}

func (m Model) legendView() string {
	st := m.styles
	layers := []Layer{LayerValues, LayerThreshold}
	if !m.opts.HideClasses {
		layers = []Layer{LayerValues, LayerAnomaly, LayerThreshold}
	}
	if m.opts.ShowStd {
		layers = append(layers, LayerStd)
	}

	parts := make([]string, 0, len(m.legend))
	for i, label := range m.legend {
		swatch := "━"
		if layers[i] == LayerValues || layers[i] == LayerAnomaly {
			swatch = "●"
		}
		parts = append(parts, st.layers[layers[i]].Render(swatch)+" "+st.value.Render(label))
	}
	return strings.Repeat(" ", gutterWidth) + strings.Join(parts, "   ")
}

func (m Model) statusView() string {
	st := m.styles
	f := m.frame
	value, threshold, anomalous := f.Latest()

	var s strings.Builder
	s.WriteString(st.label.Render("sample") + st.value.Render(fmt.Sprintf("%-8d", f.Sample)))
	s.WriteString(st.label.Render("frame") + st.value.Render(fmt.Sprintf("%d/%d", f.Index, m.total)) + "\n")
	s.WriteString(st.label.Render("value") + st.value.Render(fmt.Sprintf("%-8.4f", value)))
	s.WriteString(st.label.Render("threshold") + st.value.Render(fmt.Sprintf("%.4f", threshold)))
	switch {
	case anomalous:
		s.WriteString("  " + st.alert.Render("ANOMALY"))
	case value > threshold:
		s.WriteString("  " + st.alert.Render("ABOVE THRESHOLD"))
	}
	return lipgloss.NewStyle().PaddingLeft(gutterWidth).Render(s.String())
}

// Play runs the interactive player until the user quits, the stream ends
// with cfg.ExitAtEnd set, or ctx is done.
func Play(ctx context.Context, opts anim.Options, cfg Config) error {
	a, err := anim.New(opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(NewModel(a, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.err
	}
	return nil
}
