package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the lipgloss styles derived from a Theme.
type styles struct {
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	muted     lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
	alert     lipgloss.Style
	help      lipgloss.Style
	panel     lipgloss.Style
	layers    [layerCount]lipgloss.Style
}

func newStyles(t Theme, hideClasses bool) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	s := styles{
		title:     fg(t.Title).Bold(true),
		label:     fg(t.Muted).Width(11),
		value:     fg(t.Text),
		muted:     fg(t.Muted),
		running:   fg(t.Normal).Bold(true),
		paused:    fg(t.Threshold).Bold(true),
		recording: fg(t.Anomaly).Bold(true).Blink(true),
		alert:     fg(t.Anomaly).Bold(true),
		help:      fg(t.Muted).Italic(true),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Axis).Padding(0, 1),
	}
	s.layers[LayerAxis] = fg(t.Axis)
	s.layers[LayerStd] = fg(t.Std)
	s.layers[LayerThreshold] = fg(t.Threshold)
	s.layers[LayerValues] = fg(t.Values)
	if !hideClasses {
		s.layers[LayerValues] = fg(t.Normal)
	}
	s.layers[LayerAnomaly] = fg(t.Anomaly)
	return s
}

// ProgressBar renders a progress bar of the given width
func ProgressBar(percent float64, width int, style lipgloss.Style) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Separator renders a horizontal rule
func Separator(width int, style lipgloss.Style) string {
	if width < 8 {
		return style.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return style.Render(left + " ◆ " + right)
}
