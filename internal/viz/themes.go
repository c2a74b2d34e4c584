package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the player
type Theme struct {
	Name      string
	Title     lipgloss.Color
	Values    lipgloss.Color // values when classes are hidden
	Normal    lipgloss.Color
	Anomaly   lipgloss.Color
	Threshold lipgloss.Color
	Std       lipgloss.Color
	Axis      lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

// Available themes
var (
	ThemeMinimal = Theme{
		Name:      "minimal",
		Title:     lipgloss.Color("#ffffff"),
		Values:    lipgloss.Color("#aaaaaa"),
		Normal:    lipgloss.Color("#00cc44"),
		Anomaly:   lipgloss.Color("#ff3333"),
		Threshold: lipgloss.Color("#ffffff"),
		Std:       lipgloss.Color("#0088ff"),
		Axis:      lipgloss.Color("#555555"),
		Text:      lipgloss.Color("#dddddd"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Title:     lipgloss.Color("#ff00ff"),
		Values:    lipgloss.Color("#00ffff"),
		Normal:    lipgloss.Color("#00ffff"),
		Anomaly:   lipgloss.Color("#ff00ff"),
		Threshold: lipgloss.Color("#ffff00"),
		Std:       lipgloss.Color("#ff8800"),
		Axis:      lipgloss.Color("#444466"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Title:     lipgloss.Color("#88ff88"),
		Values:    lipgloss.Color("#00cc00"),
		Normal:    lipgloss.Color("#00cc00"),
		Anomaly:   lipgloss.Color("#ffff00"),
		Threshold: lipgloss.Color("#88ff88"),
		Std:       lipgloss.Color("#008800"),
		Axis:      lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#007700"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Title:     lipgloss.Color("#ffd700"),
		Values:    lipgloss.Color("#00a8cc"),
		Normal:    lipgloss.Color("#00ff88"),
		Anomaly:   lipgloss.Color("#ff4444"),
		Threshold: lipgloss.Color("#e0f0ff"),
		Std:       lipgloss.Color("#0077be"),
		Axis:      lipgloss.Color("#4488aa"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Title:     lipgloss.Color("#ff9ff3"),
		Values:    lipgloss.Color("#feca57"),
		Normal:    lipgloss.Color("#5fd068"),
		Anomaly:   lipgloss.Color("#ff4757"),
		Threshold: lipgloss.Color("#fff5f5"),
		Std:       lipgloss.Color("#ff9ff3"),
		Axis:      lipgloss.Color("#8b6b8c"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	// All available themes
	Themes = []Theme{
		ThemeMinimal,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
