package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	// Classes shown and the y axis following the threshold.
	"demo": func() *Config {
		cfg := DefaultConfig()
		cfg.UpdateInterval = 20
		cfg.HideClasses = false
		cfg.AdjustYToThreshold = true
		cfg.StdWindowSize = 20
		return cfg
	},
	"fast": func() *Config {
		cfg := DefaultConfig()
		cfg.WindowSize = 150
		cfg.UpdateInterval = 10
		cfg.ShowStd = false
		return cfg
	},
	"wide": func() *Config {
		cfg := DefaultConfig()
		cfg.WindowSize = 1000
		cfg.StdWindowSize = 100
		cfg.AdjustYToThreshold = true
		cfg.Export.WidthIn = 16
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
