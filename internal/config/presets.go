package config

import "sort"

var Presets = map[string]func() *Config{
	// CPU generator settings.
	"classic": func() *Config {
		return DefaultConfig()
	},
	// GPU generator settings: higher fidelity, mode pre-fill and a palette
	// starting at the lowest observed step.
	"gpu": func() *Config {
		cfg := DefaultConfig()
		cfg.Fidelity = 180
		cfg.Backend = "cuda"
		cfg.ModeFill = true
		cfg.CompactPalette = true
		return cfg
	},
	"fast": func() *Config {
		cfg := DefaultConfig()
		cfg.Fidelity = 60
		cfg.RenderScale = 0.25
		cfg.Zoom = RangeConfig{Min: 2, Max: 40}
		return cfg
	},
	"detailed": func() *Config {
		cfg := DefaultConfig()
		cfg.Fidelity = 500
		cfg.RenderScale = 1
		cfg.Zoom = RangeConfig{Min: 50, Max: 5000}
		cfg.ModeFill = true
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
