package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"calm": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Idle.MaxSpeed = 0.12
		cfg.Physics.Active.MaxSpeed = 0.22
		cfg.Flight.Path.Rate = 0.25
		cfg.Scroll.Boost = 0.75
		cfg.Orientation.Smoothing = 0.03
		return cfg
	},
	"lively": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Idle = cfg.Physics.Active
		cfg.Physics.Active.MaxSpeed = 0.5
		cfg.Physics.Active.MaxForce = 0.05
		cfg.Scroll.Boost = 3
		cfg.Orientation.MaxBankDeg = 75
		return cfg
	},
	"no-intro": func() *Config {
		cfg := DefaultConfig()
		cfg.Intro.Enabled = false
		return cfg
	},
	"contained": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.TieBreak = "sum"
		cfg.Physics.BoundaryMaxForce = 0.08
		return cfg
	},
}

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
