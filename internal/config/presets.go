package config

import "sort"

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

// Presets are named studies. "gel" is the original thaw study of a
// refrigerated gel pack warming to room temperature; "meat" shifts both
// ranges toward thawing frozen food on a counter; "iron" is a solid
// iron cube under forced convection.
var Presets = map[string]*Config{
	"gel": preset(func(c *Config) {}),
	"meat": preset(func(c *Config) {
		c.InitRange = RangeConfig{Low: 0, High: 10}
		c.AmbientRange = RangeConfig{Low: 15, High: 25}
	}),
	"iron": preset(func(c *Config) {
		c.Body = BodyConfig{
			Width:        10,
			Length:       10,
			Height:       10,
			Density:      7.87,
			SpecificHeat: 0.449,
		}
		c.HeatTransfer = 60
		c.Horizon = 3600
		c.Steps = 100
		c.InitRange = RangeConfig{Low: 0, High: 15}
		c.AmbientRange = RangeConfig{Low: 18, High: 25}
	}),
	"quick": preset(func(c *Config) {
		c.Samples = 20
		c.Steps = 200
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
