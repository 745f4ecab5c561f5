package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"thawlab/internal/grid"
	"thawlab/internal/thermal"
)

// Defaults match the gel-pack study: a 4x6x3 cm block with the thermal
// properties of water-based gel, cooling at h=10 W/m²K.
const (
	DefaultSpecificHeat = 4.0  // J/(g·°C)
	DefaultDensity      = 1.04 // g/cm³
	DefaultWidth        = 4.0  // cm
	DefaultLength       = 6.0  // cm
	DefaultHeight       = 3.0  // cm
	DefaultHeatTransfer = 10.0 // W/m²K
	DefaultHorizon      = 10000.0
	DefaultSteps        = 1000
	DefaultSamples      = 100
)

type Config struct {
	Body         BodyConfig  `yaml:"body" json:"body"`
	HeatTransfer float64     `yaml:"heat_transfer" json:"heat_transfer"`
	Horizon      float64     `yaml:"horizon" json:"horizon"`
	Steps        int         `yaml:"steps" json:"steps"`
	Samples      int         `yaml:"samples" json:"samples"`
	Tolerance    float64     `yaml:"tolerance" json:"tolerance"`
	Integrator   string      `yaml:"integrator" json:"integrator"`
	Workers      int         `yaml:"workers" json:"workers"`
	InitRange    RangeConfig `yaml:"init_range" json:"init_range"`
	AmbientRange RangeConfig `yaml:"ambient_range" json:"ambient_range"`
}

type BodyConfig struct {
	Width        float64 `yaml:"width" json:"width"`
	Length       float64 `yaml:"length" json:"length"`
	Height       float64 `yaml:"height" json:"height"`
	Density      float64 `yaml:"density" json:"density"`
	SpecificHeat float64 `yaml:"specific_heat" json:"specific_heat"`
}

type RangeConfig struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

func DefaultConfig() *Config {
	return &Config{
		Body: BodyConfig{
			Width:        DefaultWidth,
			Length:       DefaultLength,
			Height:       DefaultHeight,
			Density:      DefaultDensity,
			SpecificHeat: DefaultSpecificHeat,
		},
		HeatTransfer: DefaultHeatTransfer,
		Horizon:      DefaultHorizon,
		Steps:        DefaultSteps,
		Samples:      DefaultSamples,
		Tolerance:    grid.DefaultTolerance,
		Integrator:   "rk4",
		InitRange:    RangeConfig{Low: 0, High: 5},
		AmbientRange: RangeConfig{Low: 5, High: 21},
	}
}

// Load reads a yaml file over the defaults, so partial files only
// override what they name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// ToGrid converts to the simulator's configuration. Validation happens
// in grid.New, not here.
func (c *Config) ToGrid() grid.Config {
	return grid.Config{
		Body: thermal.Body{
			Width:        c.Body.Width,
			Length:       c.Body.Length,
			Height:       c.Body.Height,
			Density:      c.Body.Density,
			SpecificHeat: c.Body.SpecificHeat,
		},
		HeatTransferCoeff: c.HeatTransfer,
		Horizon:           c.Horizon,
		Steps:             c.Steps,
		InitRange:         grid.Range{Low: c.InitRange.Low, High: c.InitRange.High},
		AmbientRange:      grid.Range{Low: c.AmbientRange.Low, High: c.AmbientRange.High},
		Samples:           c.Samples,
		Tolerance:         c.Tolerance,
		Workers:           c.Workers,
	}
}
