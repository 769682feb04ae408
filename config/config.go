// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/habitat/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the run horizon, engine tuning and the species and habitats
// to pair up.
type Config struct {
	Years      int `yaml:"years" json:"years"`
	Iterations int `yaml:"iterations" json:"iterations"` // independent runs per species/habitat pair

	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Weather    WeatherConfig    `yaml:"weather" json:"weather"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks" json:"bookmarks"`

	Species  []SpeciesConfig `yaml:"species" json:"species"`
	Habitats []HabitatConfig `yaml:"habitats" json:"habitats"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" json:"-"`
}

// SimulationConfig holds engine parameters shared by every run.
type SimulationConfig struct {
	MaleRatio            float64 `yaml:"male_ratio" json:"male_ratio"`                         // probability a newborn is male
	Seed                 int64   `yaml:"seed" json:"seed"`                                     // base RNG seed (0 = time-based, chosen by the caller)
	StopOnExtinction     bool    `yaml:"stop_on_extinction" json:"stop_on_extinction"`         // end a run at the first empty month
	ResetClimateExposure bool    `yaml:"reset_climate_exposure" json:"reset_climate_exposure"` // clear hot/cold counters on a mild month
	MaxPopulation        int     `yaml:"max_population" json:"max_population"`                 // stop with an error when a run exceeds this (0 = unlimited)
	Parallel             int     `yaml:"parallel" json:"parallel"`                             // concurrent runs (0 = GOMAXPROCS)
}

// WeatherConfig holds monthly temperature fluctuation parameters.
type WeatherConfig struct {
	Fluctuation        float64 `yaml:"fluctuation" json:"fluctuation"`                 // offset range width in a normal month
	ExtremeFluctuation float64 `yaml:"extreme_fluctuation" json:"extreme_fluctuation"` // offset range width in an extreme month
	ExtremeChance      float64 `yaml:"extreme_chance" json:"extreme_chance"`           // probability of an extreme month
}

// BookmarksConfig holds population event detection thresholds.
type BookmarksConfig struct {
	HistorySize int            `yaml:"history_size" json:"history_size"`
	Crash       CrashConfig    `yaml:"crash" json:"crash"`
	Recovery    RecoveryConfig `yaml:"recovery" json:"recovery"`
	Stable      StableConfig   `yaml:"stable" json:"stable"`
}

// CrashConfig holds population crash detection parameters.
type CrashConfig struct {
	DropPercent float64 `yaml:"drop_percent" json:"drop_percent"` // fraction of the recent peak lost
	MinDrop     int     `yaml:"min_drop" json:"min_drop"`         // minimum animals lost
}

// RecoveryConfig holds population recovery detection parameters.
type RecoveryConfig struct {
	MinPopulation int `yaml:"min_population" json:"min_population"` // population at or below this counts as a bottleneck
	Multiplier    int `yaml:"multiplier" json:"multiplier"`
	MinFinal      int `yaml:"min_final" json:"min_final"`
}

// StableConfig holds stable population detection parameters.
type StableConfig struct {
	MinPopulation int     `yaml:"min_population" json:"min_population"`
	CVThreshold   float64 `yaml:"cv_threshold" json:"cv_threshold"` // coefficient of variation over the history window
	Months        int     `yaml:"months" json:"months"`             // consecutive stable months before triggering
}

// SpeciesConfig is one species entry.
type SpeciesConfig struct {
	Name       string            `yaml:"name" json:"name"`
	Attributes SpeciesAttributes `yaml:"attributes" json:"attributes"`
}

// SpeciesAttributes holds the required species parameters. Pointers
// distinguish a missing field from an explicit zero.
type SpeciesAttributes struct {
	LifeSpan                *int     `yaml:"life_span" json:"life_span"`
	MonthlyFoodConsumption  *float64 `yaml:"monthly_food_consumption" json:"monthly_food_consumption"`
	MonthlyWaterConsumption *float64 `yaml:"monthly_water_consumption" json:"monthly_water_consumption"`
	MinimumTemperature      *float64 `yaml:"minimum_temperature" json:"minimum_temperature"`
	MaximumTemperature      *float64 `yaml:"maximum_temperature" json:"maximum_temperature"`
	MinimumBreedingAge      *int     `yaml:"minimum_breeding_age" json:"minimum_breeding_age"`
	GestationMonths         *int     `yaml:"gestation_months" json:"gestation_months"`
}

// HabitatConfig is one habitat entry.
type HabitatConfig struct {
	Name               string             `yaml:"name" json:"name"`
	MonthlyFood        *float64           `yaml:"monthly_food" json:"monthly_food"`
	MonthlyWater       *float64           `yaml:"monthly_water" json:"monthly_water"`
	AverageTemperature map[string]float64 `yaml:"average_temperature" json:"average_temperature"`
}

// DerivedConfig holds typed records converted from the loaded config.
type DerivedConfig struct {
	Species  []components.Species
	Habitats []components.Habitat
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes each YAML (or JSON) layer over the embedded defaults in
// order, validates the result and computes derived values. Lists in a layer
// replace the lists beneath it entirely.
func Parse(layers ...[]byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	for _, data := range layers {
		if len(data) == 0 {
			continue
		}
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// computeDerived converts validated entries into typed records.
func (c *Config) computeDerived() {
	c.Derived.Species = make([]components.Species, len(c.Species))
	for i, s := range c.Species {
		attrs := s.Attributes
		c.Derived.Species[i] = components.Species{
			Name:                    s.Name,
			LifeSpan:                *attrs.LifeSpan,
			MonthlyFoodConsumption:  *attrs.MonthlyFoodConsumption,
			MonthlyWaterConsumption: *attrs.MonthlyWaterConsumption,
			MinimumTemperature:      *attrs.MinimumTemperature,
			MaximumTemperature:      *attrs.MaximumTemperature,
			MinimumBreedingAge:      *attrs.MinimumBreedingAge,
			GestationMonths:         *attrs.GestationMonths,
		}
	}

	c.Derived.Habitats = make([]components.Habitat, len(c.Habitats))
	for i, h := range c.Habitats {
		temps := make(map[components.Season]float64, len(components.Seasons))
		for _, season := range components.Seasons {
			temps[season] = h.AverageTemperature[string(season)]
		}
		c.Derived.Habitats[i] = components.Habitat{
			Name:                h.Name,
			MonthlyFood:         *h.MonthlyFood,
			MonthlyWater:        *h.MonthlyWater,
			AverageTemperatures: temps,
		}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
