package main

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/systems"
	"github.com/pthm-cable/habitat/telemetry"
)

// PreviewParams holds the adjustable knobs of the preview.
type PreviewParams struct {
	FoodScale  float32 // multiplier on the habitat's monthly food
	WaterScale float32 // multiplier on the habitat's monthly water
	TempOffset float32 // added to every seasonal baseline
	Years      int
	Seed       int64
}

func defaultParams(cfg *config.Config) PreviewParams {
	return PreviewParams{
		FoodScale:  1,
		WaterScale: 1,
		Years:      cfg.Years,
		Seed:       12345,
	}
}

// previewModel runs one species/habitat pair with the current knobs.
type previewModel struct {
	cfg     *config.Config
	species int
	habitat int
	params  PreviewParams

	populations []float64
	summary     telemetry.Summary
}

func newPreviewModel(cfg *config.Config) *previewModel {
	return &previewModel{cfg: cfg, params: defaultParams(cfg)}
}

func (m *previewModel) Species() components.Species {
	return m.cfg.Derived.Species[m.species]
}

// Habitat returns the selected habitat with the knobs applied.
func (m *previewModel) Habitat() components.Habitat {
	base := m.cfg.Derived.Habitats[m.habitat]
	h := base
	h.MonthlyFood = base.MonthlyFood * float64(m.params.FoodScale)
	h.MonthlyWater = base.MonthlyWater * float64(m.params.WaterScale)
	h.AverageTemperatures = make(map[components.Season]float64, len(components.Seasons))
	for _, season := range components.Seasons {
		h.AverageTemperatures[season] = base.BaselineTemperature(season) + float64(m.params.TempOffset)
	}
	return h
}

func (m *previewModel) NextSpecies() {
	m.species = (m.species + 1) % len(m.cfg.Derived.Species)
}

func (m *previewModel) NextHabitat() {
	m.habitat = (m.habitat + 1) % len(m.cfg.Derived.Habitats)
}

// Run simulates with the current knobs and keeps the population curve.
func (m *previewModel) Run() {
	species := m.Species()
	habitat := m.Habitat()

	engine := sim.NewEngine(rand.New(rand.NewSource(m.params.Seed)))
	engine.MaleRatio = m.cfg.Simulation.MaleRatio
	engine.ResetExposure = m.cfg.Simulation.ResetClimateExposure
	engine.Weather = systems.Weather{
		Fluctuation:        m.cfg.Weather.Fluctuation,
		ExtremeFluctuation: m.cfg.Weather.ExtremeFluctuation,
		ExtremeChance:      m.cfg.Weather.ExtremeChance,
	}

	m.populations = m.populations[:0]
	steps := sim.Run(&species, &habitat, sim.Options{
		Years:  m.params.Years,
		Engine: engine,
		OnStep: func(s *sim.Step) {
			m.populations = append(m.populations, float64(s.Population()))
		},
	})
	m.summary = telemetry.Summarize(steps)
}

// HabitatYAML renders the adjusted habitat as a config snippet.
func (m *previewModel) HabitatYAML() string {
	h := m.Habitat()
	return fmt.Sprintf(`habitats:
  - name: %s
    monthly_food: %.1f
    monthly_water: %.1f
    average_temperature:
      spring: %.1f
      summer: %.1f
      fall: %.1f
      winter: %.1f`,
		h.Name, h.MonthlyFood, h.MonthlyWater,
		h.BaselineTemperature(components.Spring), h.BaselineTemperature(components.Summer),
		h.BaselineTemperature(components.Fall), h.BaselineTemperature(components.Winter))
}
