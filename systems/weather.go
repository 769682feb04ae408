package systems

import "github.com/pthm-cable/habitat/components"

// Weather draws a month's ambient temperature around the seasonal baseline.
type Weather struct {
	Fluctuation        float64 // full width of a normal month's offset range
	ExtremeFluctuation float64 // full width during an extreme-weather month
	ExtremeChance      float64 // probability of an extreme month
}

// DefaultWeather returns the standard fluctuation model.
func DefaultWeather() Weather {
	return Weather{
		Fluctuation:        10,
		ExtremeFluctuation: 30,
		ExtremeChance:      0.05,
	}
}

// Temperature returns the habitat's baseline for the month's season plus a
// uniform offset in [-scale/2, +scale/2]. Two draws are taken from rng:
// the extreme-month roll, then the offset.
func (w Weather) Temperature(rng RNG, habitat *components.Habitat, month int) float64 {
	baseline := habitat.BaselineTemperature(components.SeasonOf(month))

	scale := w.Fluctuation
	if rng.Float64() < w.ExtremeChance {
		scale = w.ExtremeFluctuation
	}
	return baseline + (rng.Float64()-0.5)*scale
}
