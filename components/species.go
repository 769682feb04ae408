package components

// Species describes the needs and tolerances shared by every animal of a kind.
// It is read-only for the duration of a run.
type Species struct {
	Name string

	LifeSpan int // years

	MonthlyFoodConsumption  float64
	MonthlyWaterConsumption float64

	MinimumTemperature float64
	MaximumTemperature float64

	MinimumBreedingAge int // years
	GestationMonths    int
}

// LifeSpanMonths returns the life span expressed in months.
func (s *Species) LifeSpanMonths() int {
	return s.LifeSpan * MonthsPerYear
}

// MinimumBreedingAgeMonths returns the breeding age expressed in months.
func (s *Species) MinimumBreedingAgeMonths() int {
	return s.MinimumBreedingAge * MonthsPerYear
}

// Habitat is a single homogeneous pool of monthly food and water with a
// baseline temperature per season.
type Habitat struct {
	Name string

	MonthlyFood  float64
	MonthlyWater float64

	AverageTemperatures map[Season]float64
}

// BaselineTemperature returns the habitat's average temperature for a season.
func (h *Habitat) BaselineTemperature(season Season) float64 {
	return h.AverageTemperatures[season]
}
