package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pthm-cable/habitat/components"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks that every required field is present and within range.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Years < 1 {
		add("years must be at least 1, got %d", c.Years)
	}
	if c.Iterations < 1 {
		add("iterations must be at least 1, got %d", c.Iterations)
	}
	if r := c.Simulation.MaleRatio; r < 0 || r > 1 {
		add("simulation.male_ratio must be within [0, 1], got %g", r)
	}
	if c.Simulation.MaxPopulation < 0 {
		add("simulation.max_population must not be negative, got %d", c.Simulation.MaxPopulation)
	}
	if c.Simulation.Parallel < 0 {
		add("simulation.parallel must not be negative, got %d", c.Simulation.Parallel)
	}
	if p := c.Weather.ExtremeChance; p < 0 || p > 1 {
		add("weather.extreme_chance must be within [0, 1], got %g", p)
	}
	if c.Weather.Fluctuation < 0 || c.Weather.ExtremeFluctuation < 0 {
		add("weather fluctuations must not be negative")
	}

	if len(c.Species) == 0 {
		add("at least one species is required")
	}
	seen := make(map[string]bool)
	for i, s := range c.Species {
		errs = append(errs, s.validate(i, seen)...)
	}

	if len(c.Habitats) == 0 {
		add("at least one habitat is required")
	}
	seen = make(map[string]bool)
	for i, h := range c.Habitats {
		errs = append(errs, h.validate(i, seen)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func (s SpeciesConfig) validate(i int, seen map[string]bool) []error {
	var errs []error
	where := fmt.Sprintf("species[%d]", i)
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("%s: missing name", where))
	} else {
		where = fmt.Sprintf("species[%d] (%s)", i, s.Name)
		key := strings.ToLower(s.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", where))
		}
		seen[key] = true
	}

	a := s.Attributes
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%s: missing attributes.%s", where, field))
	}
	negative := func(field string) {
		errs = append(errs, fmt.Errorf("%s: attributes.%s must not be negative", where, field))
	}

	checkInt := func(field string, v *int) {
		switch {
		case v == nil:
			missing(field)
		case *v < 0:
			negative(field)
		}
	}
	checkFloat := func(field string, v *float64, allowNegative bool) {
		switch {
		case v == nil:
			missing(field)
		case !allowNegative && *v < 0:
			negative(field)
		}
	}

	checkInt("life_span", a.LifeSpan)
	checkFloat("monthly_food_consumption", a.MonthlyFoodConsumption, false)
	checkFloat("monthly_water_consumption", a.MonthlyWaterConsumption, false)
	checkFloat("minimum_temperature", a.MinimumTemperature, true)
	checkFloat("maximum_temperature", a.MaximumTemperature, true)
	checkInt("minimum_breeding_age", a.MinimumBreedingAge)
	checkInt("gestation_months", a.GestationMonths)
	if g := a.GestationMonths; g != nil && *g == 0 {
		errs = append(errs, fmt.Errorf("%s: attributes.gestation_months must be at least 1", where))
	}

	if a.MinimumTemperature != nil && a.MaximumTemperature != nil &&
		*a.MinimumTemperature > *a.MaximumTemperature {
		errs = append(errs, fmt.Errorf("%s: minimum_temperature %g exceeds maximum_temperature %g",
			where, *a.MinimumTemperature, *a.MaximumTemperature))
	}
	return errs
}

func (h HabitatConfig) validate(i int, seen map[string]bool) []error {
	var errs []error
	where := fmt.Sprintf("habitats[%d]", i)
	if h.Name == "" {
		errs = append(errs, fmt.Errorf("%s: missing name", where))
	} else {
		where = fmt.Sprintf("habitats[%d] (%s)", i, h.Name)
		key := strings.ToLower(h.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", where))
		}
		seen[key] = true
	}

	if h.MonthlyFood == nil {
		errs = append(errs, fmt.Errorf("%s: missing monthly_food", where))
	} else if *h.MonthlyFood < 0 {
		errs = append(errs, fmt.Errorf("%s: monthly_food must not be negative", where))
	}
	if h.MonthlyWater == nil {
		errs = append(errs, fmt.Errorf("%s: missing monthly_water", where))
	} else if *h.MonthlyWater < 0 {
		errs = append(errs, fmt.Errorf("%s: monthly_water must not be negative", where))
	}

	for _, season := range components.Seasons {
		if _, ok := h.AverageTemperature[string(season)]; !ok {
			errs = append(errs, fmt.Errorf("%s: missing average_temperature.%s", where, season))
		}
	}

	var unknown []string
	for key := range h.AverageTemperature {
		if !isSeason(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, fmt.Errorf("%s: unknown season %q in average_temperature", where, key))
	}
	return errs
}

func isSeason(name string) bool {
	for _, season := range components.Seasons {
		if string(season) == name {
			return true
		}
	}
	return false
}
