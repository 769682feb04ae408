// Package systems implements the monthly survival rules, weather and breeding.
package systems

import "github.com/pthm-cable/habitat/components"

// RNG is the interface for random number generation.
type RNG interface {
	Float64() float64
}

// Check is a single survival rule evaluated once per month against every
// animal still alive when the check runs.
//
// Update is applied to all entering animals before any IsStillAlive call,
// so checks that share a pool (food, water) see the whole cohort first.
type Check interface {
	Name() string
	DeathCause() components.DeathCause
	Update(a *components.Animal)
	IsStillAlive(a *components.Animal) bool
}

// PipelineOptions tunes the rule set built for a month.
type PipelineOptions struct {
	// ResetExposure clears a climate counter on a month within bounds.
	ResetExposure bool
}

// Pipeline returns the ordered checks for nextMonth. An animal is charged
// to the first check it fails: age, food, drink, cold, heat.
func Pipeline(nextMonth int, species *components.Species, habitat *components.Habitat, temperature float64, opts PipelineOptions) []Check {
	return []Check{
		NewAgeCheck(nextMonth, species),
		NewFoodCheck(nextMonth, species, habitat),
		NewDrinkCheck(nextMonth, species, habitat),
		NewColdCheck(temperature, species, opts.ResetExposure),
		NewHeatCheck(temperature, species, opts.ResetExposure),
	}
}

// Apply runs one check over animals: every animal is updated, then the
// cohort is split into survivors and the dead. Order is preserved in both.
func Apply(check Check, animals []*components.Animal) (alive, dead []*components.Animal) {
	for _, a := range animals {
		check.Update(a)
	}
	return Partition(animals, check.IsStillAlive)
}

// Partition splits animals by the alive predicate, keeping relative order.
func Partition(animals []*components.Animal, isAlive func(*components.Animal) bool) (alive, dead []*components.Animal) {
	alive = make([]*components.Animal, 0, len(animals))
	for _, a := range animals {
		if isAlive(a) {
			alive = append(alive, a)
		} else {
			dead = append(dead, a)
		}
	}
	return alive, dead
}
