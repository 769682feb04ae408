// Package sim advances a single-species population one month at a time.
package sim

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// Step is an immutable snapshot of one month: the living population after
// the month's checks and births, and who died of what.
type Step struct {
	Month       int
	Season      components.Season
	Temperature float64

	Animals []components.Animal
	Deaths  map[components.DeathCause][]components.Animal
	Births  []components.Animal

	// NextID is the identifier the next newborn receives.
	NextID uint32
}

// Population returns the number of living animals.
func (s *Step) Population() int {
	return len(s.Animals)
}

// DeathCount returns the number of animals that died this month.
func (s *Step) DeathCount() int {
	n := 0
	for _, dead := range s.Deaths {
		n += len(dead)
	}
	return n
}

// Males returns the number of living males.
func (s *Step) Males() int {
	n := 0
	for i := range s.Animals {
		if !s.Animals[i].IsFemale() {
			n++
		}
	}
	return n
}

// Females returns the number of living females.
func (s *Step) Females() int {
	return len(s.Animals) - s.Males()
}

// Engine is the monthly state transition. Its randomness source is
// injected so runs are reproducible.
type Engine struct {
	Rand          systems.RNG
	MaleRatio     float64
	Weather       systems.Weather
	ResetExposure bool
}

// NewEngine creates an engine with the standard weather model and an even
// gender split.
func NewEngine(rng systems.RNG) *Engine {
	return &Engine{
		Rand:      rng,
		MaleRatio: 0.5,
		Weather:   systems.DefaultWeather(),
	}
}

// Advance produces the month after prev. prev is not modified.
//
// Every check runs over the animals still alive when it starts, so an
// animal is recorded under the first check it fails and never reaches the
// later ones. Survivors then breed.
func (e *Engine) Advance(prev *Step, species *components.Species, habitat *components.Habitat) *Step {
	nextMonth := prev.Month + 1
	temperature := e.Weather.Temperature(e.Rand, habitat, nextMonth)

	next := &Step{
		Month:       nextMonth,
		Season:      components.SeasonOf(nextMonth),
		Temperature: temperature,
		Deaths:      make(map[components.DeathCause][]components.Animal),
		NextID:      prev.NextID,
	}

	// Working copies; the previous snapshot keeps its own values.
	cohort := make([]components.Animal, len(prev.Animals))
	copy(cohort, prev.Animals)
	alive := make([]*components.Animal, len(cohort))
	for i := range cohort {
		alive[i] = &cohort[i]
	}

	checks := systems.Pipeline(nextMonth, species, habitat, temperature, systems.PipelineOptions{
		ResetExposure: e.ResetExposure,
	})
	for _, check := range checks {
		var dead []*components.Animal
		alive, dead = systems.Apply(check, alive)
		if len(dead) > 0 {
			next.Deaths[check.DeathCause()] = values(dead)
		}
	}

	mothers := systems.Breed(alive, species, nextMonth)

	next.Animals = make([]components.Animal, 0, len(alive)+len(mothers))
	next.Animals = append(next.Animals, values(alive)...)
	for _, mother := range mothers {
		child := e.newborn(next, mother.ID)
		next.Births = append(next.Births, child)
		next.Animals = append(next.Animals, child)
	}

	return next
}

func values(animals []*components.Animal) []components.Animal {
	out := make([]components.Animal, len(animals))
	for i, a := range animals {
		out[i] = *a
	}
	return out
}
