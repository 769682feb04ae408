package config

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/systems"
)

// UnknownNameError reports a species or habitat name that is not configured.
type UnknownNameError struct {
	Kind       string // "species" or "habitat"
	Name       string
	Suggestion string // closest configured name, empty when nothing is close
}

func (e *UnknownNameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Kind, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// SelectSpecies returns the configured species matching names, in the order
// given. An empty list selects every species.
func (c *Config) SelectSpecies(names []string) ([]components.Species, error) {
	if len(names) == 0 {
		return c.Derived.Species, nil
	}
	candidates := make([]string, len(c.Derived.Species))
	for i, s := range c.Derived.Species {
		candidates[i] = s.Name
	}

	out := make([]components.Species, 0, len(names))
	for _, name := range names {
		idx, err := lookup("species", name, candidates)
		if err != nil {
			return nil, err
		}
		out = append(out, c.Derived.Species[idx])
	}
	return out, nil
}

// SelectHabitats returns the configured habitats matching names, in the
// order given. An empty list selects every habitat.
func (c *Config) SelectHabitats(names []string) ([]components.Habitat, error) {
	if len(names) == 0 {
		return c.Derived.Habitats, nil
	}
	candidates := make([]string, len(c.Derived.Habitats))
	for i, h := range c.Derived.Habitats {
		candidates[i] = h.Name
	}

	out := make([]components.Habitat, 0, len(names))
	for _, name := range names {
		idx, err := lookup("habitat", name, candidates)
		if err != nil {
			return nil, err
		}
		out = append(out, c.Derived.Habitats[idx])
	}
	return out, nil
}

// Scenarios pairs every selected species with every selected habitat,
// species-major.
func (c *Config) Scenarios(speciesNames, habitatNames []string) ([]sim.Scenario, error) {
	species, err := c.SelectSpecies(speciesNames)
	if err != nil {
		return nil, err
	}
	habitats, err := c.SelectHabitats(habitatNames)
	if err != nil {
		return nil, err
	}

	scenarios := make([]sim.Scenario, 0, len(species)*len(habitats))
	for _, s := range species {
		for _, h := range habitats {
			scenarios = append(scenarios, sim.Scenario{Species: s, Habitat: h})
		}
	}
	return scenarios, nil
}

// Batch builds a batch description for the given scenarios from the
// simulation and weather settings.
func (c *Config) Batch(scenarios []sim.Scenario) sim.Batch {
	return sim.Batch{
		Scenarios:  scenarios,
		Iterations: c.Iterations,
		Years:      c.Years,
		Seed:       c.Simulation.Seed,
		MaleRatio:  c.Simulation.MaleRatio,
		Weather: systems.Weather{
			Fluctuation:        c.Weather.Fluctuation,
			ExtremeFluctuation: c.Weather.ExtremeFluctuation,
			ExtremeChance:      c.Weather.ExtremeChance,
		},
		ResetExposure:    c.Simulation.ResetClimateExposure,
		StopOnExtinction: c.Simulation.StopOnExtinction,
		MaxPopulation:    c.Simulation.MaxPopulation,
		Workers:          c.Simulation.Parallel,
	}
}

func lookup(kind, name string, candidates []string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, c := range candidates {
		if strings.ToLower(c) == needle {
			return i, nil
		}
	}
	return -1, &UnknownNameError{Kind: kind, Name: name, Suggestion: suggest(needle, candidates)}
}

// suggest returns the candidate closest to name by edit distance, or "" when
// none is within the length-scaled limit.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if dist > levenshteinLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
