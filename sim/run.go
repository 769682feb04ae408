package sim

import (
	"github.com/pthm-cable/habitat/components"
)

// Options controls a single run.
type Options struct {
	Years  int
	Engine *Engine

	// StopOnExtinction ends the run at the first empty month instead of
	// replaying the absorbing empty state up to the horizon.
	StopOnExtinction bool

	// MaxPopulation, if positive, ends the run at the first month whose
	// population exceeds it. That month is kept as the last snapshot.
	MaxPopulation int

	// OnStep, if set, is called with every snapshot including month 0.
	OnStep func(*Step)
}

// Run seeds the founders and advances month by month for Years*12 months.
// The returned history starts with month 0.
func Run(species *components.Species, habitat *components.Habitat, opts Options) []*Step {
	months := opts.Years * components.MonthsPerYear

	history := make([]*Step, 0, months+1)
	step := Founders()
	history = append(history, step)
	if opts.OnStep != nil {
		opts.OnStep(step)
	}

	for len(history) <= months {
		if opts.StopOnExtinction && step.Population() == 0 {
			break
		}
		if opts.Exceeded(step) {
			break
		}
		step = opts.Engine.Advance(step, species, habitat)
		history = append(history, step)
		if opts.OnStep != nil {
			opts.OnStep(step)
		}
	}
	return history
}

// Exceeded reports whether step is over the population ceiling.
func (o Options) Exceeded(step *Step) bool {
	return o.MaxPopulation > 0 && step.Population() > o.MaxPopulation
}
