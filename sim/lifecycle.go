package sim

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// Founder identifiers.
const (
	FounderMaleID   uint32 = 1
	FounderFemaleID uint32 = 2
)

// Founders returns the month-0 snapshot: one male and one female, born in
// month 0 and not yet checked against any rule.
func Founders() *Step {
	male := components.NewAnimal(FounderMaleID, components.Male, 0)
	female := components.NewAnimal(FounderFemaleID, components.Female, 0)

	return &Step{
		Month:   0,
		Season:  components.SeasonOf(0),
		Animals: []components.Animal{male, female},
		Deaths:  make(map[components.DeathCause][]components.Animal),
		Births:  []components.Animal{male, female},
		NextID:  FounderFemaleID + 1,
	}
}

// newborn creates a child born in step's month and advances step.NextID.
// The child counts as unfed since the month before birth.
func (e *Engine) newborn(step *Step, motherID uint32) components.Animal {
	id := step.NextID
	step.NextID++

	child := components.NewAnimal(id, systems.Gender(e.Rand, e.MaleRatio), step.Month)
	child.MotherID = motherID
	return child
}
