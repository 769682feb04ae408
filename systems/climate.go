package systems

import "github.com/pthm-cable/habitat/components"

// MaxConsecutiveExposure is the number of qualifying months an animal
// survives; the next consecutive one kills it.
const MaxConsecutiveExposure = 1

// CounterField selects the exposure counter a climate check maintains.
type CounterField func(a *components.Animal) *int

// ConsecutiveConditionCheck counts consecutive months a climate condition
// held. The condition is fixed for the month, so it is evaluated once.
//
// Without reset, a month within bounds leaves the counter as it was.
type ConsecutiveConditionCheck struct {
	name     string
	cause    components.DeathCause
	exceeded bool
	reset    bool
	field    CounterField
}

// NewConsecutiveConditionCheck creates a climate rule. exceeded reports
// whether this month's temperature is outside the species' tolerance.
func NewConsecutiveConditionCheck(name string, cause components.DeathCause, exceeded, reset bool, field CounterField) *ConsecutiveConditionCheck {
	return &ConsecutiveConditionCheck{
		name:     name,
		cause:    cause,
		exceeded: exceeded,
		reset:    reset,
		field:    field,
	}
}

// NewHeatCheck creates the too-hot rule for the month's temperature.
func NewHeatCheck(temperature float64, species *components.Species, reset bool) *ConsecutiveConditionCheck {
	return NewConsecutiveConditionCheck("heat", components.DeathTooHot,
		temperature > species.MaximumTemperature, reset,
		func(a *components.Animal) *int { return &a.ConsecutiveHotMonths })
}

// NewColdCheck creates the too-cold rule for the month's temperature.
func NewColdCheck(temperature float64, species *components.Species, reset bool) *ConsecutiveConditionCheck {
	return NewConsecutiveConditionCheck("cold", components.DeathTooCold,
		temperature < species.MinimumTemperature, reset,
		func(a *components.Animal) *int { return &a.ConsecutiveColdMonths })
}

func (c *ConsecutiveConditionCheck) Name() string { return c.name }

func (c *ConsecutiveConditionCheck) DeathCause() components.DeathCause { return c.cause }

// Exceeded reports whether the condition holds this month.
func (c *ConsecutiveConditionCheck) Exceeded() bool { return c.exceeded }

func (c *ConsecutiveConditionCheck) Update(a *components.Animal) {
	switch {
	case c.exceeded:
		*c.field(a)++
	case c.reset:
		*c.field(a) = 0
	}
}

func (c *ConsecutiveConditionCheck) IsStillAlive(a *components.Animal) bool {
	return *c.field(a) <= MaxConsecutiveExposure
}
