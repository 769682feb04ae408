package systems

import "github.com/pthm-cable/habitat/components"

// AgeCheck kills animals that have outlived the species life span.
type AgeCheck struct {
	minimumBirthMonth int
}

// NewAgeCheck creates the old-age rule for nextMonth.
func NewAgeCheck(nextMonth int, species *components.Species) *AgeCheck {
	return &AgeCheck{minimumBirthMonth: nextMonth - species.LifeSpanMonths()}
}

func (c *AgeCheck) Name() string { return "age" }

func (c *AgeCheck) DeathCause() components.DeathCause { return components.DeathOldAge }

// Update is a no-op; age only depends on the birth month.
func (c *AgeCheck) Update(*components.Animal) {}

func (c *AgeCheck) IsStillAlive(a *components.Animal) bool {
	return a.BirthMonth >= c.minimumBirthMonth
}
