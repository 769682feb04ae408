package systems

import "github.com/pthm-cable/habitat/components"

// Tolerance windows, in months since the last meal or drink.
const (
	FoodToleranceMonths  = 3
	WaterToleranceMonths = 1
)

// MonthField selects the month stamp a resource check maintains.
type MonthField func(a *components.Animal) *int

// ResourceCheck shares a depletable monthly pool among the cohort.
// Animals are served first-come-first-served in cohort order; the pool
// does not carry over to the next month.
type ResourceCheck struct {
	name        string
	cause       components.DeathCause
	month       int
	resource    float64
	consumption float64
	tolerance   int
	field       MonthField
}

// NewResourceCheck creates a resource rule over the given pool.
func NewResourceCheck(name string, cause components.DeathCause, month int, pool, consumption float64, tolerance int, field MonthField) *ResourceCheck {
	return &ResourceCheck{
		name:        name,
		cause:       cause,
		month:       month,
		resource:    pool,
		consumption: consumption,
		tolerance:   tolerance,
		field:       field,
	}
}

// NewFoodCheck creates the starvation rule backed by the habitat's food.
func NewFoodCheck(month int, species *components.Species, habitat *components.Habitat) *ResourceCheck {
	return NewResourceCheck("food", components.DeathStarvation, month,
		habitat.MonthlyFood, species.MonthlyFoodConsumption, FoodToleranceMonths,
		func(a *components.Animal) *int { return &a.LastFeedMonth })
}

// NewDrinkCheck creates the thirst rule backed by the habitat's water.
func NewDrinkCheck(month int, species *components.Species, habitat *components.Habitat) *ResourceCheck {
	return NewResourceCheck("drink", components.DeathThirst, month,
		habitat.MonthlyWater, species.MonthlyWaterConsumption, WaterToleranceMonths,
		func(a *components.Animal) *int { return &a.LastDrinkMonth })
}

func (c *ResourceCheck) Name() string { return c.name }

func (c *ResourceCheck) DeathCause() components.DeathCause { return c.cause }

// Remaining returns what is left of the pool.
func (c *ResourceCheck) Remaining() float64 { return c.resource }

// Update feeds the animal if enough of the pool is left.
func (c *ResourceCheck) Update(a *components.Animal) {
	if c.resource >= c.consumption {
		c.resource -= c.consumption
		*c.field(a) = c.month
	}
}

func (c *ResourceCheck) IsStillAlive(a *components.Animal) bool {
	return c.month-*c.field(a) <= c.tolerance
}
