package systems

import "github.com/pthm-cable/habitat/components"

// Breed advances gestation for every female old enough to breed and
// returns the mothers that deliver this month. Each delivery is a single
// newborn and restarts the mother's gestation.
func Breed(animals []*components.Animal, species *components.Species, month int) []*components.Animal {
	var mothers []*components.Animal
	minAge := species.MinimumBreedingAgeMonths()

	for _, a := range animals {
		if !a.IsFemale() || a.Age(month) < minAge {
			continue
		}
		a.GestationMonths++
		if a.GestationMonths >= species.GestationMonths {
			a.GestationMonths = 0
			mothers = append(mothers, a)
		}
	}
	return mothers
}

// Gender draws a newborn's gender: male when the draw is at most maleRatio.
func Gender(rng RNG, maleRatio float64) components.Gender {
	if rng.Float64() <= maleRatio {
		return components.Male
	}
	return components.Female
}
