// Package components defines the plain data records the simulation operates on.
package components

// Gender of an animal.
type Gender uint8

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// Season is one of the four climate seasons of a habitat.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)

// Seasons lists every season in calendar order.
var Seasons = [4]Season{Spring, Summer, Fall, Winter}

// MonthsPerYear is the number of simulation steps in a year.
const MonthsPerYear = 12

// SeasonOf maps an absolute month index onto its season.
// Months 0-2 are spring, 3-5 summer, 6-8 fall and 9-11 winter.
func SeasonOf(month int) Season {
	m := month % MonthsPerYear
	if m < 0 {
		m += MonthsPerYear
	}
	return Seasons[m/3]
}

// DeathCause tags the survival rule an animal failed.
type DeathCause string

const (
	DeathOldAge     DeathCause = "old_age"
	DeathStarvation DeathCause = "starvation"
	DeathThirst     DeathCause = "thirst"
	DeathTooHot     DeathCause = "too_hot"
	DeathTooCold    DeathCause = "too_cold"
)

// DeathCauses lists causes in the order the survival checks run.
var DeathCauses = []DeathCause{
	DeathOldAge,
	DeathStarvation,
	DeathThirst,
	DeathTooCold,
	DeathTooHot,
}

// Label returns a human-readable name for the cause.
func (c DeathCause) Label() string {
	switch c {
	case DeathOldAge:
		return "old age"
	case DeathTooHot:
		return "too hot"
	case DeathTooCold:
		return "too cold"
	default:
		return string(c)
	}
}
