package components

import "testing"

func TestSeasonOf(t *testing.T) {
	monthsInSeasons := map[Season][]int{
		Spring: {0, 1, 2},
		Summer: {3, 4, 5},
		Fall:   {6, 7, 8},
		Winter: {9, 10, 11},
	}
	for season, months := range monthsInSeasons {
		for _, month := range months {
			if got := SeasonOf(month); got != season {
				t.Errorf("SeasonOf(%d) = %s, want %s", month, got, season)
			}
			// The mapping repeats every year.
			if got := SeasonOf(month + 5*MonthsPerYear); got != season {
				t.Errorf("SeasonOf(%d) = %s, want %s", month+5*MonthsPerYear, got, season)
			}
		}
	}
}

func TestSeasonOfNegativeMonth(t *testing.T) {
	if got := SeasonOf(-1); got != Winter {
		t.Errorf("SeasonOf(-1) = %s, want winter", got)
	}
}

func TestNewAnimalStartsHungryAndThirsty(t *testing.T) {
	a := NewAnimal(7, Female, 10)
	if a.LastFeedMonth != 9 || a.LastDrinkMonth != 9 {
		t.Errorf("last feed/drink = %d/%d, want 9/9", a.LastFeedMonth, a.LastDrinkMonth)
	}
	if a.ConsecutiveHotMonths != 0 || a.ConsecutiveColdMonths != 0 || a.GestationMonths != 0 {
		t.Error("counters should start at zero")
	}
	if !a.IsFemale() {
		t.Error("expected female")
	}
	if got := a.Age(22); got != 12 {
		t.Errorf("Age(22) = %d, want 12", got)
	}
}

func TestSpeciesMonths(t *testing.T) {
	s := Species{LifeSpan: 3, MinimumBreedingAge: 2}
	if got := s.LifeSpanMonths(); got != 36 {
		t.Errorf("LifeSpanMonths = %d, want 36", got)
	}
	if got := s.MinimumBreedingAgeMonths(); got != 24 {
		t.Errorf("MinimumBreedingAgeMonths = %d, want 24", got)
	}
}

func TestDeathCauseLabel(t *testing.T) {
	tests := []struct {
		cause DeathCause
		want  string
	}{
		{DeathOldAge, "old age"},
		{DeathStarvation, "starvation"},
		{DeathThirst, "thirst"},
		{DeathTooHot, "too hot"},
		{DeathTooCold, "too cold"},
	}
	for _, tt := range tests {
		if got := tt.cause.Label(); got != tt.want {
			t.Errorf("%s.Label() = %q, want %q", tt.cause, got, tt.want)
		}
	}
}
