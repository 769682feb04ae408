package components

// Animal is one living individual. Its counters reflect the latest check
// it passed; the step engine copies animals between months so earlier
// snapshots are never rewritten.
type Animal struct {
	ID       uint32
	MotherID uint32 // 0 for founders
	Gender   Gender

	BirthMonth     int
	LastFeedMonth  int
	LastDrinkMonth int

	ConsecutiveHotMonths  int
	ConsecutiveColdMonths int

	// GestationMonths only advances for breeding females.
	GestationMonths int
}

// NewAnimal creates an animal born in birthMonth. It starts hungry and
// thirsty: unless it eats and drinks in its first check it counts as
// unfed since the month before birth.
func NewAnimal(id uint32, gender Gender, birthMonth int) Animal {
	return Animal{
		ID:             id,
		Gender:         gender,
		BirthMonth:     birthMonth,
		LastFeedMonth:  birthMonth - 1,
		LastDrinkMonth: birthMonth - 1,
	}
}

// Age returns the animal's age in months at the given month.
func (a *Animal) Age(month int) int {
	return month - a.BirthMonth
}

// IsFemale reports whether the animal can carry offspring.
func (a *Animal) IsFemale() bool {
	return a.Gender == Female
}
