package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// scriptedRNG replays a fixed sequence of draws, cycling when exhausted.
type scriptedRNG struct {
	values []float64
	next   int
}

func (r *scriptedRNG) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// calmEngine draws a centered, non-extreme temperature every month.
func calmEngine() *Engine {
	return NewEngine(&scriptedRNG{values: []float64{0.5}})
}

func mildHabitat(food, water float64) *components.Habitat {
	return &components.Habitat{
		Name:         "test",
		MonthlyFood:  food,
		MonthlyWater: water,
		AverageTemperatures: map[components.Season]float64{
			components.Spring: 20,
			components.Summer: 20,
			components.Fall:   20,
			components.Winter: 20,
		},
	}
}

func hardySpecies() *components.Species {
	return &components.Species{
		Name:               "test",
		LifeSpan:           100,
		MinimumTemperature: -100,
		MaximumTemperature: 100,
		GestationMonths:    100,
	}
}

func stepWith(month int, animals ...components.Animal) *Step {
	return &Step{
		Month:   month,
		Animals: animals,
		Deaths:  map[components.DeathCause][]components.Animal{},
		NextID:  100,
	}
}

func male(id uint32) components.Animal {
	return components.NewAnimal(id, components.Male, 0)
}

func TestAdvanceFoodScarcity(t *testing.T) {
	species := hardySpecies()
	species.MonthlyFoodConsumption = 1
	habitat := mildHabitat(1, 0)

	next := calmEngine().Advance(stepWith(4, male(1), male(2)), species, habitat)

	if next.Population() != 1 {
		t.Fatalf("population = %d, want 1", next.Population())
	}
	if next.Animals[0].ID != 1 {
		t.Errorf("survivor = %d, want the first animal in order", next.Animals[0].ID)
	}
	starved := next.Deaths[components.DeathStarvation]
	if len(starved) != 1 || starved[0].ID != 2 {
		t.Errorf("starvation deaths = %v, want animal 2", starved)
	}
	if len(next.Deaths) != 1 {
		t.Errorf("unexpected death causes: %v", next.Deaths)
	}
}

func TestAdvanceOldAge(t *testing.T) {
	species := hardySpecies()
	species.LifeSpan = 1
	habitat := mildHabitat(10, 10)

	next := calmEngine().Advance(stepWith(12, male(1)), species, habitat)

	if next.Month != 13 {
		t.Fatalf("month = %d, want 13", next.Month)
	}
	if next.Population() != 0 {
		t.Errorf("population = %d, want 0", next.Population())
	}
	if len(next.Deaths[components.DeathOldAge]) != 1 {
		t.Errorf("old age deaths = %d, want 1", len(next.Deaths[components.DeathOldAge]))
	}
}

func TestAdvanceRecordsFirstFailedCheckOnly(t *testing.T) {
	// Too old, unfed, thirsty and already one month over the heat limit:
	// only old age is recorded.
	species := hardySpecies()
	species.LifeSpan = 1
	species.MonthlyFoodConsumption = 1
	species.MonthlyWaterConsumption = 1
	species.MaximumTemperature = 0
	habitat := mildHabitat(0, 0)

	old := male(1)
	old.ConsecutiveHotMonths = 1

	next := calmEngine().Advance(stepWith(20, old), species, habitat)

	if len(next.Deaths) != 1 {
		t.Fatalf("death causes = %v, want only old age", next.Deaths)
	}
	if len(next.Deaths[components.DeathOldAge]) != 1 {
		t.Error("expected old age death")
	}
	if next.DeathCount() != 1 {
		t.Errorf("DeathCount = %d, want 1", next.DeathCount())
	}
}

func TestAdvanceOldAnimalNotChargedAgainstFood(t *testing.T) {
	species := hardySpecies()
	species.LifeSpan = 1
	species.MonthlyFoodConsumption = 1
	habitat := mildHabitat(1, 0)

	old := male(1)
	young := components.NewAnimal(2, components.Male, 10)

	next := calmEngine().Advance(stepWith(13, old, young), species, habitat)

	if next.Population() != 1 || next.Animals[0].ID != 2 {
		t.Fatalf("expected the young animal to survive, got %v", next.Animals)
	}
	if next.Animals[0].LastFeedMonth != 14 {
		t.Errorf("young animal should have eaten the only ration, last fed %d", next.Animals[0].LastFeedMonth)
	}
	if _, ok := next.Deaths[components.DeathStarvation]; ok {
		t.Error("no starvation expected")
	}
}

func TestAdvanceStarvationAndThirst(t *testing.T) {
	tests := []struct {
		name    string
		food    float64
		water   float64
		feed    float64
		drink   float64
		cause   components.DeathCause
		survive bool
	}{
		{"starvation", 0, 0, 1, 0, components.DeathStarvation, false},
		{"thirst", 0, 0, 0, 1, components.DeathThirst, false},
		{"no death", 1, 1, 1, 1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			species := hardySpecies()
			species.MonthlyFoodConsumption = tt.feed
			species.MonthlyWaterConsumption = tt.drink

			next := calmEngine().Advance(stepWith(3, male(1)), species, mildHabitat(tt.food, tt.water))

			if tt.survive {
				if next.Population() != 1 || len(next.Deaths) != 0 {
					t.Errorf("expected survival, got pop=%d deaths=%v", next.Population(), next.Deaths)
				}
				return
			}
			if next.Population() != 0 {
				t.Errorf("population = %d, want 0", next.Population())
			}
			if len(next.Deaths[tt.cause]) != 1 {
				t.Errorf("deaths = %v, want one %s", next.Deaths, tt.cause)
			}
		})
	}
}

func TestAdvanceClimate(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		cause    components.DeathCause
		prime    func(a *components.Animal)
	}{
		{"too hot", 1000, components.DeathTooHot, func(a *components.Animal) { a.ConsecutiveHotMonths = 1 }},
		{"too cold", -1000, components.DeathTooCold, func(a *components.Animal) { a.ConsecutiveColdMonths = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			species := hardySpecies()
			species.MinimumTemperature = 100
			species.MaximumTemperature = 200
			habitat := mildHabitat(1, 1)
			habitat.AverageTemperatures[components.Spring] = tt.baseline

			a := male(1)
			tt.prime(&a)

			next := calmEngine().Advance(stepWith(0, a), species, habitat)
			if next.Population() != 0 {
				t.Errorf("population = %d, want 0", next.Population())
			}
			if len(next.Deaths[tt.cause]) != 1 {
				t.Errorf("deaths = %v, want one %s", next.Deaths, tt.cause)
			}
		})
	}
}

func TestAdvanceUsesSeasonOfSimulatedMonth(t *testing.T) {
	species := hardySpecies()
	species.MaximumTemperature = 100
	habitat := mildHabitat(1, 1)
	habitat.AverageTemperatures[components.Spring] = 0
	habitat.AverageTemperatures[components.Summer] = 1000

	a := male(1)
	a.ConsecutiveHotMonths = 1

	next := calmEngine().Advance(stepWith(2, a), species, habitat)

	if next.Season != components.Summer {
		t.Errorf("season = %s, want summer", next.Season)
	}
	if next.Temperature != 1000 {
		t.Errorf("temperature = %v, want the summer baseline", next.Temperature)
	}
	if len(next.Deaths[components.DeathTooHot]) != 1 {
		t.Errorf("expected a heat death in summer, deaths = %v", next.Deaths)
	}
}

func TestAdvanceBreeding(t *testing.T) {
	species := hardySpecies()
	species.GestationMonths = 3
	habitat := mildHabitat(10, 10)

	mother := components.NewAnimal(5, components.Female, 0)
	mother.GestationMonths = 2

	// Two temperature draws, then the newborn's gender draw.
	engine := NewEngine(&scriptedRNG{values: []float64{0.5, 0.5, 0.3}})
	next := engine.Advance(stepWith(6, mother), species, habitat)

	if next.Population() != 2 {
		t.Fatalf("population = %d, want 2", next.Population())
	}
	if next.Animals[0].GestationMonths != 0 {
		t.Errorf("mother gestation = %d, want reset to 0", next.Animals[0].GestationMonths)
	}
	if len(next.Births) != 1 {
		t.Fatalf("births = %d, want 1", len(next.Births))
	}

	child := next.Births[0]
	if child.BirthMonth != 7 || child.LastFeedMonth != 6 || child.LastDrinkMonth != 6 {
		t.Errorf("child birth/feed/drink = %d/%d/%d, want 7/6/6", child.BirthMonth, child.LastFeedMonth, child.LastDrinkMonth)
	}
	if child.Gender != components.Male {
		t.Errorf("child gender = %s, want male", child.Gender)
	}
	if child.MotherID != 5 || child.ID != 100 {
		t.Errorf("child id/mother = %d/%d, want 100/5", child.ID, child.MotherID)
	}
	if next.NextID != 101 {
		t.Errorf("NextID = %d, want 101", next.NextID)
	}
}

func TestAdvanceGestationBelowThreshold(t *testing.T) {
	species := hardySpecies()
	species.GestationMonths = 3
	habitat := mildHabitat(10, 10)

	mother := components.NewAnimal(5, components.Female, 0)
	mother.GestationMonths = 1

	next := calmEngine().Advance(stepWith(6, mother), species, habitat)
	if len(next.Births) != 0 {
		t.Errorf("births = %d, want 0", len(next.Births))
	}
	if next.Animals[0].GestationMonths != 2 {
		t.Errorf("gestation = %d, want 2", next.Animals[0].GestationMonths)
	}
}

func TestAdvanceDeadFemaleDoesNotBreed(t *testing.T) {
	species := hardySpecies()
	species.GestationMonths = 1
	species.MonthlyFoodConsumption = 1
	habitat := mildHabitat(0, 10)

	mother := components.NewAnimal(5, components.Female, 0)

	next := calmEngine().Advance(stepWith(6, mother), species, habitat)
	if len(next.Births) != 0 || next.Population() != 0 {
		t.Errorf("starved female should not breed, births=%d pop=%d", len(next.Births), next.Population())
	}
}

func TestAdvanceEmptyPopulationIsAbsorbing(t *testing.T) {
	species := hardySpecies()
	habitat := mildHabitat(10, 10)
	engine := calmEngine()

	step := stepWith(30)
	for i := 0; i < 5; i++ {
		step = engine.Advance(step, species, habitat)
		if step.Population() != 0 || step.DeathCount() != 0 || len(step.Births) != 0 {
			t.Fatalf("month %d: pop=%d deaths=%d births=%d", step.Month, step.Population(), step.DeathCount(), len(step.Births))
		}
	}
	if step.Month != 35 {
		t.Errorf("month = %d, want 35", step.Month)
	}
}

func TestAdvanceDoesNotMutatePrevious(t *testing.T) {
	species := hardySpecies()
	species.MonthlyFoodConsumption = 1
	habitat := mildHabitat(5, 5)

	prev := stepWith(4, male(1))
	_ = calmEngine().Advance(prev, species, habitat)

	if prev.Animals[0].LastFeedMonth != -1 {
		t.Errorf("previous snapshot changed: LastFeedMonth = %d", prev.Animals[0].LastFeedMonth)
	}
	if prev.Month != 4 || len(prev.Deaths) != 0 {
		t.Error("previous snapshot changed")
	}
}

func TestFounders(t *testing.T) {
	s := Founders()
	if s.Month != 0 || s.Population() != 2 {
		t.Fatalf("month=%d pop=%d, want 0/2", s.Month, s.Population())
	}
	if s.Males() != 1 || s.Females() != 1 {
		t.Errorf("males=%d females=%d, want 1/1", s.Males(), s.Females())
	}
	if s.DeathCount() != 0 || len(s.Births) != 2 {
		t.Errorf("deaths=%d births=%d", s.DeathCount(), len(s.Births))
	}
	if s.NextID != 3 {
		t.Errorf("NextID = %d, want 3", s.NextID)
	}
}

func TestRunLength(t *testing.T) {
	species := hardySpecies()
	habitat := mildHabitat(10, 10)

	var seen int
	steps := Run(species, habitat, Options{
		Years:  2,
		Engine: calmEngine(),
		OnStep: func(*Step) { seen++ },
	})
	if len(steps) != 25 {
		t.Fatalf("len = %d, want 25", len(steps))
	}
	if seen != 25 {
		t.Errorf("OnStep called %d times, want 25", seen)
	}
	for i, s := range steps {
		if s.Month != i {
			t.Fatalf("steps[%d].Month = %d", i, s.Month)
		}
	}
}

func TestRunStopOnExtinction(t *testing.T) {
	species := hardySpecies()
	species.MonthlyWaterConsumption = 1
	habitat := mildHabitat(10, 0)

	full := Run(species, habitat, Options{Years: 1, Engine: calmEngine()})
	if len(full) != 13 {
		t.Fatalf("full run len = %d, want 13", len(full))
	}

	short := Run(species, habitat, Options{Years: 1, Engine: calmEngine(), StopOnExtinction: true})
	last := short[len(short)-1]
	if last.Population() != 0 {
		t.Errorf("last population = %d, want 0", last.Population())
	}
	// Founders die of thirst in month 1.
	if len(short) != 2 {
		t.Errorf("short run len = %d, want 2", len(short))
	}
	if len(short[1].Deaths[components.DeathThirst]) != 2 {
		t.Errorf("expected both founders to die of thirst, deaths = %v", short[1].Deaths)
	}
}

// prolificSpecies needs nothing, tolerates any weather and breeds every
// month from birth.
func prolificSpecies() components.Species {
	return components.Species{
		Name:               "prolific",
		LifeSpan:           100,
		MinimumTemperature: -1000,
		MaximumTemperature: 1000,
		GestationMonths:    1,
	}
}

func TestRunMaxPopulation(t *testing.T) {
	species := prolificSpecies()
	habitat := mildHabitat(0, 0)
	opts := Options{
		Years:         10,
		Engine:        NewEngine(rand.New(rand.NewSource(1))),
		MaxPopulation: 50,
	}

	steps := Run(&species, habitat, opts)

	if len(steps) >= 10*components.MonthsPerYear+1 {
		t.Fatalf("run was not cut short: %d steps", len(steps))
	}
	last := steps[len(steps)-1]
	if !opts.Exceeded(last) {
		t.Errorf("last population = %d, want above 50", last.Population())
	}
	for _, s := range steps[:len(steps)-1] {
		if s.Population() > 50 {
			t.Fatalf("month %d population %d exceeded the ceiling before the last step", s.Month, s.Population())
		}
	}
}

func TestRunBatchPopulationLimit(t *testing.T) {
	batch := Batch{
		Scenarios:     []Scenario{{Species: prolificSpecies(), Habitat: *mildHabitat(0, 0)}},
		Iterations:    3,
		Years:         5,
		Seed:          9,
		MaleRatio:     0.5,
		Weather:       systems.DefaultWeather(),
		MaxPopulation: 100,
		Workers:       2,
	}

	results, err := RunBatch(batch)
	if !errors.Is(err, ErrPopulationLimit) {
		t.Fatalf("err = %v, want ErrPopulationLimit", err)
	}
	if results != nil {
		t.Errorf("results = %d, want none", len(results))
	}

	batch.MaxPopulation = 0
	batch.Years = 1
	if _, err := RunBatch(batch); err != nil {
		t.Errorf("unlimited batch: %v", err)
	}
}

func TestRunSeedDistinct(t *testing.T) {
	batch := Batch{Seed: 7, Iterations: 1001}
	seen := make(map[int64]string)
	for s := 0; s < 3; s++ {
		for i := 0; i < batch.Iterations; i++ {
			seed := batch.RunSeed(s, i)
			if prev, ok := seen[seed]; ok {
				t.Fatalf("seed %d shared by %s and scenario %d iteration %d", seed, prev, s, i)
			}
			seen[seed] = fmt.Sprintf("scenario %d iteration %d", s, i)
		}
	}
}

func TestRunBatchDeterministic(t *testing.T) {
	species := components.Species{
		Name:                    "rabbit",
		LifeSpan:                3,
		MonthlyFoodConsumption:  1,
		MonthlyWaterConsumption: 1,
		MinimumTemperature:      0,
		MaximumTemperature:      40,
		MinimumBreedingAge:      0,
		GestationMonths:         1,
	}
	batch := Batch{
		Scenarios:  []Scenario{{Species: species, Habitat: *mildHabitat(20, 20)}},
		Iterations: 3,
		Years:      5,
		Seed:       42,
		MaleRatio:  0.5,
		Weather:    systems.DefaultWeather(),
	}

	batch.Workers = 1
	sequential, err := RunBatch(batch)
	if err != nil {
		t.Fatal(err)
	}
	batch.Workers = 4
	parallel, err := RunBatch(batch)
	if err != nil {
		t.Fatal(err)
	}

	if len(sequential) != 3 || len(parallel) != 3 {
		t.Fatalf("results = %d/%d, want 3", len(sequential), len(parallel))
	}
	for i := range sequential {
		a, b := sequential[i], parallel[i]
		if a.Iteration != i || a.Seed != batch.RunSeed(0, i) {
			t.Errorf("result %d: iteration=%d seed=%d", i, a.Iteration, a.Seed)
		}
		if len(a.Steps) != len(b.Steps) {
			t.Fatalf("result %d: lengths differ %d vs %d", i, len(a.Steps), len(b.Steps))
		}
		for m := range a.Steps {
			if a.Steps[m].Population() != b.Steps[m].Population() {
				t.Fatalf("result %d month %d: population %d vs %d", i, m, a.Steps[m].Population(), b.Steps[m].Population())
			}
		}
	}
}
