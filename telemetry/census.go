package telemetry

import (
	"log/slog"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// Lifetime is the census record of one animal.
type Lifetime struct {
	ID         uint32
	MotherID   uint32
	Female     bool
	BirthMonth int
	Children   int
}

// LifespanStats summarizes lifetimes of retired (dead) animals.
type LifespanStats struct {
	Retired int
	Living  int

	MeanMonths   float64
	MedianMonths float64
	MaxMonths    float64
	MeanChildren float64 // per retired animal

	OldestLivingMonths int
}

// LogValue implements slog.LogValuer for structured logging.
func (l LifespanStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("retired", l.Retired),
		slog.Int("living", l.Living),
		slog.Float64("mean_months", l.MeanMonths),
		slog.Float64("median_months", l.MedianMonths),
		slog.Float64("max_months", l.MaxMonths),
		slog.Float64("mean_children", l.MeanChildren),
		slog.Int("oldest_living_months", l.OldestLivingMonths),
	)
}

// Census tracks one lifetime entity per living animal and retires it when
// the animal dies.
type Census struct {
	world     *ecs.World
	lifetimes *ecs.Map1[Lifetime]
	living    *ecs.Filter1[Lifetime]
	entities  map[uint32]ecs.Entity

	month int

	retiredLifespans []float64
	retiredChildren  []float64
}

// NewCensus creates an empty census.
func NewCensus() *Census {
	world := ecs.NewWorld()
	return &Census{
		world:     world,
		lifetimes: ecs.NewMap1[Lifetime](world),
		living:    ecs.NewFilter1[Lifetime](world),
		entities:  make(map[uint32]ecs.Entity),
	}
}

// Observe applies one snapshot: the month's dead are retired, then its
// newborns are registered and credited to their mothers.
func (c *Census) Observe(step *sim.Step) {
	c.month = step.Month

	for _, cause := range components.DeathCauses {
		for i := range step.Deaths[cause] {
			c.retire(step.Deaths[cause][i].ID, step.Month)
		}
	}

	for i := range step.Births {
		c.register(&step.Births[i])
	}
}

func (c *Census) register(a *components.Animal) {
	lt := Lifetime{
		ID:         a.ID,
		MotherID:   a.MotherID,
		Female:     a.IsFemale(),
		BirthMonth: a.BirthMonth,
	}
	c.entities[a.ID] = c.lifetimes.NewEntity(&lt)

	if mother, ok := c.entities[a.MotherID]; ok && a.MotherID != 0 {
		c.lifetimes.Get(mother).Children++
	}
}

func (c *Census) retire(id uint32, month int) {
	entity, ok := c.entities[id]
	if !ok {
		return
	}
	lt := c.lifetimes.Get(entity)
	c.retiredLifespans = append(c.retiredLifespans, float64(month-lt.BirthMonth))
	c.retiredChildren = append(c.retiredChildren, float64(lt.Children))

	c.world.RemoveEntity(entity)
	delete(c.entities, id)
}

// Get returns the lifetime of a living animal, or nil.
func (c *Census) Get(id uint32) *Lifetime {
	entity, ok := c.entities[id]
	if !ok {
		return nil
	}
	return c.lifetimes.Get(entity)
}

// Lifespans computes lifetime statistics for every retired animal.
func (c *Census) Lifespans() LifespanStats {
	stats := LifespanStats{Retired: len(c.retiredLifespans)}

	query := c.living.Query()
	for query.Next() {
		lt := query.Get()
		stats.Living++
		if age := c.month - lt.BirthMonth; age > stats.OldestLivingMonths {
			stats.OldestLivingMonths = age
		}
	}

	if stats.Retired == 0 {
		return stats
	}

	sorted := make([]float64, len(c.retiredLifespans))
	copy(sorted, c.retiredLifespans)
	sort.Float64s(sorted)

	stats.MeanMonths = stat.Mean(sorted, nil)
	stats.MedianMonths = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	stats.MaxMonths = floats.Max(sorted)
	stats.MeanChildren = stat.Mean(c.retiredChildren, nil)

	return stats
}
