package telemetry

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// Labels identify the run a row belongs to.
type Labels struct {
	Species   string
	Habitat   string
	Iteration int
	Seed      int64
}

// MonthStats is one month of one run, written as a row of months.csv.
type MonthStats struct {
	Species   string `csv:"species"`
	Habitat   string `csv:"habitat"`
	Iteration int    `csv:"iteration"`

	Month       int     `csv:"month"`
	Year        int     `csv:"year"`
	Season      string  `csv:"season"`
	Temperature float64 `csv:"temperature"`

	// Population at month end
	Population int `csv:"population"`
	Males      int `csv:"males"`
	Females    int `csv:"females"`

	Births int `csv:"births"`
	Deaths int `csv:"deaths"`

	// Deaths by cause
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsStarvation int `csv:"deaths_starvation"`
	DeathsThirst     int `csv:"deaths_thirst"`
	DeathsTooCold    int `csv:"deaths_too_cold"`
	DeathsTooHot     int `csv:"deaths_too_hot"`
}

// DeathsBy returns the death count for a cause.
func (m MonthStats) DeathsBy(cause components.DeathCause) int {
	switch cause {
	case components.DeathOldAge:
		return m.DeathsOldAge
	case components.DeathStarvation:
		return m.DeathsStarvation
	case components.DeathThirst:
		return m.DeathsThirst
	case components.DeathTooCold:
		return m.DeathsTooCold
	case components.DeathTooHot:
		return m.DeathsTooHot
	}
	return 0
}

// Collector turns snapshots into MonthStats rows.
type Collector struct {
	labels Labels
	rows   []MonthStats
}

// NewCollector creates a collector for one run.
func NewCollector(labels Labels) *Collector {
	return &Collector{labels: labels}
}

// Record converts a snapshot to a row and keeps it.
func (c *Collector) Record(step *sim.Step) MonthStats {
	row := MonthStats{
		Species:   c.labels.Species,
		Habitat:   c.labels.Habitat,
		Iteration: c.labels.Iteration,

		Month:       step.Month,
		Year:        step.Month / components.MonthsPerYear,
		Season:      string(step.Season),
		Temperature: step.Temperature,

		Population: step.Population(),
		Males:      step.Males(),
		Females:    step.Females(),

		Births: len(step.Births),
		Deaths: step.DeathCount(),

		DeathsOldAge:     len(step.Deaths[components.DeathOldAge]),
		DeathsStarvation: len(step.Deaths[components.DeathStarvation]),
		DeathsThirst:     len(step.Deaths[components.DeathThirst]),
		DeathsTooCold:    len(step.Deaths[components.DeathTooCold]),
		DeathsTooHot:     len(step.Deaths[components.DeathTooHot]),
	}
	c.rows = append(c.rows, row)
	return row
}

// Rows returns every recorded row in month order.
func (c *Collector) Rows() []MonthStats {
	return c.rows
}
