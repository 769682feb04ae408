package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// Summary reduces one run's history to population and mortality figures.
type Summary struct {
	Months            int // snapshots, including month 0
	AveragePopulation float64
	MaxPopulation     float64
	PopulationStdDev  float64
	FinalPopulation   int

	TotalDeaths   int
	TotalBorn     int // deaths plus the final live population
	MortalityRate float64
	DeathsByCause map[components.DeathCause]int

	ExtinctionMonth int // first month with no animals, -1 if never
}

// Summarize computes a Summary over a full snapshot sequence.
func Summarize(steps []*sim.Step) Summary {
	s := Summary{
		Months:          len(steps),
		DeathsByCause:   make(map[components.DeathCause]int),
		ExtinctionMonth: -1,
	}
	if len(steps) == 0 {
		return s
	}

	populations := make([]float64, len(steps))
	for i, step := range steps {
		populations[i] = float64(step.Population())
		for cause, dead := range step.Deaths {
			s.DeathsByCause[cause] += len(dead)
			s.TotalDeaths += len(dead)
		}
		if s.ExtinctionMonth < 0 && step.Population() == 0 {
			s.ExtinctionMonth = step.Month
		}
	}

	s.AveragePopulation = stat.Mean(populations, nil)
	s.MaxPopulation = floats.Max(populations)
	if len(populations) > 1 {
		s.PopulationStdDev = stat.StdDev(populations, nil)
	}
	s.FinalPopulation = steps[len(steps)-1].Population()
	s.TotalBorn = s.TotalDeaths + s.FinalPopulation
	s.MortalityRate = MortalityRate(s.TotalDeaths, s.TotalBorn)

	return s
}

// Survived reports whether any animal is alive at the end of the run.
func (s Summary) Survived() bool {
	return s.FinalPopulation > 0
}

// CausePercent returns the share of all deaths attributed to cause, in
// percent.
func (s Summary) CausePercent(cause components.DeathCause) float64 {
	return Percent(float64(s.DeathsByCause[cause]), float64(s.TotalDeaths))
}

// MortalityRate returns deaths / born as a fraction, 0 when nobody was born.
func MortalityRate(deaths, born int) float64 {
	if born == 0 {
		return 0
	}
	return float64(deaths) / float64(born)
}

// Percent returns part / whole * 100, 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("months", s.Months),
		slog.Float64("avg_population", s.AveragePopulation),
		slog.Float64("max_population", s.MaxPopulation),
		slog.Float64("population_std", s.PopulationStdDev),
		slog.Int("final_population", s.FinalPopulation),
		slog.Int("deaths", s.TotalDeaths),
		slog.Int("born", s.TotalBorn),
		slog.Float64("mortality_rate", s.MortalityRate),
		slog.Int("extinction_month", s.ExtinctionMonth),
	}
	for _, cause := range components.DeathCauses {
		if n := s.DeathsByCause[cause]; n > 0 {
			attrs = append(attrs, slog.Int("deaths_"+string(cause), n))
		}
	}
	return slog.GroupValue(attrs...)
}

// ScenarioReport averages the records of every iteration of one
// species/habitat pair.
type ScenarioReport struct {
	Species    string `json:"species" csv:"species"`
	Habitat    string `json:"habitat" csv:"habitat"`
	Iterations int    `json:"iterations" csv:"iterations"`

	AveragePopulation float64 `json:"average_population" csv:"avg_population"`
	MaxPopulation     float64 `json:"max_population" csv:"max_population"`
	MortalityRate     float64 `json:"mortality_rate" csv:"mortality_rate"` // percent
	SurvivalRate      float64 `json:"survival_rate" csv:"survival_rate"`   // percent of iterations alive at the end

	// Percent of all deaths per cause, keyed by cause tag
	CausePercent map[string]float64 `json:"cause_percent" csv:"-"`

	MeanLifespanMonths  float64 `json:"mean_lifespan_months" csv:"mean_lifespan_months"`
	MeanExtinctionMonth float64 `json:"mean_extinction_month" csv:"mean_extinction_month"` // over extinct iterations, -1 if none
}

// Aggregate averages per-iteration records. Cause shares are computed from
// pooled death counts so iterations with more deaths weigh more.
func Aggregate(species, habitat string, records []RunRecord) ScenarioReport {
	r := ScenarioReport{
		Species:             species,
		Habitat:             habitat,
		Iterations:          len(records),
		CausePercent:        make(map[string]float64),
		MeanExtinctionMonth: -1,
	}
	if len(records) == 0 {
		return r
	}

	n := len(records)
	avg := make([]float64, n)
	maxes := make([]float64, n)
	mortality := make([]float64, n)
	survived := make([]float64, n)
	var lifespans, extinctions []float64
	deaths := make(map[components.DeathCause]int)
	totalDeaths := 0

	for i, rec := range records {
		s := rec.Summary
		avg[i] = s.AveragePopulation
		maxes[i] = s.MaxPopulation
		mortality[i] = s.MortalityRate
		if s.Survived() {
			survived[i] = 1
		}
		if s.ExtinctionMonth >= 0 {
			extinctions = append(extinctions, float64(s.ExtinctionMonth))
		}
		if rec.Lifespans.Retired > 0 {
			lifespans = append(lifespans, rec.Lifespans.MeanMonths)
		}
		for cause, count := range s.DeathsByCause {
			deaths[cause] += count
		}
		totalDeaths += s.TotalDeaths
	}

	r.AveragePopulation = stat.Mean(avg, nil)
	r.MaxPopulation = stat.Mean(maxes, nil)
	r.MortalityRate = stat.Mean(mortality, nil) * 100
	r.SurvivalRate = stat.Mean(survived, nil) * 100
	if len(lifespans) > 0 {
		r.MeanLifespanMonths = stat.Mean(lifespans, nil)
	}
	if len(extinctions) > 0 {
		r.MeanExtinctionMonth = stat.Mean(extinctions, nil)
	}
	for _, cause := range components.DeathCauses {
		if deaths[cause] > 0 {
			r.CausePercent[string(cause)] = Percent(float64(deaths[cause]), float64(totalDeaths))
		}
	}

	return r
}

// LogValue implements slog.LogValuer for structured logging.
func (r ScenarioReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("species", r.Species),
		slog.String("habitat", r.Habitat),
		slog.Int("iterations", r.Iterations),
		slog.Float64("avg_population", r.AveragePopulation),
		slog.Float64("max_population", r.MaxPopulation),
		slog.Float64("mortality_rate", r.MortalityRate),
		slog.Float64("survival_rate", r.SurvivalRate),
		slog.Float64("mean_lifespan_months", r.MeanLifespanMonths),
	)
}
