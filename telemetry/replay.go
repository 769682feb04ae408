package telemetry

import (
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/sim"
)

// RunRecord is everything derived from one run's history.
type RunRecord struct {
	Labels    Labels
	Summary   Summary
	Months    []MonthStats
	Bookmarks []Bookmark
	Lifespans LifespanStats
}

// Replay walks a finished history through the collector, census and
// bookmark detector.
func Replay(steps []*sim.Step, labels Labels, cfg config.BookmarksConfig) RunRecord {
	collector := NewCollector(labels)
	census := NewCensus()
	detector := NewBookmarkDetector(cfg)

	var bookmarks []Bookmark
	for _, step := range steps {
		census.Observe(step)
		stats := collector.Record(step)
		bookmarks = append(bookmarks, detector.Check(stats)...)
	}

	return RunRecord{
		Labels:    labels,
		Summary:   Summarize(steps),
		Months:    collector.Rows(),
		Bookmarks: bookmarks,
		Lifespans: census.Lifespans(),
	}
}

// Analyze replays every result of a batch and aggregates them per
// scenario. Records keep the batch result order; reports follow scenario
// order.
func Analyze(b sim.Batch, results []sim.Result, cfg config.BookmarksConfig) ([]RunRecord, []ScenarioReport) {
	records := make([]RunRecord, len(results))
	perScenario := make([][]RunRecord, len(b.Scenarios))

	for i, res := range results {
		scenario := b.Scenarios[res.Scenario]
		records[i] = Replay(res.Steps, Labels{
			Species:   scenario.Species.Name,
			Habitat:   scenario.Habitat.Name,
			Iteration: res.Iteration,
			Seed:      res.Seed,
		}, cfg)
		perScenario[res.Scenario] = append(perScenario[res.Scenario], records[i])
	}

	reports := make([]ScenarioReport, len(b.Scenarios))
	for i, scenario := range b.Scenarios {
		reports[i] = Aggregate(scenario.Species.Name, scenario.Habitat.Name, perScenario[i])
	}
	return records, reports
}
