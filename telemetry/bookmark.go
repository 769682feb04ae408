package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction         BookmarkType = "extinction"
	BookmarkPopulationCrash    BookmarkType = "population_crash"
	BookmarkPopulationRecovery BookmarkType = "population_recovery"
	BookmarkStablePopulation   BookmarkType = "stable_population"
)

// Bookmark marks a notable month in a run.
type Bookmark struct {
	Species   string `csv:"species" json:"species"`
	Habitat   string `csv:"habitat" json:"habitat"`
	Iteration int    `csv:"iteration" json:"iteration"`

	Type        BookmarkType `csv:"type" json:"type"`
	Month       int          `csv:"month" json:"month"`
	Population  int          `csv:"population" json:"population"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"species", b.Species,
		"habitat", b.Habitat,
		"iteration", b.Iteration,
		"type", string(b.Type),
		"month", b.Month,
		"population", b.Population,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable population events month by month.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling population history (circular buffer)
	history     []float64
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	extinct           bool
	established       bool // population has reached the recovery target once
	recentMin         int  // minimum population since established
	recentPeak        int  // peak population since the last crash
	stableMonthsCount int
}

// NewBookmarkDetector creates a detector with the given thresholds.
func NewBookmarkDetector(cfg config.BookmarksConfig) *BookmarkDetector {
	historySize := cfg.HistorySize
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful spread
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]float64, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest month and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats MonthStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Population crash: dropped DropPercent from recent peak
	if b := bd.checkCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Population recovery: was a bottleneck, now Multiplier times that
	if b := bd.checkRecovery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(float64(stats.Population))

	// Stable population: low variation over the history window
	if b := bd.checkStable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}
	if bd.established && stats.Population > 0 && stats.Population < bd.recentMin {
		bd.recentMin = stats.Population
	}
	if !bd.established && stats.Population >= bd.cfg.Recovery.MinFinal && stats.Population > 0 {
		bd.established = true
		bd.recentMin = stats.Population
	}

	for i := range bookmarks {
		bookmarks[i].Species = stats.Species
		bookmarks[i].Habitat = stats.Habitat
		bookmarks[i].Iteration = stats.Iteration
		bookmarks[i].Month = stats.Month
		bookmarks[i].Population = stats.Population
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(population float64) {
	bd.history[bd.historyIdx] = population
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []float64 {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinction(stats MonthStats) *Bookmark {
	if bd.extinct || stats.Population > 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Description: fmt.Sprintf("Population went extinct in year %d (%s)", stats.Year, stats.Season),
	}
}

func (bd *BookmarkDetector) checkCrash(stats MonthStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Population == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if dropPercent >= bd.cfg.Crash.DropPercent && bd.recentPeak-stats.Population >= bd.cfg.Crash.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Population),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkRecovery(stats MonthStats) *Bookmark {
	cfg := bd.cfg.Recovery
	if !bd.established || bd.recentMin == 0 || bd.recentMin > cfg.MinPopulation {
		return nil
	}

	threshold := bd.recentMin * cfg.Multiplier
	if stats.Population >= threshold && stats.Population >= cfg.MinFinal {
		// Reset the minimum after triggering
		oldMin := bd.recentMin
		bd.recentMin = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationRecovery,
			Description: fmt.Sprintf("Population recovered from %d to %d", oldMin, stats.Population),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStable(stats MonthStats) *Bookmark {
	cfg := bd.cfg.Stable
	if stats.Population < cfg.MinPopulation {
		bd.stableMonthsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < bd.historySize {
		return nil
	}

	mean, std := stat.MeanStdDev(history, nil)
	if mean > 0 && std/mean < cfg.CVThreshold {
		bd.stableMonthsCount++
	} else {
		bd.stableMonthsCount = 0
	}

	if bd.stableMonthsCount == cfg.Months { // trigger exactly once per stable stretch
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Description: fmt.Sprintf("Population stable around %.0f for %d months", mean, cfg.Months),
		}
	}

	return nil
}
