package telemetry

import (
	"testing"

	"github.com/pthm-cable/habitat/config"
)

func testBookmarksConfig() config.BookmarksConfig {
	return config.BookmarksConfig{
		HistorySize: 4,
		Crash:       config.CrashConfig{DropPercent: 0.5, MinDrop: 5},
		Recovery:    config.RecoveryConfig{MinPopulation: 3, Multiplier: 3, MinFinal: 6},
		Stable:      config.StableConfig{MinPopulation: 10, CVThreshold: 0.1, Months: 3},
	}
}

func feed(bd *BookmarkDetector, populations ...int) []Bookmark {
	var all []Bookmark
	for i, p := range populations {
		all = append(all, bd.Check(MonthStats{Month: i, Population: p})...)
	}
	return all
}

func countType(bookmarks []Bookmark, typ BookmarkType) int {
	n := 0
	for _, bm := range bookmarks {
		if bm.Type == typ {
			n++
		}
	}
	return n
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 2, 2, 1, 0, 0, 0)

	if got := countType(bookmarks, BookmarkExtinction); got != 1 {
		t.Fatalf("extinction bookmarks = %d, want exactly 1", got)
	}
	for _, bm := range bookmarks {
		if bm.Type == BookmarkExtinction && bm.Month != 3 {
			t.Errorf("extinction month = %d, want 3", bm.Month)
		}
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 20, 20, 20, 9)

	if got := countType(bookmarks, BookmarkPopulationCrash); got != 1 {
		t.Errorf("crash bookmarks = %d, want 1", got)
	}
}

func TestBookmarkDetector_SmallDropIsNotCrash(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	// 50% drop but only 4 animals lost
	bookmarks := feed(bd, 8, 8, 4)

	if got := countType(bookmarks, BookmarkPopulationCrash); got != 0 {
		t.Errorf("crash bookmarks = %d, want 0", got)
	}
}

func TestBookmarkDetector_Recovery(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 2, 4, 8, 3, 2, 5, 7)

	if got := countType(bookmarks, BookmarkPopulationRecovery); got != 1 {
		t.Errorf("recovery bookmarks = %d, want 1", got)
	}
}

func TestBookmarkDetector_FounderGrowthIsNotRecovery(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 2, 2, 4, 8, 16)

	if got := countType(bookmarks, BookmarkPopulationRecovery); got != 0 {
		t.Errorf("recovery bookmarks = %d, want 0", got)
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 50, 51, 50, 49, 50, 51, 50, 50, 49, 50)

	if got := countType(bookmarks, BookmarkStablePopulation); got != 1 {
		t.Errorf("stable bookmarks = %d, want exactly 1", got)
	}
}

func TestBookmarkDetector_VolatileIsNotStable(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bookmarks := feed(bd, 20, 40, 20, 40, 20, 40, 20, 40)

	if got := countType(bookmarks, BookmarkStablePopulation); got != 0 {
		t.Errorf("stable bookmarks = %d, want 0", got)
	}
}

func TestBookmarkLabels(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarksConfig())
	bd.Check(MonthStats{Species: "bear", Habitat: "forest", Iteration: 2, Month: 0, Population: 2})
	bookmarks := bd.Check(MonthStats{Species: "bear", Habitat: "forest", Iteration: 2, Month: 1, Population: 0})

	if len(bookmarks) != 1 {
		t.Fatalf("bookmarks = %+v, want one extinction", bookmarks)
	}
	bm := bookmarks[0]
	if bm.Species != "bear" || bm.Habitat != "forest" || bm.Iteration != 2 || bm.Month != 1 {
		t.Errorf("bookmark labels = %+v", bm)
	}
}
