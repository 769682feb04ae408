package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir          string
	monthsFile   *os.File
	bookmarkFile *os.File
	summaryFile  *os.File

	// Track if headers have been written
	monthsHeaderWritten   bool
	bookmarkHeaderWritten bool
	summaryHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "months.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating months.csv: %w", err)
	}
	om.monthsFile = f

	f, err = os.Create(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		om.monthsFile.Close()
		return nil, fmt.Errorf("creating bookmarks.csv: %w", err)
	}
	om.bookmarkFile = f

	f, err = os.Create(filepath.Join(dir, "summary.csv"))
	if err != nil {
		om.monthsFile.Close()
		om.bookmarkFile.Close()
		return nil, fmt.Errorf("creating summary.csv: %w", err)
	}
	om.summaryFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteMonths appends month rows to months.csv.
func (om *OutputManager) WriteMonths(rows []MonthStats) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := writeCSV(om.monthsFile, rows, &om.monthsHeaderWritten); err != nil {
		return fmt.Errorf("writing months: %w", err)
	}
	return nil
}

// WriteBookmarks appends bookmark records to bookmarks.csv.
func (om *OutputManager) WriteBookmarks(bookmarks []Bookmark) error {
	if om == nil || len(bookmarks) == 0 {
		return nil
	}
	if err := writeCSV(om.bookmarkFile, bookmarks, &om.bookmarkHeaderWritten); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}

// WriteSummary appends scenario reports to summary.csv.
func (om *OutputManager) WriteSummary(reports []ScenarioReport) error {
	if om == nil || len(reports) == 0 {
		return nil
	}
	if err := writeCSV(om.summaryFile, reports, &om.summaryHeaderWritten); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// WriteRecord writes one run's months and bookmarks.
func (om *OutputManager) WriteRecord(rec RunRecord) error {
	if err := om.WriteMonths(rec.Months); err != nil {
		return err
	}
	return om.WriteBookmarks(rec.Bookmarks)
}

// writeCSV marshals records, including headers only on the first write.
func writeCSV(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.monthsFile, om.bookmarkFile, om.summaryFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
