package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/report"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults; a positional path also works)")
	years := flag.Int("years", 0, "Years to simulate (0 = use config)")
	iterations := flag.Int("iterations", 0, "Runs per species/habitat pair (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, or time-based)")
	speciesNames := flag.String("species", "", "Comma-separated species to simulate (empty = all)")
	habitatNames := flag.String("habitat", "", "Comma-separated habitats to simulate (empty = all)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	reportPath := flag.String("report", "", "Write the text report to this file instead of stdout")
	parallel := flag.Int("parallel", -1, "Concurrent runs (-1 = use config, 0 = GOMAXPROCS)")
	logStats := flag.Bool("log-stats", false, "Log every run summary via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	// Set up slog (JSON to stderr; stdout carries the report)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := *configPath
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *years > 0 {
		cfg.Years = *years
	}
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}
	if *parallel >= 0 {
		cfg.Simulation.Parallel = *parallel
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	scenarios, err := cfg.Scenarios(splitNames(*speciesNames), splitNames(*habitatNames))
	if err != nil {
		slog.Error("invalid selection", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, scenarios, *outputDir, *reportPath, *logStats); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, scenarios []sim.Scenario, outputDir, reportPath string, logStats bool) error {
	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	slog.Info("starting simulation",
		"seed", cfg.Simulation.Seed,
		"years", cfg.Years,
		"iterations", cfg.Iterations,
		"scenarios", len(scenarios),
	)

	start := time.Now()
	batch := cfg.Batch(scenarios)
	results, err := sim.RunBatch(batch)
	if err != nil {
		return err
	}
	records, reports := telemetry.Analyze(batch, results, cfg.Bookmarks)

	for _, rec := range records {
		if logStats {
			slog.Info("run",
				"species", rec.Labels.Species,
				"habitat", rec.Labels.Habitat,
				"iteration", rec.Labels.Iteration,
				"seed", rec.Labels.Seed,
				"summary", rec.Summary,
				"lifespans", rec.Lifespans,
			)
			for _, b := range rec.Bookmarks {
				b.LogBookmark()
			}
		}
		if err := output.WriteRecord(rec); err != nil {
			return err
		}
	}
	if err := output.WriteSummary(reports); err != nil {
		return err
	}
	for _, r := range reports {
		slog.Debug("scenario", "report", r)
	}

	slog.Info("simulation finished",
		"runs", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
		"output_dir", output.Dir(),
	)

	var w io.Writer = os.Stdout
	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer f.Close()
		w = f
	}
	return report.Write(w, cfg.Years, reports)
}

func splitNames(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
