// Package main provides CMA-ES optimization for finding the smallest monthly
// food and water allotment that keeps a species alive in a habitat.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/habitat/config"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	FoodFraction  float64 `csv:"food_fraction"`
	WaterFraction float64 `csv:"water_fraction"`
	MonthlyFood   float64 `csv:"monthly_food"`
	MonthlyWater  float64 `csv:"monthly_water"`
	SurvivalRate  float64 `csv:"survival_rate"`
	MeanMonths    float64 `csv:"mean_months"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	speciesName := flag.String("species", "", "Species to keep alive (empty = first configured)")
	habitatName := flag.String("habitat", "", "Habitat to shrink (empty = first configured)")
	years := flag.Int("years", 0, "Horizon in years (0 = use config)")
	seeds := flag.Int("seeds", 5, "Number of seeds per evaluation")
	target := flag.Float64("target", 0.8, "Required fraction of seeds surviving the horizon")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *years > 0 {
		cfg.Years = *years
	}
	cfg.Iterations = *seeds
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 42
	}

	scenarios, err := cfg.Scenarios(nameList(*speciesName), nameList(*habitatName))
	if err != nil {
		log.Fatalf("invalid selection: %v", err)
	}
	species, habitat := scenarios[0].Species, scenarios[0].Habitat

	// Create parameter vector and evaluator
	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, species, habitat, cfg.Batch(nil), *target)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	// Create optimization problem
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Denormalize to get raw parameter values
			raw := params.Denormalize(x)
			return evaluator.Evaluate(raw)
		},
	}

	// CMA-ES settings
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; each evaluation runs its seeds in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	// Track evaluations and timing
	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Denormalize and clamp to get actual parameter values
		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		survival, months := evaluator.LastSurvival()
		scaled := params.ApplyToHabitat(habitat, clamped)
		record := []EvalRecord{{
			Eval:          evalCount,
			Fitness:       fitness,
			FoodFraction:  clamped[0],
			WaterFraction: clamped[1],
			MonthlyFood:   scaled.MonthlyFood,
			MonthlyWater:  scaled.MonthlyWater,
			SurvivalRate:  survival,
			MeanMonths:    months,
		}}
		if !headerWritten {
			err = gocsv.Marshal(record, logFile)
			headerWritten = true
		} else {
			err = gocsv.MarshalWithoutHeaders(record, logFile)
		}
		if err != nil {
			log.Printf("failed to log evaluation: %v", err)
		}

		// Calculate timing
		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: food=%.1f water=%.1f survived=%.0f%% months=%.0f (best=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, scaled.MonthlyFood, scaled.MonthlyWater, survival*100, months, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	// Run optimization
	fmt.Printf("Starting CMA-ES optimization for %s in %s: population=%d, max_evals=%d\n",
		species.Name, habitat.Name, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, years per run: %d, target survival: %.0f%%\n", *seeds, cfg.Years, *target*100)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.3f\n", bestFitness)
	if bestFitness >= infeasiblePenalty {
		fmt.Printf("No allotment met the %.0f%% survival target within bounds\n", *target*100)
	}

	best := params.ApplyToHabitat(habitat, bestParams)
	fmt.Println("\nBest allotment:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Name, bestParams[i])
	}
	fmt.Printf("  monthly_food: %.2f\n  monthly_water: %.2f\n", best.MonthlyFood, best.MonthlyWater)

	// Save best habitat
	data, err := yaml.Marshal(ToConfig(best))
	if err != nil {
		log.Fatalf("failed to marshal best habitat: %v", err)
	}
	habitatOutPath := filepath.Join(*outputDir, "best_habitat.yaml")
	if err := os.WriteFile(habitatOutPath, data, 0644); err != nil {
		log.Printf("failed to write best habitat: %v", err)
	} else {
		fmt.Printf("\nBest habitat saved to: %s\n", habitatOutPath)
	}
}

func nameList(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}
