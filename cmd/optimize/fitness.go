package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

// infeasiblePenalty puts every allotment that misses the survival target
// above every allotment that meets it.
const infeasiblePenalty = 10.0

// FitnessEvaluator runs batches of simulations and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	species  components.Species
	habitat  components.Habitat
	template sim.Batch // engine settings, seeds and horizon
	target   float64   // required fraction of surviving seeds

	mu           sync.Mutex
	lastSurvival float64
	lastMonths   float64
}

// Evaluation is the outcome of one parameter vector.
type Evaluation struct {
	Fitness      float64
	SurvivalRate float64 // fraction of seeds alive at the horizon
	MeanMonths   float64 // months until extinction, horizon if survived
}

// NewFitnessEvaluator creates a new evaluator. template.Iterations is the
// number of seeds per evaluation.
func NewFitnessEvaluator(params *ParamVector, species components.Species, habitat components.Habitat, template sim.Batch, target float64) *FitnessEvaluator {
	template.StopOnExtinction = true
	return &FitnessEvaluator{
		params:   params,
		species:  species,
		habitat:  habitat,
		template: template,
		target:   target,
	}
}

// LastSurvival returns the survival rate and mean survival months of the
// most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() (rate, months float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival, fe.lastMonths
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	return fe.EvaluateDetailed(x).Fitness
}

// EvaluateDetailed runs every seed for x. Feasible allotments score their
// cost; infeasible ones score the penalty plus how far they fell short.
func (fe *FitnessEvaluator) EvaluateDetailed(x []float64) Evaluation {
	batch := fe.template
	batch.Scenarios = []sim.Scenario{{
		Species: fe.species,
		Habitat: fe.params.ApplyToHabitat(fe.habitat, x),
	}}
	results, err := sim.RunBatch(batch)
	if err != nil {
		// Unscorable; rank it with the worst infeasible allotments.
		slog.Warn("evaluation aborted", "error", err)
		return Evaluation{Fitness: infeasiblePenalty + 15}
	}

	horizon := float64(batch.Years * components.MonthsPerYear)
	var survived, months float64
	for _, res := range results {
		s := telemetry.Summarize(res.Steps)
		if s.Survived() {
			survived++
			months += horizon
		} else {
			months += float64(s.ExtinctionMonth)
		}
	}

	n := math.Max(float64(len(results)), 1)
	eval := Evaluation{
		SurvivalRate: survived / n,
		MeanMonths:   months / n,
	}

	eval.Fitness = fe.params.Cost(x)
	if eval.SurvivalRate < fe.target {
		shortfall := fe.target - eval.SurvivalRate
		lifetime := 0.0
		if horizon > 0 {
			lifetime = 1 - eval.MeanMonths/horizon
		}
		eval.Fitness = infeasiblePenalty + 10*shortfall + 5*lifetime
	}

	fe.mu.Lock()
	fe.lastSurvival = eval.SurvivalRate
	fe.lastMonths = eval.MeanMonths
	fe.mu.Unlock()

	return eval
}
