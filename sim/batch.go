package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// ErrPopulationLimit is returned by RunBatch when a run outgrows
// Batch.MaxPopulation.
var ErrPopulationLimit = errors.New("population limit exceeded")

// Scenario pairs one species with one habitat.
type Scenario struct {
	Species components.Species
	Habitat components.Habitat
}

// Batch describes a set of independent runs.
type Batch struct {
	Scenarios  []Scenario
	Iterations int
	Years      int
	Seed       int64

	MaleRatio        float64
	Weather          systems.Weather
	ResetExposure    bool
	StopOnExtinction bool

	// MaxPopulation bounds the animals alive in any month of any run;
	// 0 = unlimited.
	MaxPopulation int

	// Workers bounds concurrent runs; 0 uses GOMAXPROCS, 1 runs sequentially.
	Workers int
}

// Result is the full history of one run.
type Result struct {
	Scenario  int // index into Batch.Scenarios
	Iteration int
	Seed      int64
	Steps     []*Step
}

func (b Batch) iterations() int {
	if b.Iterations < 1 {
		return 1
	}
	return b.Iterations
}

// RunSeed derives the seed of one run so results do not depend on
// scheduling order. Every (scenario, iteration) pair of the batch gets a
// distinct seed.
func (b Batch) RunSeed(scenario, iteration int) int64 {
	return b.Seed + int64(scenario)*int64(b.iterations()) + int64(iteration)
}

// RunBatch executes every scenario Iterations times. Runs share no mutable
// state; each has its own engine and RNG. Results are ordered by scenario,
// then iteration.
//
// When a run exceeds MaxPopulation no further runs are started and the
// error wraps ErrPopulationLimit.
func RunBatch(b Batch) ([]Result, error) {
	iterations := b.iterations()
	results := make([]Result, len(b.Scenarios)*iterations)

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		limited  atomic.Bool
		errOnce  sync.Once
		limitErr error
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if limited.Load() {
					continue
				}
				res, exceeded := b.run(idx/iterations, idx%iterations)
				if exceeded {
					limited.Store(true)
					errOnce.Do(func() {
						last := res.Steps[len(res.Steps)-1]
						limitErr = fmt.Errorf("%w: %s in %s reached %d animals in month %d (limit %d)",
							ErrPopulationLimit,
							b.Scenarios[res.Scenario].Species.Name,
							b.Scenarios[res.Scenario].Habitat.Name,
							last.Population(), last.Month, b.MaxPopulation)
					})
					continue
				}
				results[idx] = res
			}
		}()
	}
	for idx := range results {
		if limited.Load() {
			break
		}
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if limitErr != nil {
		return nil, limitErr
	}
	return results, nil
}

func (b Batch) run(scenario, iteration int) (Result, bool) {
	seed := b.RunSeed(scenario, iteration)

	engine := NewEngine(rand.New(rand.NewSource(seed)))
	engine.MaleRatio = b.MaleRatio
	engine.Weather = b.Weather
	engine.ResetExposure = b.ResetExposure

	// Copies keep runs independent of each other and of the caller.
	species := b.Scenarios[scenario].Species
	habitat := b.Scenarios[scenario].Habitat

	opts := Options{
		Years:            b.Years,
		Engine:           engine,
		StopOnExtinction: b.StopOnExtinction,
		MaxPopulation:    b.MaxPopulation,
	}
	steps := Run(&species, &habitat, opts)
	return Result{
		Scenario:  scenario,
		Iteration: iteration,
		Seed:      seed,
		Steps:     steps,
	}, opts.Exceeded(steps[len(steps)-1])
}
