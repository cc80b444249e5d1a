package routing

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"depot-router/internal/distance"
	"depot-router/internal/instance"
	"depot-router/internal/models"
)

// maxParentDraws bounds the redraws spent looking for a second parent distinct from the first
const maxParentDraws = 8

// Result is the final state of a search
type Result struct {
	Best        models.Solution
	BestFitness float64
	History     []float64 // best population fitness at the end of each generation
	Fallbacks   int
	Duration    time.Duration
}

// Engine runs the generational search for one instance
type Engine struct {
	inst      *models.Instance
	matrix    *distance.Matrix
	eval      *Evaluator
	construct *Constructor
	ops       *Operators
	params    Params
	rng       *rand.Rand
	observer  Observer
}

// Option customises an Engine
type Option func(*Engine)

// WithObserver routes engine events to o
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine validates the instance and parameters and precomputes distances.
// rng is the only randomness source; equal seeds give equal runs when Workers
// does not change the outcome (it never does: 2-opt draws no random numbers).
func NewEngine(inst *models.Instance, params Params, rng *rand.Rand, opts ...Option) (*Engine, error) {
	if err := instance.Validate(inst); err != nil {
		return nil, err
	}
	params, err := params.Normalized()
	if err != nil {
		return nil, fmt.Errorf("invalid engine parameters: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("invalid engine parameters: random source is nil")
	}

	e := &Engine{
		inst:     inst,
		params:   params,
		rng:      rng,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.matrix = distance.NewInstanceMatrix(inst)
	e.eval = NewEvaluator(inst, e.matrix)
	e.construct = NewConstructor(inst, e.eval, params.MaxConstructionAttempts, e.observer)
	e.ops = NewOperators(e.eval, e.construct, params, e.observer)
	return e, nil
}

// Params returns the normalized parameters in effect
func (e *Engine) Params() Params {
	return e.params
}

// Evaluator exposes the engine's fitness and feasibility checks
func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// Matrix exposes the precomputed distance matrix
func (e *Engine) Matrix() *distance.Matrix {
	return e.matrix
}

// Run builds the initial population and evolves it for the configured number
// of generations. If ctx is cancelled between generations the best solution
// found so far is returned together with ctx.Err().
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	totalStart := time.Now()
	log.Printf("[ENGINE] Starting search: depots=%d customers=%d vehicles=%d population=%d generations=%d",
		len(e.inst.Depots), len(e.inst.Customers), len(e.inst.Vehicles), e.params.PopulationSize, e.params.Generations)

	initStart := time.Now()
	pop, err := e.initialPopulation()
	if err != nil {
		return nil, err
	}
	log.Printf("[TIMING] Initial population: %v", time.Since(initStart))

	seed := pop.Best()
	best := Individual{Solution: seed.Solution.Clone(), Fitness: seed.Fitness}
	history := make([]float64, 0, e.params.Generations)

	finish := func() *Result {
		return &Result{
			Best:        best.Solution,
			BestFitness: best.Fitness,
			History:     history,
			Fallbacks:   e.ops.Fallbacks(),
			Duration:    time.Since(totalStart),
		}
	}

	for gen := 1; gen <= e.params.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			log.Printf("[ENGINE] Cancelled at generation %d: %v", gen, err)
			return finish(), err
		}

		child, err := e.breed(pop)
		if err != nil {
			return finish(), fmt.Errorf("generation %d: %w", gen, err)
		}
		pop.Add(child)
		pop.Trim()

		genBest := pop.Best()
		history = append(history, genBest.Fitness)
		if genBest.Fitness < best.Fitness {
			best = Individual{Solution: genBest.Solution.Clone(), Fitness: genBest.Fitness}
		}
		e.observer.GenerationFinished(gen, genBest.Fitness, pop.Len())

		if e.params.LogEvery > 0 && gen%e.params.LogEvery == 0 {
			log.Printf("[ENGINE] Generation %d/%d: population_best=%.4f best=%.4f population=%d",
				gen, e.params.Generations, genBest.Fitness, best.Fitness, pop.Len())
		}
	}

	result := finish()
	log.Printf("[ENGINE] Complete: best=%.4f fallbacks=%d", result.BestFitness, result.Fallbacks)
	log.Printf("[TIMING] TOTAL: %v", result.Duration)
	return result, nil
}

func (e *Engine) initialPopulation() (*Population, error) {
	pop := NewPopulation(e.params.PopulationSize, e.params.ThresholdPopulationSize)
	for i := 0; i < e.params.PopulationSize; i++ {
		sol, err := e.construct.Build(e.rng)
		if err != nil {
			return nil, fmt.Errorf("failed to build initial population: %w", err)
		}
		pop.Add(Individual{Solution: sol, Fitness: e.eval.Fitness(sol)})
	}
	return pop, nil
}

// breed selects two parents, crosses them, refines both children and returns the fitter
func (e *Engine) breed(pop *Population) (Individual, error) {
	first := pop.Tournament(e.rng)
	second := pop.Tournament(e.rng)
	for draw := 1; second == first && draw < maxParentDraws && pop.Len() > 1; draw++ {
		second = pop.Tournament(e.rng)
	}
	members := pop.Members()

	child1, _, child2, _ := e.ops.Crossover(e.rng, members[first].Solution, members[second].Solution)

	child1, err := e.refine(child1)
	if err != nil {
		return Individual{}, err
	}
	child2, err = e.refine(child2)
	if err != nil {
		return Individual{}, err
	}

	// operators may report a discarded candidate's fitness; rank by the kept solutions
	f1, f2 := e.eval.Fitness(child1), e.eval.Fitness(child2)
	if f1 < f2 {
		return Individual{Solution: child1, Fitness: f1}, nil
	}
	return Individual{Solution: child2, Fitness: f2}, nil
}

// refine optionally mutates the child, then runs local search
func (e *Engine) refine(child models.Solution) (models.Solution, error) {
	var err error
	if e.params.MutationRate > 0 && e.rng.Float64() < e.params.MutationRate {
		if child, _, err = e.ops.Mutate(e.rng, child); err != nil {
			return nil, err
		}
	}
	child, _, err = e.ops.LocalSearch(e.rng, child)
	return child, err
}
