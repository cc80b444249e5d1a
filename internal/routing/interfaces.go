package routing

import (
	"fmt"

	"depot-router/internal/models"
)

const (
	DefaultThresholdPopulationSize = 40
	DefaultMaxConstructionAttempts = 10000
	DefaultMutationRate            = 0.1
	DefaultLogEvery                = 50
)

// Params controls the evolution loop
type Params struct {
	PopulationSize          int
	ThresholdPopulationSize int // population may grow to this size before truncation
	Generations             int
	MutationRate            float64 // probability a child is mutated before local search
	MaxConstructionAttempts int
	Workers                 int // >1 runs per-route 2-opt concurrently
	ReportDiscardedFitness  bool
	LogEvery                int // 0 disables progress logging
}

// DefaultParams evolves 10 individuals for 200 generations
func DefaultParams() Params {
	return Params{
		PopulationSize:          10,
		ThresholdPopulationSize: DefaultThresholdPopulationSize,
		Generations:             200,
		MutationRate:            DefaultMutationRate,
		MaxConstructionAttempts: DefaultMaxConstructionAttempts,
		Workers:                 1,
		LogEvery:                DefaultLogEvery,
	}
}

// Normalized validates p and fills defaults for zero values
func (p Params) Normalized() (Params, error) {
	if p.PopulationSize < 1 {
		return p, fmt.Errorf("population size must be at least 1, got %d", p.PopulationSize)
	}
	if p.Generations < 0 {
		return p, fmt.Errorf("generations must not be negative, got %d", p.Generations)
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return p, fmt.Errorf("mutation rate must be within [0, 1], got %g", p.MutationRate)
	}
	if p.ThresholdPopulationSize == 0 {
		p.ThresholdPopulationSize = DefaultThresholdPopulationSize
	}
	if p.ThresholdPopulationSize < p.PopulationSize {
		p.ThresholdPopulationSize = p.PopulationSize
	}
	if p.MaxConstructionAttempts <= 0 {
		p.MaxConstructionAttempts = DefaultMaxConstructionAttempts
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	return p, nil
}

// RunParams converts the parameters into their persisted form
func (p Params) RunParams() models.RunParams {
	return models.RunParams{
		PopulationSize:          p.PopulationSize,
		ThresholdPopulationSize: p.ThresholdPopulationSize,
		Generations:             p.Generations,
		MutationRate:            p.MutationRate,
		ReportDiscardedFitness:  p.ReportDiscardedFitness,
	}
}

// Observer receives engine events. Implementations must be cheap; they run inline.
type Observer interface {
	ConstructionFinished(attempts int, err error)
	FeasibilityFallback(operator string)
	GenerationFinished(generation int, bestFitness float64, populationSize int)
}

type noopObserver struct{}

func (noopObserver) ConstructionFinished(int, error)      {}
func (noopObserver) FeasibilityFallback(string)           {}
func (noopObserver) GenerationFinished(int, float64, int) {}

// ErrConstructionFailed is returned when no feasible random solution was found
// within the attempt limit. It signals a configuration error: the fleet cannot
// cover the customers under random depot assignment.
type ErrConstructionFailed struct {
	Attempts      int
	TotalDemand   int
	FleetCapacity int
}

func (e *ErrConstructionFailed) Error() string {
	return fmt.Sprintf("construction failed: no feasible solution after %d attempts (total demand %d, fleet capacity %d)",
		e.Attempts, e.TotalDemand, e.FleetCapacity)
}

// Individual is a population member with its cached fitness
type Individual struct {
	Solution models.Solution
	Fitness  float64
}
