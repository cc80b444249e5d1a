package routing

import (
	"log"
	"math/rand"

	"github.com/sourcegraph/conc/pool"

	"depot-router/internal/models"
)

// Operators bundles selection, crossover, mutation and local search.
// Every operator returns solutions that share no storage with its inputs,
// except LocalSearch which takes ownership of the solution it is given.
type Operators struct {
	eval            *Evaluator
	construct       *Constructor
	workers         int
	reportDiscarded bool
	observer        Observer
	fallbacks       int
}

// NewOperators wires the operators to an evaluator and the fallback constructor
func NewOperators(eval *Evaluator, construct *Constructor, params Params, observer Observer) *Operators {
	if observer == nil {
		observer = noopObserver{}
	}
	workers := params.Workers
	if workers < 1 {
		workers = 1
	}
	return &Operators{
		eval:            eval,
		construct:       construct,
		workers:         workers,
		reportDiscarded: params.ReportDiscardedFitness,
		observer:        observer,
	}
}

// Fallbacks counts infeasible candidates that were replaced by a fresh solution
func (o *Operators) Fallbacks() int {
	return o.fallbacks
}

// Crossover performs single-route exchange. One non-trivial route is drawn from
// each parent; child1 is parent1 with its drawn route replaced by parent2's and
// child2 the mirror. Children may duplicate or drop customers.
//
// Both parents must hold at least one non-trivial route; otherwise Crossover panics.
func (o *Operators) Crossover(rng *rand.Rand, parent1, parent2 models.Solution) (models.Solution, float64, models.Solution, float64) {
	route1 := pickNonTrivial(rng, parent1)
	route2 := pickNonTrivial(rng, parent2)

	child1 := exchangeRoute(parent1, route1, route2)
	child2 := exchangeRoute(parent2, route2, route1)

	return child1, o.eval.Fitness(child1), child2, o.eval.Fitness(child2)
}

func pickNonTrivial(rng *rand.Rand, sol models.Solution) models.Route {
	idx := sol.NonTrivialRoutes()
	if len(idx) == 0 {
		panic("routing: crossover parent has no route with customers")
	}
	return sol[idx[rng.Intn(len(idx))]].Clone()
}

func exchangeRoute(parent models.Solution, out, in models.Route) models.Solution {
	child := parent.Clone()
	for i := range child {
		if child[i].Equal(out) {
			child[i] = in.Clone()
		}
	}
	return child
}

// Mutate swaps two distinct interior positions of every route holding more
// than one customer. Route demand is unchanged. An infeasible result is
// replaced by a freshly constructed solution.
func (o *Operators) Mutate(rng *rand.Rand, sol models.Solution) (models.Solution, float64, error) {
	mutated := sol.Clone()
	for _, r := range mutated {
		if len(r) <= 3 {
			continue
		}
		interior := len(r) - 2
		i := 1 + rng.Intn(interior)
		j := 1 + rng.Intn(interior-1)
		if j >= i {
			j++
		}
		r[i], r[j] = r[j], r[i]
	}
	return o.settle("mutation", rng, mutated)
}

// LocalSearch runs 2-opt on every route, then rechecks feasibility.
// The solution is modified in place.
func (o *Operators) LocalSearch(rng *rand.Rand, sol models.Solution) (models.Solution, float64, error) {
	if o.workers > 1 && len(sol) > 1 {
		p := pool.New().WithMaxGoroutines(o.workers)
		for i := range sol {
			p.Go(func() {
				sol[i] = o.TwoOpt(sol[i])
			})
		}
		p.Wait()
	} else {
		for i := range sol {
			sol[i] = o.TwoOpt(sol[i])
		}
	}
	return o.settle("local_search", rng, sol)
}

// settle returns a feasible solution: the candidate itself, or a fresh
// replacement. With reportDiscarded the candidate's fitness is reported even
// when it was replaced.
func (o *Operators) settle(operator string, rng *rand.Rand, candidate models.Solution) (models.Solution, float64, error) {
	fitness := o.eval.Fitness(candidate)
	if o.eval.IsFeasible(candidate) {
		return candidate, fitness, nil
	}

	o.fallbacks++
	o.observer.FeasibilityFallback(operator)
	replacement, err := o.construct.Build(rng)
	if err != nil {
		log.Printf("[ENGINE] %s fallback failed: %v", operator, err)
		return nil, 0, err
	}
	if o.reportDiscarded {
		return replacement, fitness, nil
	}
	return replacement, o.eval.Fitness(replacement), nil
}

// TwoOpt reverses interior segments of a route while that strictly shortens
// it, taking the first improving reversal and rescanning from the start.
// Depot endpoints never move. The input route is not modified.
func (o *Operators) TwoOpt(route models.Route) models.Route {
	best := route.Clone()
	if len(best) < 4 {
		return best
	}
	bestLen := o.eval.RouteFitness(best)

	improved := true
	for improved {
		improved = false
	scan:
		for i := 1; i < len(best)-2; i++ {
			for j := i + 1; j < len(best)-1; j++ {
				reverse(best, i, j)
				if l := o.eval.RouteFitness(best); l < bestLen {
					bestLen = l
					improved = true
					break scan
				}
				reverse(best, i, j)
			}
		}
	}
	return best
}

func reverse(r models.Route, i, j int) {
	for i < j {
		r[i], r[j] = r[j], r[i]
		i++
		j--
	}
}
