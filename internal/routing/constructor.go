package routing

import (
	"log"
	"math/rand"

	"depot-router/internal/models"
)

// Constructor builds random feasible solutions by rejection sampling
type Constructor struct {
	inst        *models.Instance
	eval        *Evaluator
	maxAttempts int
	observer    Observer
}

// NewConstructor creates a constructor that gives up after maxAttempts rejected drafts
func NewConstructor(inst *models.Instance, eval *Evaluator, maxAttempts int, observer Observer) *Constructor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxConstructionAttempts
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Constructor{inst: inst, eval: eval, maxAttempts: maxAttempts, observer: observer}
}

// Build assigns every customer to a uniformly random depot, then packs each
// depot's shuffled customers into its vehicles in turn. A vehicle closes as
// soon as the next pending customer does not fit. Drafts that leave customers
// unpacked are discarded and redrawn.
func (c *Constructor) Build(rng *rand.Rand) (models.Solution, error) {
	depots := len(c.inst.Depots)
	vehicles := len(c.inst.Vehicles)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		assignments := make([][]int, depots)
		for i := range c.inst.Customers {
			d := rng.Intn(depots)
			assignments[d] = append(assignments[d], i)
		}

		sol := make(models.Solution, 0, depots*vehicles)
		for d := 0; d < depots; d++ {
			pending := assignments[d]
			rng.Shuffle(len(pending), func(i, j int) {
				pending[i], pending[j] = pending[j], pending[i]
			})

			for _, v := range c.inst.Vehicles {
				route := models.Route{d}
				left := v.Capacity
				for len(pending) > 0 && c.inst.Customers[pending[0]].Demand <= left {
					left -= c.inst.Customers[pending[0]].Demand
					route = append(route, c.inst.CustomerNode(pending[0]))
					pending = pending[1:]
				}
				route = append(route, d)
				sol = append(sol, route)
			}
		}

		if c.eval.IsFeasible(sol) {
			c.observer.ConstructionFinished(attempt, nil)
			return sol, nil
		}
	}

	err := &ErrConstructionFailed{
		Attempts:      c.maxAttempts,
		TotalDemand:   c.inst.TotalDemand(),
		FleetCapacity: c.inst.FleetCapacity(),
	}
	log.Printf("[CONSTRUCT] %v", err)
	c.observer.ConstructionFinished(c.maxAttempts, err)
	return nil, err
}
