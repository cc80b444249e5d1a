package routing

import (
	"depot-router/internal/distance"
	"depot-router/internal/models"
)

// Evaluator scores solutions and checks their structure. It holds no mutable state.
type Evaluator struct {
	inst *models.Instance
	calc distance.Calculator
}

// NewEvaluator creates an evaluator over the instance's node id space
func NewEvaluator(inst *models.Instance, calc distance.Calculator) *Evaluator {
	return &Evaluator{inst: inst, calc: calc}
}

// Fitness is the total traveled distance of every route. Lower is better.
func (e *Evaluator) Fitness(sol models.Solution) float64 {
	total := 0.0
	for _, r := range sol {
		total += e.RouteFitness(r)
	}
	return total
}

// RouteFitness is the length of a single route in isolation
func (e *Evaluator) RouteFitness(r models.Route) float64 {
	return distance.PathLength(e.calc, r)
}

// IsFeasible checks route closure at a valid depot, that interiors hold only
// customers, and that every customer is visited exactly once. Capacity is
// not checked: the constructor packs within capacity and no operator changes
// the customer set of a route.
func (e *Evaluator) IsFeasible(sol models.Solution) bool {
	visited := make([]bool, len(e.inst.Customers))
	count := 0
	for _, r := range sol {
		if len(r) < 2 || r[0] != r[len(r)-1] || !e.inst.IsDepot(r[0]) {
			return false
		}
		for _, node := range r.Customers() {
			if !e.inst.IsCustomer(node) {
				return false
			}
			idx := node - len(e.inst.Depots)
			if visited[idx] {
				return false
			}
			visited[idx] = true
			count++
		}
	}
	return count == len(e.inst.Customers)
}

// WithinCapacity reports whether every route's demand fits its vehicle.
// Routes are matched to vehicles in generation order: depot-major, vehicle-minor.
func (e *Evaluator) WithinCapacity(sol models.Solution) bool {
	vehicles := len(e.inst.Vehicles)
	for i, r := range sol {
		capacity := e.inst.Vehicles[i%vehicles].Capacity
		if e.RouteDemand(r) > capacity {
			return false
		}
	}
	return true
}

// RouteDemand sums the demand of the route's customers
func (e *Evaluator) RouteDemand(r models.Route) int {
	total := 0
	for _, node := range r.Customers() {
		if e.inst.IsCustomer(node) {
			total += e.inst.CustomerAt(node).Demand
		}
	}
	return total
}
