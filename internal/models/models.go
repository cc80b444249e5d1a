package models

import (
	"time"

	"github.com/mohae/deepcopy"
)

// Point is a planar coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Depot is a vehicle base. Depot ids occupy the low end of the node id space.
type Depot struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// GetCoords returns the coordinates of the depot
func (d *Depot) GetCoords() Point {
	return Point{X: d.X, Y: d.Y}
}

// Customer is a delivery location with a demand.
// ID is the customer index; its node id is ID + number of depots.
type Customer struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand int     `json:"demand"`
}

// GetCoords returns the coordinates of the customer
func (c *Customer) GetCoords() Point {
	return Point{X: c.X, Y: c.Y}
}

// Vehicle is a route slot with a load limit. Every depot operates the full vehicle list.
type Vehicle struct {
	ID       int `json:"id"`
	Capacity int `json:"capacity"`
}

// Instance is an immutable problem definition
type Instance struct {
	Name      string     `json:"name,omitempty"`
	Depots    []Depot    `json:"depots"`
	Customers []Customer `json:"customers"`
	Vehicles  []Vehicle  `json:"vehicles"`
}

// NodeCount returns the size of the unified node id space
func (in *Instance) NodeCount() int {
	return len(in.Depots) + len(in.Customers)
}

// IsDepot reports whether node is a valid depot id
func (in *Instance) IsDepot(node int) bool {
	return node >= 0 && node < len(in.Depots)
}

// IsCustomer reports whether node is a valid customer id
func (in *Instance) IsCustomer(node int) bool {
	return node >= len(in.Depots) && node < in.NodeCount()
}

// CustomerNode maps a customer index to its node id
func (in *Instance) CustomerNode(customer int) int {
	return customer + len(in.Depots)
}

// CustomerAt returns the customer behind a customer node id
func (in *Instance) CustomerAt(node int) *Customer {
	return &in.Customers[node-len(in.Depots)]
}

// Points returns depot then customer coordinates, indexed by node id
func (in *Instance) Points() []Point {
	points := make([]Point, 0, in.NodeCount())
	for i := range in.Depots {
		points = append(points, in.Depots[i].GetCoords())
	}
	for i := range in.Customers {
		points = append(points, in.Customers[i].GetCoords())
	}
	return points
}

// TotalDemand sums the demand of every customer
func (in *Instance) TotalDemand() int {
	total := 0
	for _, c := range in.Customers {
		total += c.Demand
	}
	return total
}

// FleetCapacity is the summed capacity of all route slots across all depots
func (in *Instance) FleetCapacity() int {
	total := 0
	for _, v := range in.Vehicles {
		total += v.Capacity
	}
	return total * len(in.Depots)
}

// Route is a visit sequence that starts and ends at the same depot id
type Route []int

// Depot returns the depot id the route starts from
func (r Route) Depot() int {
	return r[0]
}

// Customers returns the interior node ids
func (r Route) Customers() []int {
	if len(r) < 2 {
		return nil
	}
	return r[1 : len(r)-1]
}

// IsTrivial reports whether the route visits no customer
func (r Route) IsTrivial() bool {
	return len(r) <= 2
}

// Equal compares two routes element by element
func (r Route) Equal(other Route) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independently owned copy
func (r Route) Clone() Route {
	return append(Route(nil), r...)
}

// Solution is one route per (depot, vehicle) pairing in generation order
type Solution []Route

// Clone returns a deep copy that shares no route storage with s
func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	return deepcopy.Copy(s).(Solution)
}

// NonTrivialRoutes returns the indexes of routes that visit at least one customer
func (s Solution) NonTrivialRoutes() []int {
	idx := make([]int, 0, len(s))
	for i, r := range s {
		if !r.IsTrivial() {
			idx = append(idx, i)
		}
	}
	return idx
}

// SysInfo saves the basic system information of the host that produced a run
type SysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}

// RunParams records the engine parameters a run was started with
type RunParams struct {
	PopulationSize          int     `json:"population_size"`
	ThresholdPopulationSize int     `json:"threshold_population_size"`
	Generations             int     `json:"generations"`
	MutationRate            float64 `json:"mutation_rate"`
	ReportDiscardedFitness  bool    `json:"report_discarded_fitness"`
}

// Run is a persisted search result
type Run struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Seed        int64         `json:"seed"`
	Params      RunParams     `json:"params"`
	Instance    Instance      `json:"instance"`
	Best        Solution      `json:"best"`
	BestFitness float64       `json:"best_fitness"`
	History     []float64     `json:"history"`
	Duration    time.Duration `json:"duration"`
	Fallbacks   int           `json:"fallbacks"`
	System      SysInfo       `json:"system"`
}

// RunSummary is the list view of a run
type RunSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Seed        int64     `json:"seed"`
	Depots      int       `json:"depots"`
	Customers   int       `json:"customers"`
	Vehicles    int       `json:"vehicles"`
	Generations int       `json:"generations"`
	BestFitness float64   `json:"best_fitness"`
}

// Summary returns the list view of the run
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Seed:        r.Seed,
		Depots:      len(r.Instance.Depots),
		Customers:   len(r.Instance.Customers),
		Vehicles:    len(r.Instance.Vehicles),
		Generations: r.Params.Generations,
		BestFitness: r.BestFitness,
	}
}
