package instance

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"depot-router/internal/models"
)

// DefaultArea is the side length of the square coordinates are drawn from
const DefaultArea = 100.0

// ValidationError reports a malformed instance or parameter
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GenerateOptions controls random instance generation
type GenerateOptions struct {
	Depots         int
	Customers      int
	Vehicles       int
	CustomerDemand int
	Area           float64
}

// Validate checks that the options describe a non-empty instance
func (o GenerateOptions) Validate() error {
	switch {
	case o.Depots < 1:
		return &ValidationError{Field: "depots", Reason: "must be at least 1"}
	case o.Customers < 1:
		return &ValidationError{Field: "customers", Reason: "must be at least 1"}
	case o.Vehicles < 1:
		return &ValidationError{Field: "vehicles", Reason: "must be at least 1"}
	case o.CustomerDemand <= 0:
		return &ValidationError{Field: "customer_demand", Reason: "must be positive"}
	case o.Area < 0:
		return &ValidationError{Field: "area", Reason: "must not be negative"}
	}
	return nil
}

// VehicleCapacity splits the total demand evenly across the vehicle list, floored
func VehicleCapacity(customerDemand, customers, vehicles int) int {
	return customerDemand * customers / vehicles
}

// Generate places depots and customers uniformly at random in [0, area)^2.
// Coordinates are unique across all depots and customers.
func Generate(rng *rand.Rand, opts GenerateOptions) (*models.Instance, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	area := opts.Area
	if area == 0 {
		area = DefaultArea
	}

	seen := make(map[models.Point]struct{}, opts.Depots+opts.Customers)
	draw := func() models.Point {
		for {
			p := models.Point{X: rng.Float64() * area, Y: rng.Float64() * area}
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				return p
			}
		}
	}

	in := &models.Instance{
		Depots:    make([]models.Depot, opts.Depots),
		Customers: make([]models.Customer, opts.Customers),
		Vehicles:  make([]models.Vehicle, opts.Vehicles),
	}
	for i := range in.Depots {
		p := draw()
		in.Depots[i] = models.Depot{ID: i, X: p.X, Y: p.Y}
	}
	for i := range in.Customers {
		p := draw()
		in.Customers[i] = models.Customer{ID: i, X: p.X, Y: p.Y, Demand: opts.CustomerDemand}
	}
	capacity := VehicleCapacity(opts.CustomerDemand, opts.Customers, opts.Vehicles)
	for i := range in.Vehicles {
		in.Vehicles[i] = models.Vehicle{ID: i, Capacity: capacity}
	}

	log.Printf("[INSTANCE] Generated depots=%d customers=%d vehicles=%d capacity=%d",
		opts.Depots, opts.Customers, opts.Vehicles, capacity)
	return in, nil
}

// Validate checks the structural preconditions the search engine relies on
func Validate(in *models.Instance) error {
	if in == nil {
		return &ValidationError{Field: "instance", Reason: "is nil"}
	}
	if len(in.Depots) == 0 {
		return &ValidationError{Field: "depots", Reason: "at least one depot is required"}
	}
	if len(in.Customers) == 0 {
		return &ValidationError{Field: "customers", Reason: "at least one customer is required"}
	}
	if len(in.Vehicles) == 0 {
		return &ValidationError{Field: "vehicles", Reason: "at least one vehicle is required"}
	}

	seen := make(map[models.Point]string, in.NodeCount())
	for i, d := range in.Depots {
		if d.ID != i {
			return &ValidationError{Field: "depots", Reason: fmt.Sprintf("depot at index %d has id %d", i, d.ID)}
		}
		p := d.GetCoords()
		if other, dup := seen[p]; dup {
			return &ValidationError{Field: "depots", Reason: fmt.Sprintf("depot %d shares coordinates with %s", i, other)}
		}
		seen[p] = fmt.Sprintf("depot %d", i)
	}
	maxCapacity := 0
	for _, v := range in.Vehicles {
		if v.Capacity <= 0 {
			return &ValidationError{Field: "vehicles", Reason: fmt.Sprintf("vehicle %d has non-positive capacity %d", v.ID, v.Capacity)}
		}
		if v.Capacity > maxCapacity {
			maxCapacity = v.Capacity
		}
	}
	for i, c := range in.Customers {
		if c.ID != i {
			return &ValidationError{Field: "customers", Reason: fmt.Sprintf("customer at index %d has id %d", i, c.ID)}
		}
		if c.Demand <= 0 {
			return &ValidationError{Field: "customers", Reason: fmt.Sprintf("customer %d has non-positive demand %d", i, c.Demand)}
		}
		if c.Demand > maxCapacity {
			return &ValidationError{Field: "customers", Reason: fmt.Sprintf("customer %d demand %d exceeds every vehicle capacity", i, c.Demand)}
		}
		p := c.GetCoords()
		if other, dup := seen[p]; dup {
			return &ValidationError{Field: "customers", Reason: fmt.Sprintf("customer %d shares coordinates with %s", i, other)}
		}
		seen[p] = fmt.Sprintf("customer %d", i)
	}

	if total, fleet := in.TotalDemand(), in.FleetCapacity(); total > fleet {
		return &ValidationError{Field: "vehicles", Reason: fmt.Sprintf("total demand %d exceeds fleet capacity %d", total, fleet)}
	}
	return nil
}

// Load reads a JSON instance file and validates it
func Load(path string) (*models.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance file: %w", err)
	}
	var in models.Instance
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse instance file: %w", err)
	}
	if err := Validate(&in); err != nil {
		return nil, err
	}
	log.Printf("[INSTANCE] Loaded %s: depots=%d customers=%d vehicles=%d",
		path, len(in.Depots), len(in.Customers), len(in.Vehicles))
	return &in, nil
}

// Save writes the instance as indented JSON, creating parent directories
func Save(path string, in *models.Instance) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create instance directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write instance file: %w", err)
	}
	return nil
}
