package report

import (
	"fmt"
	"io"
	"strings"

	"depot-router/internal/distance"
	"depot-router/internal/models"
)

// Text prints the best solution of a run, one line per route with customers,
// followed by the fitness trajectory summary.
func Text(w io.Writer, run *models.Run) error {
	in := &run.Instance
	matrix := distance.NewInstanceMatrix(in)
	vehicles := len(in.Vehicles)

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (seed %d)\n", run.ID, run.Seed)
	fmt.Fprintf(&b, "Instance: %d depots, %d customers, %d vehicles per depot\n",
		len(in.Depots), len(in.Customers), vehicles)
	fmt.Fprintf(&b, "Best fitness: %.4f\n", run.BestFitness)

	for i, r := range run.Best {
		if r.IsTrivial() {
			continue
		}
		demand := 0
		for _, node := range r.Customers() {
			demand += in.CustomerAt(node).Demand
		}
		v := in.Vehicles[i%vehicles]
		fmt.Fprintf(&b, "  depot %d vehicle %d: %s (load %d/%d, length %.4f)\n",
			r.Depot(), v.ID, formatRoute(r), demand, v.Capacity, distance.PathLength(matrix, r))
	}

	if n := len(run.History); n > 0 {
		fmt.Fprintf(&b, "Generations: %d, first %.4f, last %.4f\n", n, run.History[0], run.History[n-1])
	}
	if run.Fallbacks > 0 {
		fmt.Fprintf(&b, "Fallback reconstructions: %d\n", run.Fallbacks)
	}
	if run.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %v\n", run.Duration)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatRoute(r models.Route) string {
	parts := make([]string, len(r))
	for i, node := range r {
		parts[i] = fmt.Sprint(node)
	}
	return strings.Join(parts, " -> ")
}
