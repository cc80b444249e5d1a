package testutil

import (
	"depot-router/internal/models"
)

// TwoCustomerInstance is one depot at the origin, two customers of demand 5
// and one vehicle of capacity 10. Its only feasible solutions visit both
// customers on a single route.
func TwoCustomerInstance() *models.Instance {
	return &models.Instance{
		Name:   "two-customers",
		Depots: []models.Depot{{ID: 0, X: 0, Y: 0}},
		Customers: []models.Customer{
			{ID: 0, X: 3, Y: 0, Demand: 5},
			{ID: 1, X: 3, Y: 4, Demand: 5},
		},
		Vehicles: []models.Vehicle{{ID: 0, Capacity: 10}},
	}
}

// TwoDepotInstance places two depots at opposite corners of a 10x10 square
// and six customers of demand 10 between them. Two vehicles of capacity 30
// per depot can absorb any depot assignment.
func TwoDepotInstance() *models.Instance {
	return &models.Instance{
		Name: "two-depots",
		Depots: []models.Depot{
			{ID: 0, X: 0, Y: 0},
			{ID: 1, X: 10, Y: 10},
		},
		Customers: []models.Customer{
			{ID: 0, X: 1, Y: 2, Demand: 10},
			{ID: 1, X: 2, Y: 1, Demand: 10},
			{ID: 2, X: 2, Y: 3, Demand: 10},
			{ID: 3, X: 8, Y: 9, Demand: 10},
			{ID: 4, X: 9, Y: 7, Demand: 10},
			{ID: 5, X: 7, Y: 8, Demand: 10},
		},
		Vehicles: []models.Vehicle{
			{ID: 0, Capacity: 30},
			{ID: 1, Capacity: 30},
		},
	}
}

// LineInstance puts one depot at the origin and n customers of demand 1 on
// the x axis at x = 1..n, served by a single vehicle of capacity n.
func LineInstance(n int) *models.Instance {
	in := &models.Instance{
		Name:     "line",
		Depots:   []models.Depot{{ID: 0, X: 0, Y: 0}},
		Vehicles: []models.Vehicle{{ID: 0, Capacity: n}},
	}
	for i := 0; i < n; i++ {
		in.Customers = append(in.Customers, models.Customer{ID: i, X: float64(i + 1), Y: 0, Demand: 1})
	}
	return in
}
