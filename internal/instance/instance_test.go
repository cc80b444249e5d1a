package instance

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/models"
)

func TestGenerateProducesUniqueCoordinates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	in, err := Generate(rng, GenerateOptions{Depots: 3, Customers: 40, Vehicles: 5, CustomerDemand: 10})
	require.NoError(t, err)

	assert.Len(t, in.Depots, 3)
	assert.Len(t, in.Customers, 40)
	assert.Len(t, in.Vehicles, 5)

	seen := map[models.Point]bool{}
	for _, p := range in.Points() {
		assert.False(t, seen[p], "duplicate point %v", p)
		seen[p] = true
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, DefaultArea)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, DefaultArea)
	}
	for i, c := range in.Customers {
		assert.Equal(t, i, c.ID)
		assert.Equal(t, 10, c.Demand)
	}
	require.NoError(t, Validate(in))
}

func TestGenerateDerivesFlooredCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	in, err := Generate(rng, GenerateOptions{Depots: 2, Customers: 15, Vehicles: 4, CustomerDemand: 10})
	require.NoError(t, err)

	for _, v := range in.Vehicles {
		assert.Equal(t, 37, v.Capacity)
	}
	assert.Equal(t, 37, VehicleCapacity(10, 15, 4))
}

func TestGenerateIsReproducible(t *testing.T) {
	opts := GenerateOptions{Depots: 2, Customers: 10, Vehicles: 2, CustomerDemand: 5, Area: 50}

	a, err := Generate(rand.New(rand.NewSource(99)), opts)
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(99)), opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name  string
		opts  GenerateOptions
		field string
	}{
		{"no depots", GenerateOptions{Depots: 0, Customers: 1, Vehicles: 1, CustomerDemand: 1}, "depots"},
		{"no customers", GenerateOptions{Depots: 1, Customers: 0, Vehicles: 1, CustomerDemand: 1}, "customers"},
		{"no vehicles", GenerateOptions{Depots: 1, Customers: 1, Vehicles: 0, CustomerDemand: 1}, "vehicles"},
		{"zero demand", GenerateOptions{Depots: 1, Customers: 1, Vehicles: 1, CustomerDemand: 0}, "customer_demand"},
		{"negative area", GenerateOptions{Depots: 1, Customers: 1, Vehicles: 1, CustomerDemand: 1, Area: -1}, "area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(rng, tt.opts)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func validInstance() *models.Instance {
	return &models.Instance{
		Depots:    []models.Depot{{ID: 0, X: 0, Y: 0}},
		Customers: []models.Customer{{ID: 0, X: 1, Y: 0, Demand: 5}, {ID: 1, X: 0, Y: 1, Demand: 5}},
		Vehicles:  []models.Vehicle{{ID: 0, Capacity: 10}},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validInstance()))

	tests := []struct {
		name   string
		mutate func(in *models.Instance)
		field  string
	}{
		{"duplicate coordinates", func(in *models.Instance) { in.Customers[1].X, in.Customers[1].Y = 0, 0 }, "customers"},
		{"demand over capacity", func(in *models.Instance) { in.Customers[0].Demand = 11 }, "customers"},
		{"non-positive demand", func(in *models.Instance) { in.Customers[0].Demand = 0 }, "customers"},
		{"zero capacity", func(in *models.Instance) { in.Vehicles[0].Capacity = 0 }, "vehicles"},
		{"fleet too small", func(in *models.Instance) { in.Vehicles[0].Capacity = 6 }, "vehicles"},
		{"wrong customer id", func(in *models.Instance) { in.Customers[1].ID = 5 }, "customers"},
		{"no depots", func(in *models.Instance) { in.Depots = nil }, "depots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInstance()
			tt.mutate(in)
			err := Validate(in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "instance.json")
	in := validInstance()
	in.Name = "two-customers"

	require.NoError(t, Save(path, in))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, in, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
