package testutil

import (
	"math"

	"depot-router/internal/models"
)

// DistanceCall tracks a call to the distance calculator
type DistanceCall struct {
	From int
	To   int
}

// MockDistanceCalculator is a mock implementation for testing.
// It returns scaled Euclidean distances between points unless a pair is overridden.
type MockDistanceCalculator struct {
	Points      []models.Point
	ScaleFactor float64
	Overrides   map[[2]int]float64
	Calls       []DistanceCall
}

func NewMockDistanceCalculator(points []models.Point) *MockDistanceCalculator {
	return &MockDistanceCalculator{
		Points:      points,
		ScaleFactor: 1,
		Overrides:   make(map[[2]int]float64),
		Calls:       []DistanceCall{},
	}
}

// SetDistance sets a custom distance for both directions of a node pair
func (m *MockDistanceCalculator) SetDistance(a, b int, dist float64) {
	m.Overrides[[2]int{a, b}] = dist
	m.Overrides[[2]int{b, a}] = dist
}

// Distance returns the distance between two node ids
func (m *MockDistanceCalculator) Distance(from, to int) float64 {
	m.Calls = append(m.Calls, DistanceCall{From: from, To: to})

	if d, ok := m.Overrides[[2]int{from, to}]; ok {
		return d
	}
	if from == to {
		return 0
	}
	dx := m.Points[from].X - m.Points[to].X
	dy := m.Points[from].Y - m.Points[to].Y
	return math.Sqrt(dx*dx+dy*dy) * m.ScaleFactor
}

// Size returns the number of nodes
func (m *MockDistanceCalculator) Size() int {
	return len(m.Points)
}

// ResetCalls clears the recorded calls
func (m *MockDistanceCalculator) ResetCalls() {
	m.Calls = []DistanceCall{}
}
