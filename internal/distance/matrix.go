package distance

import (
	"math"

	"depot-router/internal/models"
)

// Calculator provides distances between nodes of the unified id space
type Calculator interface {
	Distance(from, to int) float64
	Size() int
}

// Matrix is a dense symmetric Euclidean distance matrix. Read-only after construction.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix computes pairwise Euclidean distances between points,
// including self-distances and depot-to-depot pairs.
func NewMatrix(points []models.Point) *Matrix {
	n := len(points)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			dx := points[i].X - points[j].X
			dy := points[i].Y - points[j].Y
			d := math.Sqrt(dx*dx + dy*dy)
			m.data[i*n+j] = d
			m.data[j*n+i] = d
		}
	}
	return m
}

// NewInstanceMatrix builds the matrix over depots then customers
func NewInstanceMatrix(in *models.Instance) *Matrix {
	return NewMatrix(in.Points())
}

// Distance returns the distance between two node ids
func (m *Matrix) Distance(from, to int) float64 {
	return m.data[from*m.n+to]
}

// Size returns the number of nodes
func (m *Matrix) Size() int {
	return m.n
}

// Rows returns a copy of the matrix as nested slices
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
	}
	return rows
}

// PathLength sums edge distances along consecutive nodes
func PathLength(calc Calculator, nodes []int) float64 {
	total := 0.0
	for i := 0; i < len(nodes)-1; i++ {
		total += calc.Distance(nodes[i], nodes[i+1])
	}
	return total
}
