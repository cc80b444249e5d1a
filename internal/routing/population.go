package routing

import (
	"math/rand"
	"sort"
)

// Population is the elite archive. It may grow to threshold members before
// Trim cuts it back to the fittest size members.
type Population struct {
	members   []Individual
	size      int
	threshold int
}

// NewPopulation creates an empty population
func NewPopulation(size, threshold int) *Population {
	if threshold < size {
		threshold = size
	}
	return &Population{
		members:   make([]Individual, 0, threshold+1),
		size:      size,
		threshold: threshold,
	}
}

// Add appends an individual without trimming
func (p *Population) Add(ind Individual) {
	p.members = append(p.members, ind)
}

// Len returns the current number of members
func (p *Population) Len() int {
	return len(p.members)
}

// Members exposes the current members; callers must not modify them
func (p *Population) Members() []Individual {
	return p.members
}

// Best returns the first member with the lowest fitness
func (p *Population) Best() Individual {
	best := 0
	for i := 1; i < len(p.members); i++ {
		if p.members[i].Fitness < p.members[best].Fitness {
			best = i
		}
	}
	return p.members[best]
}

// Tournament draws two members uniformly at random and returns the index of
// the fitter one, preferring the first on ties.
func (p *Population) Tournament(rng *rand.Rand) int {
	a := rng.Intn(len(p.members))
	b := rng.Intn(len(p.members))
	if atLeastAsFit(p.members[a], p.members[b]) {
		return a
	}
	return b
}

// atLeastAsFit is the binary tournament rule: a wins unless b is strictly fitter
func atLeastAsFit(a, b Individual) bool {
	return a.Fitness <= b.Fitness
}

// Trim sorts by ascending fitness and truncates to size once the population
// has grown past threshold. It reports whether a truncation happened.
func (p *Population) Trim() bool {
	if len(p.members) <= p.threshold {
		return false
	}
	sort.SliceStable(p.members, func(i, j int) bool {
		return p.members[i].Fitness < p.members[j].Fitness
	})
	for i := p.size; i < len(p.members); i++ {
		p.members[i] = Individual{}
	}
	p.members = p.members[:p.size]
	return true
}
