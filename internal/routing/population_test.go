package routing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/models"
)

func populationOf(fitness ...float64) *Population {
	p := NewPopulation(2, 4)
	for _, f := range fitness {
		p.Add(Individual{Fitness: f})
	}
	return p
}

func TestPopulationTrimKeepsFittest(t *testing.T) {
	p := populationOf(5, 3, 9, 1)

	assert.False(t, p.Trim(), "at threshold the population is not trimmed")
	assert.Equal(t, 4, p.Len())

	p.Add(Individual{Fitness: 2})
	require.True(t, p.Trim())

	require.Equal(t, 2, p.Len())
	assert.Equal(t, 1.0, p.Members()[0].Fitness)
	assert.Equal(t, 2.0, p.Members()[1].Fitness)
}

func TestPopulationThresholdRaisedToSize(t *testing.T) {
	p := NewPopulation(3, 1)
	for _, f := range []float64{4, 2, 6} {
		p.Add(Individual{Fitness: f})
	}

	assert.False(t, p.Trim())
	p.Add(Individual{Fitness: 1})
	assert.True(t, p.Trim())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 1.0, p.Best().Fitness)
}

func TestPopulationBestPrefersFirstOnTies(t *testing.T) {
	p := NewPopulation(3, 3)
	p.Add(Individual{Fitness: 4})
	p.Add(Individual{Fitness: 2, Solution: nil})
	p.Add(Individual{Fitness: 2, Solution: models.Solution{{0, 0}}})

	best := p.Best()
	assert.Equal(t, 2.0, best.Fitness)
	assert.Nil(t, best.Solution)
}

func TestPopulationTournament(t *testing.T) {
	p := populationOf(5, 3, 9, 1)

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		winner := p.Tournament(rng)

		replay := rand.New(rand.NewSource(seed))
		a := replay.Intn(p.Len())
		b := replay.Intn(p.Len())
		expected := a
		if p.Members()[b].Fitness < p.Members()[a].Fitness {
			expected = b
		}
		assert.Equal(t, expected, winner)
	}
}

func TestPopulationTournamentPrefersFirstDrawOnTies(t *testing.T) {
	p := populationOf(3, 3, 3)

	for seed := int64(0); seed < 10; seed++ {
		replay := rand.New(rand.NewSource(seed))
		first := replay.Intn(p.Len())
		assert.Equal(t, first, p.Tournament(rand.New(rand.NewSource(seed))))
	}
}

func TestPopulationTournamentSingleMember(t *testing.T) {
	p := populationOf(7)
	assert.Equal(t, 0, p.Tournament(rand.New(rand.NewSource(1))))
}
