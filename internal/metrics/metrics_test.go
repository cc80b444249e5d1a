package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultIsIdempotent(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	families, err := Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestEngineObserver(t *testing.T) {
	var obs EngineObserver

	generations := testutil.ToFloat64(Generations)
	failures := testutil.ToFloat64(ConstructionFailures)
	localSearch := testutil.ToFloat64(Fallbacks.WithLabelValues("local_search"))

	obs.GenerationFinished(1, 321.5, 11)
	obs.GenerationFinished(2, 300.25, 12)
	obs.FeasibilityFallback("local_search")
	obs.ConstructionFinished(3, nil)
	obs.ConstructionFinished(10, errors.New("exhausted"))

	assert.Equal(t, generations+2, testutil.ToFloat64(Generations))
	assert.Equal(t, 300.25, testutil.ToFloat64(PopulationBest))
	assert.Equal(t, 12.0, testutil.ToFloat64(PopulationSize))
	assert.Equal(t, localSearch+1, testutil.ToFloat64(Fallbacks.WithLabelValues("local_search")))
	assert.Equal(t, failures+1, testutil.ToFloat64(ConstructionFailures))
}
