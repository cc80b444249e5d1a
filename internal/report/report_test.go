package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/models"
	"depot-router/internal/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testRun() *models.Run {
	return &models.Run{
		ID:          "run-1",
		Seed:        42,
		Instance:    *testutil.TwoDepotInstance(),
		Best:        models.Solution{{0, 2, 3, 4, 0}, {0, 0}, {1, 5, 6, 7, 1}, {1, 1}},
		BestFitness: 31.5,
		History:     []float64{40, 35.25, 31.5},
		Duration:    1500 * time.Millisecond,
		Fallbacks:   2,
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, testRun()))
	out := buf.String()

	assert.Contains(t, out, "Run run-1 (seed 42)")
	assert.Contains(t, out, "Instance: 2 depots, 6 customers, 2 vehicles per depot")
	assert.Contains(t, out, "Best fitness: 31.5000")
	assert.Contains(t, out, "depot 0 vehicle 0: 0 -> 2 -> 3 -> 4 -> 0 (load 30/30")
	assert.Contains(t, out, "depot 1 vehicle 0: 1 -> 5 -> 6 -> 7 -> 1 (load 30/30")
	assert.Contains(t, out, "Generations: 3, first 40.0000, last 31.5000")
	assert.Contains(t, out, "Fallback reconstructions: 2")
	assert.Equal(t, 2, strings.Count(out, "  depot "), "trivial routes are not printed")
}

func TestGeoJSON(t *testing.T) {
	run := testRun()

	data, err := MarshalGeoJSON(&run.Instance, run.Best)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")]++
	}
	assert.Equal(t, map[string]int{"depot": 2, "customer": 6, "route": 2}, kinds)

	last := fc.Features[len(fc.Features)-1]
	ls, ok := last.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{10, 10}, ls[0])
	assert.Equal(t, ls[0], ls[len(ls)-1])
	assert.Equal(t, 1.0, last.Properties.MustFloat64("depot"))
}

func TestGeoJSONWithoutSolution(t *testing.T) {
	fc := GeoJSON(testutil.TwoCustomerInstance(), nil)
	assert.Len(t, fc.Features, 3)
}

func TestPlots(t *testing.T) {
	run := testRun()
	dir := t.TempDir()

	routes, err := RoutesPlot(&run.Instance, run.Best, "routes")
	require.NoError(t, err)
	path := filepath.Join(dir, "routes.png")
	require.NoError(t, SavePNG(routes, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	fitness, err := FitnessPlot(run.History, "fitness")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, fitness))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}
