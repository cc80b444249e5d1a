package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/instance"
)

func TestGenerateWritesInstance(t *testing.T) {
	out := filepath.Join(t.TempDir(), "instance.json")

	err := newApp().Run([]string{"cmdvrp", "generate", "--out", out, "--seed", "3", "--customers", "8", "--depots", "2", "--vehicles", "2"})
	require.NoError(t, err)

	in, err := instance.Load(out)
	require.NoError(t, err)
	assert.Len(t, in.Depots, 2)
	assert.Len(t, in.Customers, 8)
	assert.Len(t, in.Vehicles, 2)
	assert.Equal(t, "random-3", in.Name)
}

func TestSolveWritesArtifactsAndStoresRun(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.json")
	geo := filepath.Join(dir, "best.geojson")
	fitness := filepath.Join(dir, "fitness.png")

	err := newApp().Run([]string{"cmdvrp", "--db", db, "solve",
		"--seed", "5", "--generations", "5", "--quiet",
		"--geojson", geo, "--fitness-plot", fitness})
	require.NoError(t, err)

	data, err := os.ReadFile(geo)
	require.NoError(t, err)
	var fc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])

	png, err := os.ReadFile(fitness)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestSolveRejectsBadOverrides(t *testing.T) {
	err := newApp().Run([]string{"cmdvrp", "solve", "--no-store", "--quiet", "--mutation-rate", "2"})
	assert.ErrorContains(t, err, "invalid engine config")
}
