package testutil

import (
	"time"

	"depot-router/internal/models"
)

// SampleRun is a finished search over TwoDepotInstance with a feasible best solution
func SampleRun(id string, createdAt time.Time) *models.Run {
	return &models.Run{
		ID:        id,
		CreatedAt: createdAt,
		Seed:      42,
		Params: models.RunParams{
			PopulationSize:          10,
			ThresholdPopulationSize: 40,
			Generations:             3,
			MutationRate:            0.1,
		},
		Instance:    *TwoDepotInstance(),
		Best:        models.Solution{{0, 2, 3, 4, 0}, {0, 0}, {1, 5, 6, 7, 1}, {1, 1}},
		BestFitness: 31.5,
		History:     []float64{40, 35.25, 31.5},
		Duration:    1500 * time.Millisecond,
		Fallbacks:   1,
		System:      models.SysInfo{Platform: "linux", CPU: "test cpu", RAM: "16 GB"},
	}
}
