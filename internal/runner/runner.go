package runner

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"depot-router/internal/models"
	"depot-router/internal/routing"
	"depot-router/internal/sysinfo"
)

// Request describes one search
type Request struct {
	Instance *models.Instance
	Params   routing.Params
	Seed     int64 // 0 picks a time-based seed
	Observer routing.Observer
}

// Execute runs the engine and packages the outcome as a run record with a
// fresh id. On cancellation the partial run is returned together with the
// context error.
func Execute(ctx context.Context, req Request) (*models.Run, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var opts []routing.Option
	if req.Observer != nil {
		opts = append(opts, routing.WithObserver(req.Observer))
	}
	engine, err := routing.NewEngine(req.Instance, req.Params, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	log.Printf("[RUN] Starting run %s with seed %d", id, seed)
	result, runErr := engine.Run(ctx)
	if result == nil {
		return nil, runErr
	}

	run := &models.Run{
		ID:          id,
		CreatedAt:   time.Now().UTC(),
		Seed:        seed,
		Params:      engine.Params().RunParams(),
		Instance:    *req.Instance,
		Best:        result.Best,
		BestFitness: result.BestFitness,
		History:     result.History,
		Duration:    result.Duration,
		Fallbacks:   result.Fallbacks,
		System:      sysinfo.Collect(),
	}
	return run, runErr
}
