package database

import (
	"context"

	"depot-router/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Runs() RunRepository
}

// RunRepository handles search run persistence
type RunRepository interface {
	// List returns summaries newest first together with the total number of runs
	List(ctx context.Context, limit, offset int) ([]models.RunSummary, int, error)
	GetByID(ctx context.Context, id string) (*models.Run, error)
	Create(ctx context.Context, run *models.Run) (*models.Run, error)
	Delete(ctx context.Context, id string) error
}
