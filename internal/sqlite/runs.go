package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"depot-router/internal/database"
	"depot-router/internal/models"
)

type runRepository struct {
	store *Store
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]models.RunSummary, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int
	countQuery := `SELECT COUNT(*) FROM runs`
	if err := r.store.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, created_at, seed, depots, customers, vehicles, generations, best_fitness
	          FROM runs
	          ORDER BY created_at DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.store.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var s models.RunSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Seed, &s.Depots, &s.Customers, &s.Vehicles, &s.Generations, &s.BestFitness); err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, total, nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	runQuery := `SELECT id, created_at, seed, population_size, threshold_population_size, generations,
	                    mutation_rate, report_discarded_fitness, best_fitness, duration_ns, fallbacks,
	                    platform, cpu, ram, instance_json
	             FROM runs WHERE id = ?`

	var run models.Run
	var durationNs int64
	var instanceJSON string
	err := r.store.db.QueryRowContext(ctx, runQuery, id).Scan(
		&run.ID, &run.CreatedAt, &run.Seed, &run.Params.PopulationSize, &run.Params.ThresholdPopulationSize,
		&run.Params.Generations, &run.Params.MutationRate, &run.Params.ReportDiscardedFitness,
		&run.BestFitness, &durationNs, &run.Fallbacks,
		&run.System.Platform, &run.System.CPU, &run.System.RAM, &instanceJSON,
	)
	if err == sql.ErrNoRows {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Duration = time.Duration(durationNs)
	if err := json.Unmarshal([]byte(instanceJSON), &run.Instance); err != nil {
		return nil, fmt.Errorf("failed to decode run instance: %w", err)
	}

	routeRows, err := r.store.db.QueryContext(ctx,
		`SELECT nodes_json FROM run_routes WHERE run_id = ? ORDER BY route_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run routes: %w", err)
	}
	defer routeRows.Close()

	for routeRows.Next() {
		var nodesJSON string
		if err := routeRows.Scan(&nodesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run route: %w", err)
		}
		var route models.Route
		if err := json.Unmarshal([]byte(nodesJSON), &route); err != nil {
			return nil, fmt.Errorf("failed to decode run route: %w", err)
		}
		run.Best = append(run.Best, route)
	}
	if err := routeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run routes: %w", err)
	}

	historyRows, err := r.store.db.QueryContext(ctx,
		`SELECT best_fitness FROM run_history WHERE run_id = ? ORDER BY generation`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer historyRows.Close()

	run.History = []float64{}
	for historyRows.Next() {
		var f float64
		if err := historyRows.Scan(&f); err != nil {
			return nil, fmt.Errorf("failed to scan run history: %w", err)
		}
		run.History = append(run.History, f)
	}
	if err := historyRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run history: %w", err)
	}

	return &run, nil
}

func (r *runRepository) Create(ctx context.Context, run *models.Run) (*models.Run, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if run.ID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	instanceJSON, err := json.Marshal(run.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run instance: %w", err)
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runQuery := `INSERT INTO runs
	             (id, created_at, seed, depots, customers, vehicles, population_size,
	              threshold_population_size, generations, mutation_rate, report_discarded_fitness,
	              best_fitness, duration_ns, fallbacks, platform, cpu, ram, instance_json)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, runQuery,
		run.ID, run.CreatedAt, run.Seed, len(run.Instance.Depots), len(run.Instance.Customers),
		len(run.Instance.Vehicles), run.Params.PopulationSize, run.Params.ThresholdPopulationSize,
		run.Params.Generations, run.Params.MutationRate, run.Params.ReportDiscardedFitness,
		run.BestFitness, int64(run.Duration), run.Fallbacks,
		run.System.Platform, run.System.CPU, run.System.RAM, string(instanceJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	routeQuery := `INSERT INTO run_routes (run_id, route_index, depot, nodes_json) VALUES (?, ?, ?, ?)`
	for i, route := range run.Best {
		nodes, err := json.Marshal(route)
		if err != nil {
			return nil, fmt.Errorf("failed to encode run route: %w", err)
		}
		depot := -1
		if len(route) > 0 {
			depot = route.Depot()
		}
		if _, err := tx.ExecContext(ctx, routeQuery, run.ID, i, depot, string(nodes)); err != nil {
			return nil, fmt.Errorf("failed to create run route: %w", err)
		}
	}

	historyQuery := `INSERT INTO run_history (run_id, generation, best_fitness) VALUES (?, ?, ?)`
	for i, f := range run.History {
		if _, err := tx.ExecContext(ctx, historyQuery, run.ID, i+1, f); err != nil {
			return nil, fmt.Errorf("failed to create run history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, nil
}

func (r *runRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}

	return nil
}
