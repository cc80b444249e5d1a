package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"depot-router/internal/database"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = database.SQLiteDBFileName
	schemaVersion     = 1
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	runRepo database.RunRepository
}

// New creates a new SQLite store at the specified path
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Printf("[DB] Opening SQLite database at: %s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.runRepo = &runRepository{store: store}

	return store, nil
}

// GetDBPath returns the current database file path
func (s *Store) GetDBPath() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	log.Printf("[DB] Using existing schema (version %d)", version)
	return nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- One row per search run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		seed INTEGER NOT NULL,
		depots INTEGER NOT NULL,
		customers INTEGER NOT NULL,
		vehicles INTEGER NOT NULL,
		population_size INTEGER NOT NULL,
		threshold_population_size INTEGER NOT NULL,
		generations INTEGER NOT NULL,
		mutation_rate REAL NOT NULL,
		report_discarded_fitness INTEGER NOT NULL DEFAULT 0,
		best_fitness REAL NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		fallbacks INTEGER NOT NULL DEFAULT 0,
		platform TEXT NOT NULL DEFAULT '',
		cpu TEXT NOT NULL DEFAULT '',
		ram TEXT NOT NULL DEFAULT '',
		instance_json TEXT NOT NULL
	);

	-- Best solution routes, in generation order
	CREATE TABLE IF NOT EXISTS run_routes (
		run_id TEXT NOT NULL,
		route_index INTEGER NOT NULL,
		depot INTEGER NOT NULL,
		nodes_json TEXT NOT NULL,
		PRIMARY KEY (run_id, route_index),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	-- Population best fitness per generation
	CREATE TABLE IF NOT EXISTS run_history (
		run_id TEXT NOT NULL,
		generation INTEGER NOT NULL,
		best_fitness REAL NOT NULL,
		PRIMARY KEY (run_id, generation),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[DB] SQLite schema initialized (version %d)", schemaVersion)
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		// Checkpoint WAL before closing
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Runs() database.RunRepository { return s.runRepo }

// Open picks the JSON file store for *.json paths and SQLite otherwise
func Open(path string) (database.DataStore, error) {
	if database.IsJSONPath(path) {
		store, err := database.NewJSONStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := New(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
