package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mohae/deepcopy"

	"depot-router/internal/models"
)

// JSONData represents the structure of the JSON file
type JSONData struct {
	Runs []models.Run `json:"runs"`
}

// JSONStore is a JSON file-based data store. The whole file is rewritten after every change.
type JSONStore struct {
	filePath string
	data     *JSONData
	mu       sync.RWMutex

	runRepository RunRepository
}

func (s *JSONStore) Runs() RunRepository { return s.runRepository }

// NewJSONStore opens or creates the JSON data file at filePath
func NewJSONStore(filePath string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	log.Printf("[DB] Using JSON data file: %s", filePath)

	store := &JSONStore{
		filePath: filePath,
		data:     &JSONData{},
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	store.runRepository = &jsonRunRepository{store: store}
	return store, nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.data = &JSONData{Runs: []models.Run{}}
		return s.saveUnlocked()
	}
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	if err := json.Unmarshal(data, s.data); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}
	if s.data.Runs == nil {
		s.data.Runs = []models.Run{}
	}

	log.Printf("[DB] Loaded data: %d runs", len(s.data.Runs))
	return nil
}

func (s *JSONStore) saveUnlocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temp file first, then rename (atomic)
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Close is a no-op for JSON store (data is saved after each operation)
func (s *JSONStore) Close() error {
	return nil
}

// HealthCheck verifies the data file is still readable
func (s *JSONStore) HealthCheck(ctx context.Context) error {
	_, err := os.Stat(s.filePath)
	return err
}

type jsonRunRepository struct {
	store *JSONStore
}

func (r *jsonRunRepository) List(ctx context.Context, limit, offset int) ([]models.RunSummary, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	runs := make([]*models.Run, len(r.store.data.Runs))
	for i := range r.store.data.Runs {
		runs[i] = &r.store.data.Runs[i]
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	total := len(runs)
	if offset >= total {
		return []models.RunSummary{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	summaries := make([]models.RunSummary, 0, end-offset)
	for _, run := range runs[offset:end] {
		summaries = append(summaries, run.Summary())
	}
	return summaries, total, nil
}

func (r *jsonRunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.data.Runs {
		if r.store.data.Runs[i].ID == id {
			run := deepcopy.Copy(r.store.data.Runs[i]).(models.Run)
			return &run, nil
		}
	}
	return nil, ErrNotFound
}

func (r *jsonRunRepository) Create(ctx context.Context, run *models.Run) (*models.Run, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if run.ID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	for _, existing := range r.store.data.Runs {
		if existing.ID == run.ID {
			return nil, fmt.Errorf("run %s already exists", run.ID)
		}
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	r.store.data.Runs = append(r.store.data.Runs, *run)
	if err := r.store.saveUnlocked(); err != nil {
		r.store.data.Runs = r.store.data.Runs[:len(r.store.data.Runs)-1]
		return nil, err
	}
	return run, nil
}

func (r *jsonRunRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, run := range r.store.data.Runs {
		if run.ID == id {
			r.store.data.Runs = append(r.store.data.Runs[:i], r.store.data.Runs[i+1:]...)
			return r.store.saveUnlocked()
		}
	}
	return ErrNotFound
}
