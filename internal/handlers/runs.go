package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"depot-router/internal/config"
	"depot-router/internal/instance"
	"depot-router/internal/models"
	"depot-router/internal/report"
	"depot-router/internal/runner"
)

const runsPrefix = "/api/v1/runs/"

// RunListResponse represents the list response
type RunListResponse struct {
	Runs   []models.RunSummary `json:"runs"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// CreateRunRequest starts a search. Either Instance is given or a random
// instance is generated from the problem fields; zero fields take the
// configured defaults.
type CreateRunRequest struct {
	Instance       *models.Instance `json:"instance,omitempty"`
	Depots         int              `json:"depots,omitempty"`
	Customers      int              `json:"customers,omitempty"`
	Vehicles       int              `json:"vehicles,omitempty"`
	CustomerDemand int              `json:"customer_demand,omitempty"`
	PopulationSize int              `json:"population_size,omitempty"`
	Generations    *int             `json:"generations,omitempty"`
	MutationRate   *float64         `json:"mutation_rate,omitempty"`
	Seed           int64            `json:"seed,omitempty"`
}

// HandleListRuns handles GET /api/v1/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	log.Printf("[HTTP] GET /api/v1/runs: limit=%d offset=%d", limit, offset)
	runs, total, err := h.DB.Runs().List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list runs: limit=%d offset=%d err=%v", limit, offset, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, RunListResponse{
		Runs:   runs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleCreateRun handles POST /api/v1/runs. The search runs synchronously.
func (h *Handler) HandleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[HTTP] POST /api/v1/runs: invalid body err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}

	cfg := h.Defaults
	if cfg == nil {
		cfg = config.Default()
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	in := req.Instance
	if in == nil {
		opts := cfg.GenerateOptions()
		if req.Depots > 0 {
			opts.Depots = req.Depots
		}
		if req.Customers > 0 {
			opts.Customers = req.Customers
		}
		if req.Vehicles > 0 {
			opts.Vehicles = req.Vehicles
		}
		if req.CustomerDemand > 0 {
			opts.CustomerDemand = req.CustomerDemand
		}
		generated, err := instance.Generate(rand.New(rand.NewSource(seed)), opts)
		if err != nil {
			h.handleSearchError(w, err)
			return
		}
		in = generated
	}

	params := cfg.Params()
	if req.PopulationSize > 0 {
		params.PopulationSize = req.PopulationSize
	}
	if req.Generations != nil {
		params.Generations = *req.Generations
	}
	if req.MutationRate != nil {
		params.MutationRate = *req.MutationRate
	}

	log.Printf("[HTTP] POST /api/v1/runs: depots=%d customers=%d generations=%d seed=%d",
		len(in.Depots), len(in.Customers), params.Generations, seed)
	run, err := runner.Execute(r.Context(), runner.Request{
		Instance: in,
		Params:   params,
		Seed:     seed,
		Observer: h.Observer,
	})
	if err != nil {
		log.Printf("[ERROR] Search failed: err=%v", err)
		h.handleSearchError(w, err)
		return
	}

	created, err := h.DB.Runs().Create(r.Context(), run)
	if err != nil {
		log.Printf("[ERROR] Failed to store run: id=%s err=%v", run.ID, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Created run: id=%s best=%.4f", created.ID, created.BestFitness)
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleRun dispatches /api/v1/runs/{id} and its artifact sub-resources
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	id, artifact, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, runsPrefix), "/")
	if id == "" {
		h.handleNotFound(w, "Run not found")
		return
	}

	if r.Method == http.MethodDelete && artifact == "" {
		h.deleteRun(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	log.Printf("[HTTP] GET /api/v1/runs/{id}: id=%s artifact=%q", id, artifact)
	run, err := h.DB.Runs().GetByID(r.Context(), id)
	if h.checkNotFound(err) {
		h.handleNotFound(w, "Run not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to get run: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	switch artifact {
	case "":
		h.writeJSON(w, http.StatusOK, run)
	case "report":
		var buf bytes.Buffer
		if err := report.Text(&buf, run); err != nil {
			h.handleInternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(buf.Bytes())
	case "geojson":
		data, err := report.MarshalGeoJSON(&run.Instance, run.Best)
		if err != nil {
			h.handleInternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
	case "routes.png":
		p, err := report.RoutesPlot(&run.Instance, run.Best, "Run "+run.ID)
		if err != nil {
			h.handleInternalError(w, err)
			return
		}
		h.writePNG(w, p)
	case "fitness.png":
		p, err := report.FitnessPlot(run.History, "Run "+run.ID)
		if err != nil {
			h.handleInternalError(w, err)
			return
		}
		h.writePNG(w, p)
	default:
		h.handleNotFound(w, "Unknown run artifact")
	}
}

func (h *Handler) deleteRun(w http.ResponseWriter, r *http.Request, id string) {
	log.Printf("[HTTP] DELETE /api/v1/runs/{id}: id=%s", id)
	err := h.DB.Runs().Delete(r.Context(), id)
	if h.checkNotFound(err) {
		log.Printf("[HTTP] Run not found for delete: id=%s", id)
		h.handleNotFound(w, "Run not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] Failed to delete run: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Deleted run: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
