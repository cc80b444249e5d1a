package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"depot-router/internal/config"
	"depot-router/internal/database"
	"depot-router/internal/instance"
	"depot-router/internal/routing"
)

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB       database.DataStore
	Defaults *config.Config  // fills fields a create request leaves empty
	Observer routing.Observer // receives events of runs started over HTTP
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleSearchError maps engine failures to 400 or 422 responses
func (h *Handler) handleSearchError(w http.ResponseWriter, err error) {
	var verr *instance.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), map[string]interface{}{
			"field": verr.Field,
		})
		return
	}
	var cerr *routing.ErrConstructionFailed
	if errors.As(err, &cerr) {
		h.writeError(w, http.StatusUnprocessableEntity, "CONSTRUCTION_FAILED", cerr.Error(), map[string]interface{}{
			"attempts":       cerr.Attempts,
			"total_demand":   cerr.TotalDemand,
			"fleet_capacity": cerr.FleetCapacity,
		})
		return
	}
	h.writeError(w, http.StatusUnprocessableEntity, "SEARCH_FAILED", err.Error(), nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// checkNotFound checks if an error is a not found error
func (h *Handler) checkNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "connected"

	if err := h.DB.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "error"
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"version":  "1.0.0",
		"database": dbStatus,
	})
}
