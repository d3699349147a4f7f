package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kerov/travel-force/internal/database"
	"github.com/kerov/travel-force/internal/engine"
	"github.com/kerov/travel-force/internal/models"
	"github.com/kerov/travel-force/internal/service"
	"github.com/kerov/travel-force/internal/websocket"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	assignments service.AssignmentService
	hub         *websocket.Hub
}

// NewHandler creates a new Handler instance
func NewHandler(assignments service.AssignmentService, hub *websocket.Hub) *Handler {
	return &Handler{
		assignments: assignments,
		hub:         hub,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrBusy):
		respondError(w, http.StatusConflict, "Another assignment is in progress")
	case errors.Is(err, service.ErrInvalidTripID):
		respondError(w, http.StatusBadRequest, "Invalid trip ID")
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, engine.ErrNoTicket):
		respondError(w, http.StatusNotFound, "No ticket for the current flight")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetTripView handles GET /api/trips/{id}/view
func (h *Handler) GetTripView(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	state, err := h.assignments.ViewState(r.Context(), tripID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SelectFlight handles POST /api/trips/{id}/flight
func (h *Handler) SelectFlight(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	var req models.SelectFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}

	if err := h.assignments.SelectFlight(r.Context(), tripID, req.FlightID); err != nil {
		respondServiceError(w, err)
		return
	}

	state, _ := h.assignments.ViewState(r.Context(), tripID)
	respondJSON(w, http.StatusOK, state)
}

// ClearFlight handles DELETE /api/trips/{id}/flight
func (h *Handler) ClearFlight(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	if err := h.assignments.ClearFlight(r.Context(), tripID); err != nil {
		respondServiceError(w, err)
		return
	}

	state, _ := h.assignments.ViewState(r.Context(), tripID)
	respondJSON(w, http.StatusOK, state)
}

// RefreshTrip handles POST /api/trips/{id}/refresh
func (h *Handler) RefreshTrip(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	if err := h.assignments.Refresh(r.Context(), tripID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"message": "Refresh requested"})
}

// NavigateToTicket handles POST /api/trips/{id}/ticket/navigation
func (h *Handler) NavigateToTicket(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	ref, err := h.assignments.NavigateToTicket(r.Context(), tripID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ref)
}

// WatchTrip handles GET /api/trips/{id}/ws
func (h *Handler) WatchTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	// Ensure the session exists so the socket receives state pushes.
	if _, err := h.assignments.ViewState(r.Context(), tripID.String()); err != nil {
		respondServiceError(w, err)
		return
	}

	h.hub.ServeWS(w, r, tripID)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
