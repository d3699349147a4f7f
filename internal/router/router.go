package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kerov/travel-force/internal/handlers"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Trip assignment view and actions
	api.HandleFunc("/trips/{id}/view", h.GetTripView).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/trips/{id}/flight", h.SelectFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/trips/{id}/flight", h.ClearFlight).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/trips/{id}/refresh", h.RefreshTrip).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/trips/{id}/ticket/navigation", h.NavigateToTicket).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for real-time view state updates
	api.HandleFunc("/trips/{id}/ws", h.WatchTrip)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
