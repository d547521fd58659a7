package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/holohud/internal/app"
)

// StateProvider returns the latest HUD snapshot.
type StateProvider interface {
	Snapshot() app.Snapshot
}

// StateHandler serves GET /api/state.
type StateHandler struct {
	provider StateProvider
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(p StateProvider) *StateHandler {
	return &StateHandler{provider: p}
}

// ServeHTTP implements the http.Handler interface.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Snapshot())
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
