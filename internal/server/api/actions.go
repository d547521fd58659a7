// Package api provides HTTP API handlers for the HUD.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/holohud/internal/action"
)

// Submitter accepts actions for the next tick.
type Submitter interface {
	Submit(a action.Action, origin action.Origin) bool
}

// ActionHandler handles manual action submission.
type ActionHandler struct {
	queue Submitter
	now   func() time.Time
}

// NewActionHandler creates a new ActionHandler that submits to q.
func NewActionHandler(q Submitter) *ActionHandler {
	return &ActionHandler{queue: q, now: time.Now}
}

// ServeHTTP implements the http.Handler interface.
// GET lists the action names; POST queues one action.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type submitActionRequest struct {
	Action string `json:"action"`
}

type submitActionResponse struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

type listActionsResponse struct {
	Actions []string `json:"actions"`
}

// list handles GET /api/actions.
func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	all := action.All()
	response := listActionsResponse{Actions: make([]string, 0, len(all))}
	for _, a := range all {
		response.Actions = append(response.Actions, a.String())
	}
	writeJSON(w, http.StatusOK, response)
}

// submit handles POST /api/actions. The action runs on the next tick, so
// the response is 202 Accepted.
func (h *ActionHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	a, err := action.Parse(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.queue.Submit(a, action.OriginAPI) {
		writeError(w, http.StatusServiceUnavailable, "Action queue is full")
		return
	}

	writeJSON(w, http.StatusAccepted, submitActionResponse{
		ID:          uuid.New().String(),
		Action:      a.String(),
		Status:      "queued",
		SubmittedAt: h.now().Format("2006-01-02T15:04:05Z07:00"),
	})
}
