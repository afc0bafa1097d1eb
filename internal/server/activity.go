package server

import (
	"net/http"

	"github.com/cornndawwg/the-icatalyst-crm/internal/telemetry"
)

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	limit := intQuery(r.URL.Query().Get("limit"), 50)
	activities, err := s.activities.List(r.Context(), tc, projectID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": activities})
}

type addNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Description == "" {
		respondError(w, newValidationError("description", "is required"))
		return
	}

	activity, err := s.activities.AddNote(r.Context(), tc, projectID, req.Title, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().ActivitiesWrittenTotal.Add(r.Context(), 1)

	respondJSON(w, http.StatusCreated, activity)
}
