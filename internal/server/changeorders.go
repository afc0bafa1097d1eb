package server

import (
	"errors"
	"net/http"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/telemetry"
)

type proposeChangeOrderRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Reason      string   `json:"reason"`
	CostChange  *float64 `json:"costChange"`
}

func (s *Server) handleProposeChangeOrder(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req proposeChangeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Title == "" {
		respondError(w, newValidationError("title", "is required"))
		return
	}
	reason := models.ChangeOrderReason(req.Reason)
	if !reason.Valid() {
		respondError(w, newValidationError("reason", "must be one of scope-change, cost-adjustment, timeline-change"))
		return
	}
	if req.CostChange == nil {
		respondError(w, newValidationError("costChange", "is required"))
		return
	}

	co, err := s.changeOrders.Propose(r.Context(), tc, projectID, store.ProposeChangeOrderInput{
		Title:       req.Title,
		Description: req.Description,
		Reason:      reason,
		CostChange:  *req.CostChange,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().ChangeOrdersProposedTotal.Add(r.Context(), 1)

	respondJSON(w, http.StatusCreated, co)
}

type resolveChangeOrderRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleResolveChangeOrder(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	changeOrderID, err := pathUUID(r, "changeOrderId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req resolveChangeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	status := models.ChangeOrderStatus(req.Status)
	if !status.Terminal() {
		respondError(w, newValidationError("status", "must be approved or rejected"))
		return
	}

	co, err := s.changeOrders.Resolve(r.Context(), tc, projectID, changeOrderID, status)
	if err != nil {
		if errors.Is(err, store.ErrChangeOrderResolved) {
			telemetry.GetMetrics().ChangeOrderConflictsTotal.Add(r.Context(), 1)
		}
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().ChangeOrdersResolvedTotal.Add(r.Context(), 1)

	respondJSON(w, http.StatusOK, co)
}

func (s *Server) handleListChangeOrders(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	orders, err := s.changeOrders.ListByProject(r.Context(), tc, projectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": orders})
}
