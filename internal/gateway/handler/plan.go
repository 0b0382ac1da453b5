package handler

import (
	"context"
	"net/http"

	"urbanplanner/internal/planner"
	"urbanplanner/internal/planning"
)

var _ Planner = (*planner.Service)(nil)

func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req planning.PlanningRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	rep, err := h.planner.GeneratePlan(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) GenerateLayout(w http.ResponseWriter, r *http.Request) {
	var req planning.PlanningRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	rep, err := h.planner.AnalyzeLayout(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
