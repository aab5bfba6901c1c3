// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/services"
)

// SyncHandler applies offline batches. The response is always 200 with a
// result per attempted operation.
type SyncHandler struct {
	base
}

func NewSyncHandler(svc *services.Service, cfg cliparse.Config) *SyncHandler {
	return &SyncHandler{base: newBase(svc, cfg)}
}

func parseSync(w http.ResponseWriter, r *http.Request) (models.SyncRequest, bool) {
	var req models.SyncRequest
	if !parseBody(w, r, &req) {
		return req, false
	}
	if len(req.Operations) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "operations is required")
		return req, false
	}
	return req, true
}

// Goals handles POST /sync/goals
func (h *SyncHandler) Goals(w http.ResponseWriter, r *http.Request) {
	req, ok := parseSync(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.svc.SyncGoals(r.Context(), actor(r), req))
}

// Events handles POST /sync/events
func (h *SyncHandler) Events(w http.ResponseWriter, r *http.Request) {
	req, ok := parseSync(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.svc.SyncEvents(r.Context(), actor(r), req, h.inputZone(r)))
}
