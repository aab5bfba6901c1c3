// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/services"
)

// TrashHandler lists soft-deleted entities owned by the caller. Every
// listing accepts ?from= and ?to= bounds on the deletion time.
type TrashHandler struct {
	base
}

func NewTrashHandler(svc *services.Service, cfg cliparse.Config) *TrashHandler {
	return &TrashHandler{base: newBase(svc, cfg)}
}

// Goals handles GET /trash/goals
func (h *TrashHandler) Goals(w http.ResponseWriter, r *http.Request) {
	tr, err := h.timeRange(r)
	if err != nil {
		writeServiceError(w, err, "list deleted goals")
		return
	}

	goals, err := h.svc.ListDeletedGoals(r.Context(), actor(r), tr)
	if err != nil {
		writeServiceError(w, err, "list deleted goals")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponses(goals, h.outputZone(r)))
}

// Events handles GET /trash/events
func (h *TrashHandler) Events(w http.ResponseWriter, r *http.Request) {
	tr, err := h.timeRange(r)
	if err != nil {
		writeServiceError(w, err, "list deleted events")
		return
	}

	events, err := h.svc.ListDeletedEvents(r.Context(), actor(r), tr)
	if err != nil {
		writeServiceError(w, err, "list deleted events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponses(events, h.outputZone(r)))
}

// Reminders handles GET /trash/reminders with an optional ?event_id= filter
func (h *TrashHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	tr, err := h.timeRange(r)
	if err != nil {
		writeServiceError(w, err, "list deleted reminders")
		return
	}
	eventID, err := queryInt64(r, "event_id")
	if err != nil {
		writeServiceError(w, err, "list deleted reminders")
		return
	}

	reminders, err := h.svc.ListDeletedReminders(r.Context(), actor(r), eventID, tr)
	if err != nil {
		writeServiceError(w, err, "list deleted reminders")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponses(reminders, h.outputZone(r)))
}
