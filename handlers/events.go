// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/ics"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/services"
)

type EventHandler struct {
	base
}

func NewEventHandler(svc *services.Service, cfg cliparse.Config) *EventHandler {
	return &EventHandler{base: newBase(svc, cfg)}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if !parseBody(w, r, &req) {
		return
	}

	in, err := services.EventInputFrom(req, h.inputZone(r))
	if err != nil {
		writeServiceError(w, err, "create event")
		return
	}

	ev, err := h.svc.CreateEvent(r.Context(), actor(r), in)
	if err != nil {
		writeServiceError(w, err, "create event")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, eventResponse(ev, h.outputZone(r)))
}

// ListEvents handles GET /events with an optional ?goal_id= filter
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	goalID, err := queryInt64(r, "goal_id")
	if err != nil {
		writeServiceError(w, err, "list events")
		return
	}

	events, err := h.svc.ListEvents(r.Context(), actor(r), goalID)
	if err != nil {
		writeServiceError(w, err, "list events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponses(events, h.outputZone(r)))
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "get event")
		return
	}

	ev, err := h.svc.GetEvent(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "get event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponse(ev, h.outputZone(r)))
}

// UpdateEvent handles PUT /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "update event")
		return
	}
	var req models.UpdateEventRequest
	if !parseBody(w, r, &req) {
		return
	}

	patch, err := services.EventPatchFrom(req, h.inputZone(r))
	if err != nil {
		writeServiceError(w, err, "update event")
		return
	}

	ev, err := h.svc.UpdateEvent(r.Context(), actor(r), id, patch)
	if err != nil {
		writeServiceError(w, err, "update event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponse(ev, h.outputZone(r)))
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "delete event")
		return
	}

	ev, err := h.svc.DeleteEvent(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "delete event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponse(ev, h.outputZone(r)))
}

// RecoverEvent handles POST /events/{id}/recover
func (h *EventHandler) RecoverEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "recover event")
		return
	}
	detail, ok := recoverDetail(w, r)
	if !ok {
		return
	}

	ev, err := h.svc.RecoverEvent(r.Context(), actor(r), id, detail)
	if err != nil {
		writeServiceError(w, err, "recover event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponse(ev, h.outputZone(r)))
}

// Upcoming handles GET /events/upcoming?from=&to=
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.window(r)
	if err != nil {
		writeServiceError(w, err, "list upcoming events")
		return
	}

	occ, err := h.svc.UpcomingEvents(r.Context(), actor(r), from, to)
	if err != nil {
		writeServiceError(w, err, "list upcoming events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, occurrenceResponses(occ, h.outputZone(r)))
}

// Calendar handles GET /events/calendar.ics?from=&to=
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.window(r)
	if err != nil {
		writeServiceError(w, err, "export calendar")
		return
	}

	occ, err := h.svc.UpcomingEvents(r.Context(), actor(r), from, to)
	if err != nil {
		writeServiceError(w, err, "export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planner.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics.Build(occ, h.svc.Now()))); err != nil {
		slog.Error("failed to write calendar", "error", err)
	}
}
