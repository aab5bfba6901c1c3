// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/services"
	"github.com/danielhkuo/planner/timezone"
)

type ReminderHandler struct {
	base
}

func NewReminderHandler(svc *services.Service, cfg cliparse.Config) *ReminderHandler {
	return &ReminderHandler{base: newBase(svc, cfg)}
}

// CreateReminder handles POST /events/{id}/reminders
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "create reminder")
		return
	}
	var req models.CreateReminderRequest
	if !parseBody(w, r, &req) {
		return
	}

	in, err := services.ReminderInputFrom(req, h.inputZone(r))
	if err != nil {
		writeServiceError(w, err, "create reminder")
		return
	}

	rem, err := h.svc.CreateReminder(r.Context(), actor(r), eventID, in)
	if err != nil {
		writeServiceError(w, err, "create reminder")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, reminderResponse(rem, h.outputZone(r)))
}

// ListReminders handles GET /events/{id}/reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "list reminders")
		return
	}

	reminders, err := h.svc.ListReminders(r.Context(), actor(r), eventID)
	if err != nil {
		writeServiceError(w, err, "list reminders")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponses(reminders, h.outputZone(r)))
}

// GetReminder handles GET /reminders/{id}
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "get reminder")
		return
	}

	rem, err := h.svc.GetReminder(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "get reminder")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponse(rem, h.outputZone(r)))
}

// UpdateReminder handles PUT /reminders/{id}
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "update reminder")
		return
	}
	var req models.UpdateReminderRequest
	if !parseBody(w, r, &req) {
		return
	}

	patch, err := services.ReminderPatchFrom(req, h.inputZone(r))
	if err != nil {
		writeServiceError(w, err, "update reminder")
		return
	}

	rem, err := h.svc.UpdateReminder(r.Context(), actor(r), id, patch)
	if err != nil {
		writeServiceError(w, err, "update reminder")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponse(rem, h.outputZone(r)))
}

// DeleteReminder handles DELETE /reminders/{id}
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "delete reminder")
		return
	}

	rem, err := h.svc.DeleteReminder(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "delete reminder")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponse(rem, h.outputZone(r)))
}

// RecoverReminder handles POST /reminders/{id}/recover
func (h *ReminderHandler) RecoverReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "recover reminder")
		return
	}
	detail, ok := recoverDetail(w, r)
	if !ok {
		return
	}

	rem, err := h.svc.RecoverReminder(r.Context(), actor(r), id, detail)
	if err != nil {
		writeServiceError(w, err, "recover reminder")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, reminderResponse(rem, h.outputZone(r)))
}

// Upcoming handles GET /reminders/upcoming?from=&to=
func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.window(r)
	if err != nil {
		writeServiceError(w, err, "list upcoming reminders")
		return
	}

	occ, err := h.svc.UpcomingReminders(r.Context(), actor(r), from, to)
	if err != nil {
		writeServiceError(w, err, "list upcoming reminders")
		return
	}

	zone := h.outputZone(r)
	out := make([]models.ReminderOccurrenceResponse, 0, len(occ))
	for _, o := range occ {
		out = append(out, models.ReminderOccurrenceResponse{
			ReminderID: o.Reminder.ID,
			EventID:    o.Reminder.EventID,
			FireAt:     timezone.ToZonedISO(o.FireAt, zone),
			Channel:    o.Reminder.Channel,
			Message:    o.Reminder.Message,
		})
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}
