// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/services"
)

type NotificationHandler struct {
	base
}

func NewNotificationHandler(svc *services.Service, cfg cliparse.Config) *NotificationHandler {
	return &NotificationHandler{base: newBase(svc, cfg)}
}

// ListNotifications handles GET /notifications?unread=true
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	onlyUnread := false
	if v := r.URL.Query().Get("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unread must be a boolean")
			return
		}
		onlyUnread = b
	}

	notes, err := h.svc.ListNotifications(r.Context(), actor(r), onlyUnread)
	if err != nil {
		writeServiceError(w, err, "list notifications")
		return
	}

	zone := h.outputZone(r)
	out := make([]models.NotificationResponse, 0, len(notes))
	for i := range notes {
		out = append(out, notificationResponse(&notes[i], zone))
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "mark notification read")
		return
	}

	n, err := h.svc.MarkNotificationRead(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "mark notification read")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MarkReadResponse{ID: n.ID, Read: n.ReadAt != nil})
}

// ListAudit handles GET /audit?kind=
func (h *NotificationHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListAudit(r.Context(), actor(r), r.URL.Query().Get("kind"))
	if err != nil {
		writeServiceError(w, err, "list audit entries")
		return
	}

	zone := h.outputZone(r)
	out := make([]models.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, auditResponse(&entries[i], zone))
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}
