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

type ParticipantHandler struct {
	base
}

func NewParticipantHandler(svc *services.Service, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{base: newBase(svc, cfg)}
}

// ListParticipants handles GET /events/{id}/participants
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "list participants")
		return
	}

	parts, err := h.svc.ListParticipants(r.Context(), actor(r), eventID)
	if err != nil {
		writeServiceError(w, err, "list participants")
		return
	}

	zone := h.outputZone(r)
	out := make([]models.ParticipantResponse, 0, len(parts))
	for i := range parts {
		out = append(out, participantResponse(&parts[i], zone))
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// AddParticipant handles POST /events/{id}/participants
func (h *ParticipantHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "add participant")
		return
	}
	var req models.AddParticipantRequest
	if !parseBody(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	p, err := h.svc.AddParticipant(r.Context(), actor(r), eventID, req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, err, "add participant")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, participantResponse(p, h.outputZone(r)))
}

// ChangeRole handles PUT /events/{id}/participants/{userId}
func (h *ParticipantHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "change role")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, err, "change role")
		return
	}
	var req models.ChangeRoleRequest
	if !parseBody(w, r, &req) {
		return
	}

	p, err := h.svc.ChangeRole(r.Context(), actor(r), eventID, userID, req.Role)
	if err != nil {
		writeServiceError(w, err, "change role")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, participantResponse(p, h.outputZone(r)))
}

// RemoveParticipant handles DELETE /events/{id}/participants/{userId}
func (h *ParticipantHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "remove participant")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, err, "remove participant")
		return
	}

	if err := h.svc.RemoveParticipant(r.Context(), actor(r), eventID, userID); err != nil {
		writeServiceError(w, err, "remove participant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransferOwnership handles POST /events/{id}/transfer
func (h *ParticipantHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "transfer ownership")
		return
	}
	var req models.TransferOwnershipRequest
	if !parseBody(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ev, err := h.svc.TransferOwnership(r.Context(), actor(r), eventID, req.UserID)
	if err != nil {
		writeServiceError(w, err, "transfer ownership")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, eventResponse(ev, h.outputZone(r)))
}
