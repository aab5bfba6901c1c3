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

type GoalHandler struct {
	base
}

func NewGoalHandler(svc *services.Service, cfg cliparse.Config) *GoalHandler {
	return &GoalHandler{base: newBase(svc, cfg)}
}

// CreateGoal handles POST /goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGoalRequest
	if !parseBody(w, r, &req) {
		return
	}

	g, err := h.svc.CreateGoal(r.Context(), actor(r), services.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
	})
	if err != nil {
		writeServiceError(w, err, "create goal")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, goalResponse(g, h.outputZone(r)))
}

// ListGoals handles GET /goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.ListGoals(r.Context(), actor(r))
	if err != nil {
		writeServiceError(w, err, "list goals")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponses(goals, h.outputZone(r)))
}

// GetGoal handles GET /goals/{id}
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "get goal")
		return
	}

	g, err := h.svc.GetGoal(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "get goal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponse(g, h.outputZone(r)))
}

// UpdateGoal handles PUT /goals/{id}
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "update goal")
		return
	}
	var req models.UpdateGoalRequest
	if !parseBody(w, r, &req) {
		return
	}

	g, err := h.svc.UpdateGoal(r.Context(), actor(r), id, services.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
	})
	if err != nil {
		writeServiceError(w, err, "update goal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponse(g, h.outputZone(r)))
}

// DeleteGoal handles DELETE /goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "delete goal")
		return
	}

	g, err := h.svc.DeleteGoal(r.Context(), actor(r), id)
	if err != nil {
		writeServiceError(w, err, "delete goal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponse(g, h.outputZone(r)))
}

// RecoverGoal handles POST /goals/{id}/recover
func (h *GoalHandler) RecoverGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, "recover goal")
		return
	}
	detail, ok := recoverDetail(w, r)
	if !ok {
		return
	}

	g, err := h.svc.RecoverGoal(r.Context(), actor(r), id, detail)
	if err != nil {
		writeServiceError(w, err, "recover goal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, goalResponse(g, h.outputZone(r)))
}
