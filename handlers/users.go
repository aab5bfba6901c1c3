// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planner/auth"
	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/services"
	"github.com/danielhkuo/planner/timezone"
)

type UserHandler struct {
	base
}

func NewUserHandler(svc *services.Service, cfg cliparse.Config) *UserHandler {
	return &UserHandler{base: newBase(svc, cfg)}
}

// Register handles POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if !parseBody(w, r, &req) {
		return
	}

	u, err := h.svc.RegisterUser(r.Context(), req.Email, req.Name, req.Timezone)
	if err != nil {
		writeServiceError(w, err, "register user")
		return
	}

	zone, _ := timezone.Load(u.Timezone)
	middleware.JSONResponse(w, http.StatusCreated, models.RegisterUserResponse{
		User:  userResponse(u, zone),
		Token: auth.IssueToken(u.ID, h.cfg.TokenSecret),
	})
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), actor(r))
	if err != nil {
		writeServiceError(w, err, "get user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, userResponse(u, h.outputZone(r)))
}

// UpdateMe handles PATCH /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if !parseBody(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), actor(r), services.UserPatch{Name: req.Name, Timezone: req.Timezone})
	if err != nil {
		writeServiceError(w, err, "update user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, userResponse(u, h.outputZone(r)))
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), actor(r)); err != nil {
		writeServiceError(w, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
