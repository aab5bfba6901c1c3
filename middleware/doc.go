// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /goals", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request carries an id, generated with uuid unless the
client sends X-Request-ID, and echoed back in the response header.

# Authentication

RequireUser checks the bearer token and stores the user id in the context:

	mux.HandleFunc("GET /goals", middleware.WithLogging(
		middleware.RequireUser(cfg.TokenSecret, h.ListGoals)))

	userID, _ := middleware.UserID(r.Context())

Requests without a valid token get 401.

# CORS Middleware

	server := http.Server{Handler: middleware.CORS(mux)}

Allows GET, POST, PUT, PATCH, DELETE and OPTIONS with Content-Type,
Authorization and X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
	err := middleware.ParseJSONBody(r, &req)
*/
package middleware
