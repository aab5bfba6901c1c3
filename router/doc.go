// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the planner API.

# Route Registration

NewRouter builds the service layer and a configured http.ServeMux:

	mux := router.NewRouter(conn, cfg, services.WithLogger(logger))

# Endpoints

Health:

	GET /health

Users (POST is public, the rest need a bearer token):

	POST   /users    - Register, returns a token
	GET    /users/me - Profile
	PATCH  /users/me - Change name or timezone
	DELETE /users/me - Delete account and everything owned

Goals:

	POST   /goals              - Create
	GET    /goals              - List own goals
	GET    /goals/{id}         - Get
	PUT    /goals/{id}         - Update
	DELETE /goals/{id}         - Soft delete with events and reminders
	POST   /goals/{id}/recover - Restore

Events:

	POST   /events               - Create under a goal
	GET    /events               - Visible events, ?goal_id= filters
	GET    /events/upcoming      - Occurrences in ?from= .. ?to=
	GET    /events/calendar.ics  - Same window as iCalendar
	GET    /events/{id}          - Get
	PUT    /events/{id}          - Update
	DELETE /events/{id}          - Soft delete, notifies participants
	POST   /events/{id}/recover  - Restore

Participants:

	GET    /events/{id}/participants
	POST   /events/{id}/participants
	PUT    /events/{id}/participants/{userId}
	DELETE /events/{id}/participants/{userId}
	POST   /events/{id}/transfer

Reminders:

	POST   /events/{id}/reminders
	GET    /events/{id}/reminders
	GET    /reminders/upcoming
	GET    /reminders/{id}
	PUT    /reminders/{id}
	DELETE /reminders/{id}
	POST   /reminders/{id}/recover

Notifications, audit and trash:

	GET  /notifications
	POST /notifications/{id}/read
	GET  /audit
	GET  /trash/goals
	GET  /trash/events
	GET  /trash/reminders

Offline sync:

	POST /sync/goals
	POST /sync/events
*/
package router
