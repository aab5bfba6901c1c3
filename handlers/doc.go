// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the planner API.

# Handler Types

Each handler embeds the service layer and config:

  - UserHandler: Registration, profile and account deletion
  - GoalHandler: Goal CRUD and recovery
  - EventHandler: Event CRUD, agenda and iCalendar export
  - ParticipantHandler: Roles on an event and ownership transfer
  - ReminderHandler: Reminder CRUD and upcoming fire times
  - NotificationHandler: Notification inbox and the recovery audit log
  - TrashHandler: Deleted goals, events and reminders
  - SyncHandler: Offline batch application

Handlers are created via constructor functions that accept the service and
Config:

	goalHandler := handlers.NewGoalHandler(svc, cfg)

# Authentication

Every route except POST /users runs behind middleware.RequireUser, which
puts the caller's id in the request context.

# Time Zones

Times without an offset are read in ?input_tz=, else the caller's stored
zone, else UTC. Responses are rendered in ?tz= with the same fallbacks.

# Errors

Service errors map onto status codes:

	models.ErrNotFound     404
	models.ErrInvalid      400
	permission denied      403
	rule violation         409
	anything else          500, logged, generic message
*/
package handlers
