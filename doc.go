// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the planner API server.

The planner keeps users, their goals, the events scheduled under each goal
and the reminders attached to events. Events are shared through participant
roles (Owner, Collaborator, Reader). Deletes are soft and cascade; deleted
goals, events and reminders can be recovered, and every recovery is written
to an audit log.

# Starting the Server

Configuration comes from a YAML file, environment variables (a .env file is
loaded when present) and CLI flags, later sources winning:

	TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -token-secret ...

# Configuration

Required settings:

  - TOKEN_SECRET (-token-secret): Secret for bearer token signatures

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: sqlite)
  - DATABASE_URL (-d): Connection string, required for postgres
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - LOG_FORMAT (-log-format): text or json (default: text)
  - CONFIG_FILE (-c): YAML config file

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: Request ids, logging, bearer auth, CORS, JSON helpers
  - services: Use cases, one transaction per call
  - store: SQL queries for both dialects
  - permissions: Role resolution and the role/action matrix
  - cascade: Soft delete and recovery across goals, events and reminders
  - recurrence: Repeat rules and occurrence expansion
  - timezone: Zone resolution and conversion
  - audit, notify: Recovery log and user notifications
  - ics: iCalendar export
  - db: Connections and migrations
  - cliparse, logging: Configuration and structured logging

See package documentation for each component.
*/
package main
