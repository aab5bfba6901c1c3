// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types for the planner.

# Domain Types

  - User: account with an IANA timezone
  - Goal: top-level container, Individual or Collective
  - Event: scheduled interval under a goal, optionally repeating
  - Reminder: point in time attached to an event, optionally repeating
  - Participant: a user's role on one event
  - AuditEntry: record of a recovery
  - Notification: in-system message for a user

Soft deletion is carried by Lifecycle, which is either Active() or
DeletedAt(t).

# Roles

Roles are stored as strings and parsed with ParseRole. Anything that is not
"Owner", "Collaborator" or "Reader" parses to RoleNone.

# Recurrence

A Recurrence has a Frequency (Daily, Weekly, Monthly), an Interval of at
least 1, and for weekly rules a WeekdaySet of canonical tokens:

	Mon,Tue,Wed,Thu,Fri,Sat,Sun

WeekdaySet keeps the caller's order and drops blanks and duplicates. The CSV
form only exists at the storage edge.

# Errors

Service outcomes use four error shapes:

  - ErrNotFound and ErrInvalid, both wrapping ErrNotApplied
  - *PermissionDeniedError for missing capabilities
  - *RuleViolationError for business rule conflicts
*/
package models
