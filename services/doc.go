// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package services implements the planner's use cases on top of the store,
permissions, cascade, audit and notify packages.

Every exported method takes the acting user's id first. The actor must be an
active user; a missing or deleted actor is refused with a permission error.
Each call runs in one transaction, so a failed check leaves no partial
writes behind.

# Errors

Methods return the sentinel errors of package models:

	models.ErrNotFound              missing or soft-deleted entity
	models.ErrInvalid               malformed input
	*models.PermissionDeniedError   the actor's role does not allow the action
	*models.RuleViolationError      the action breaks a domain rule

# Reads

Events are readable by their participants and by the owner of the goal they
belong to. Deleted entities are invisible except through the trash listings
(ListDeletedGoals, ListDeletedEvents, ListDeletedReminders) and the Recover
methods.

# Time

Inputs and outputs are UTC. The helpers EventInputFrom, EventPatchFrom,
ReminderInputFrom and ReminderPatchFrom convert request payloads, reading
times without an offset in the caller's zone.

# Batches

SyncGoals and SyncEvents apply offline edits in order. A create may carry a
negative temp_id; later updates may target that id and are rewritten to the
id the create produced.
*/
package services
