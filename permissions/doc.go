// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package permissions resolves a user's effective role on goals and events.

# Roles on an Event

The owner of record is always Owner. Anyone else gets the role of their
participant row, or no role. A deleted event grants nothing:

	role, err := resolver.RoleInEvent(ctx, event, userID)

# Roles on a Goal

The goal owner is Owner. Other users inherit from their participant rows on
the goal's events, with Collaborator taking priority over Owner, and Owner
over Reader. A Collaborator on any sub-event can write at the goal level.

# Capabilities

	Owner:        create, read, update, delete, recover
	Collaborator: create, read, update
	Reader:       read
*/
package permissions
