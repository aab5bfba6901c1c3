// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cascade applies soft-delete and recovery transitions across the
goal, event and reminder hierarchy.

# Deletion

Deleting a parent marks every active descendant with the same timestamp:

	c := cascade.New(s)
	goal, err := c.DeleteGoal(ctx, actorID, goalID, now)

Descendants that were already deleted keep their original timestamp. A
Collective goal can only be deleted while at least one active event has a
Collaborator. Event deletion also creates one EventDeleted notification per
distinct recipient (owner plus participants).

# Recovery

Recovery restores a single entity, never its children, and appends an
audit entry. An event needs an active goal and a reminder needs an active
event. Recovering an entity that is already active returns it unchanged.

All methods run on the session they were built with; wrap calls in
db.Conn.InTx so a cascade commits or rolls back as a whole.
*/
package cascade
