// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/planner/audit"
	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/notify"
	"github.com/danielhkuo/planner/permissions"
	"github.com/danielhkuo/planner/store"
)

// Coordinator applies delete and recover transitions inside one session.
// Callers run it within a transaction so a cascade commits as a whole.
type Coordinator struct {
	s        db.Session
	q        *store.Queries
	resolver *permissions.Resolver
}

func New(s db.Session) *Coordinator {
	q := store.New(s)
	return &Coordinator{s: s, q: q, resolver: permissions.NewResolver(q)}
}

// DeleteGoal soft-deletes a goal, its active events and their active
// reminders with one timestamp. Requires Owner on the goal. A Collective
// goal needs a Collaborator on one of its events.
func (c *Coordinator) DeleteGoal(ctx context.Context, actorID, goalID int64, at time.Time) (*models.Goal, error) {
	g, err := c.q.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.State.Deleted() {
		return nil, models.NotFoundf("goal %d is deleted", goalID)
	}

	role, err := c.resolver.RoleInGoal(ctx, g, actorID)
	if err != nil {
		return nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionDelete) {
		return nil, models.Denied("only the goal owner can delete goal %d", goalID)
	}

	if g.Kind == models.GoalCollective {
		n, err := c.q.CountCollaboratorsInGoal(ctx, goalID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, models.Violation("collective goal %d has no collaborator", goalID)
		}
	}

	if err := c.cascadeGoal(ctx, goalID, at); err != nil {
		return nil, err
	}
	g.State = models.DeletedAt(at)
	return g, nil
}

func (c *Coordinator) cascadeGoal(ctx context.Context, goalID int64, at time.Time) error {
	// Reminders first: the subquery selects events still active.
	if err := c.q.SoftDeleteRemindersByGoal(ctx, goalID, at); err != nil {
		return err
	}
	if err := c.q.SoftDeleteEventsByGoal(ctx, goalID, at); err != nil {
		return err
	}
	return c.q.SoftDeleteGoal(ctx, goalID, at)
}

// DeleteEvent soft-deletes an event and its active reminders and notifies
// the owner and every participant once. Requires Owner on the event.
func (c *Coordinator) DeleteEvent(ctx context.Context, actorID, eventID int64, at time.Time) (*models.Event, []models.Notification, error) {
	ev, err := c.q.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if ev.State.Deleted() {
		return nil, nil, models.NotFoundf("event %d is deleted", eventID)
	}

	role, err := c.resolver.RoleInEvent(ctx, ev, actorID)
	if err != nil {
		return nil, nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionDelete) {
		return nil, nil, models.Denied("only the event owner can delete event %d", eventID)
	}

	participants, err := c.q.ParticipantUserIDs(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	if err := c.q.SoftDeleteRemindersByEvent(ctx, eventID, at); err != nil {
		return nil, nil, err
	}
	if err := c.q.SoftDeleteEvent(ctx, eventID, at); err != nil {
		return nil, nil, err
	}

	recipients := append([]int64{ev.OwnerID}, participants...)
	msg := fmt.Sprintf("Event %q was deleted", ev.Title)
	notes, err := notify.RegisterEventDeleted(ctx, c.s, eventID, recipients, msg, at)
	if err != nil {
		return nil, nil, err
	}

	ev.State = models.DeletedAt(at)
	return ev, notes, nil
}

// DeleteReminder soft-deletes one reminder. Requires Owner on its event.
func (c *Coordinator) DeleteReminder(ctx context.Context, actorID, reminderID int64, at time.Time) (*models.Reminder, error) {
	r, err := c.q.GetReminder(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if r.State.Deleted() {
		return nil, models.NotFoundf("reminder %d is deleted", reminderID)
	}

	ev, err := c.q.GetEvent(ctx, r.EventID)
	if err != nil {
		return nil, err
	}
	role, err := c.resolver.RoleInEvent(ctx, ev, actorID)
	if err != nil {
		return nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionDelete) {
		return nil, models.Denied("only the event owner can delete reminder %d", reminderID)
	}

	if err := c.q.SoftDeleteReminder(ctx, reminderID, at); err != nil {
		return nil, err
	}
	r.State = models.DeletedAt(at)
	return r, nil
}

// DeleteUser soft-deletes a user's goals and events with their children,
// removes the user's participant rows and marks the user deleted, all with
// one timestamp. Users can only delete themselves. The collective goal
// guard does not apply.
func (c *Coordinator) DeleteUser(ctx context.Context, actorID, userID int64, at time.Time) error {
	if actorID != userID {
		return models.Denied("users can only delete their own account")
	}

	u, err := c.q.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.State.Deleted() {
		return models.NotFoundf("user %d is deleted", userID)
	}

	goalIDs, err := c.q.ListActiveGoalIDsOwnedBy(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range goalIDs {
		if err := c.cascadeGoal(ctx, id, at); err != nil {
			return err
		}
	}

	// Events owned under other users' goals
	eventIDs, err := c.q.ListActiveEventIDsOwnedBy(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range eventIDs {
		if err := c.q.SoftDeleteRemindersByEvent(ctx, id, at); err != nil {
			return err
		}
		if err := c.q.SoftDeleteEvent(ctx, id, at); err != nil {
			return err
		}
	}

	if err := c.q.DeleteParticipantsByUser(ctx, userID); err != nil {
		return err
	}
	return c.q.SoftDeleteUser(ctx, userID, at)
}

// RecoverGoal clears a goal's deleted marker and records an audit entry.
// Events and reminders stay deleted. Requires Owner and an active owner.
func (c *Coordinator) RecoverGoal(ctx context.Context, actorID, goalID int64, detail string, at time.Time) (*models.Goal, error) {
	g, err := c.q.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	role, err := c.resolver.RoleInGoal(ctx, g, actorID)
	if err != nil {
		return nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionRecover) {
		return nil, models.Denied("only the goal owner can recover goal %d", goalID)
	}
	if !g.State.Deleted() {
		return g, nil
	}

	owner, err := c.q.GetUser(ctx, g.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.State.Deleted() {
		return nil, models.Violation("owner of goal %d is deleted", goalID)
	}

	if err := c.q.RestoreGoal(ctx, goalID, at); err != nil {
		return nil, err
	}
	if _, err := audit.Record(ctx, c.s, models.KindGoal, goalID, &actorID, auditDetail(detail, models.KindGoal, goalID), at); err != nil {
		return nil, err
	}
	return c.q.GetGoal(ctx, goalID)
}

// RecoverEvent clears an event's deleted marker and records an audit entry.
// Reminders stay deleted. The role is resolved as if the event were active;
// the goal must be active.
func (c *Coordinator) RecoverEvent(ctx context.Context, actorID, eventID int64, detail string, at time.Time) (*models.Event, error) {
	ev, err := c.q.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	role, err := c.resolver.RoleInEventIncludingDeleted(ctx, ev, actorID)
	if err != nil {
		return nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionRecover) {
		return nil, models.Denied("only the event owner can recover event %d", eventID)
	}
	if !ev.State.Deleted() {
		return ev, nil
	}

	g, err := c.q.GetGoal(ctx, ev.GoalID)
	if err != nil {
		return nil, err
	}
	if g.State.Deleted() {
		return nil, models.Violation("goal %d of event %d is deleted", g.ID, eventID)
	}

	if err := c.q.RestoreEvent(ctx, eventID, at); err != nil {
		return nil, err
	}
	if _, err := audit.Record(ctx, c.s, models.KindEvent, eventID, &actorID, auditDetail(detail, models.KindEvent, eventID), at); err != nil {
		return nil, err
	}
	return c.q.GetEvent(ctx, eventID)
}

// RecoverReminder clears a reminder's deleted marker and records an audit
// entry. The event must be active and the caller its Owner.
func (c *Coordinator) RecoverReminder(ctx context.Context, actorID, reminderID int64, detail string, at time.Time) (*models.Reminder, error) {
	r, err := c.q.GetReminder(ctx, reminderID)
	if err != nil {
		return nil, err
	}

	ev, err := c.q.GetEvent(ctx, r.EventID)
	if err != nil {
		return nil, err
	}
	if ev.State.Deleted() {
		return nil, models.Violation("event %d of reminder %d is deleted", ev.ID, reminderID)
	}

	role, err := c.resolver.RoleInEvent(ctx, ev, actorID)
	if err != nil {
		return nil, err
	}
	if !permissions.HasPermission(role, permissions.ActionRecover) {
		return nil, models.Denied("only the event owner can recover reminder %d", reminderID)
	}
	if !r.State.Deleted() {
		return r, nil
	}

	if err := c.q.RestoreReminder(ctx, reminderID); err != nil {
		return nil, err
	}
	if _, err := audit.Record(ctx, c.s, models.KindReminder, reminderID, &actorID, auditDetail(detail, models.KindReminder, reminderID), at); err != nil {
		return nil, err
	}
	return c.q.GetReminder(ctx, reminderID)
}

func auditDetail(detail string, kind models.EntityKind, id int64) string {
	if detail != "" {
		return detail
	}
	return fmt.Sprintf("%s %d recovered", kind, id)
}
