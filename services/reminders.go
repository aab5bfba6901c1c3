// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/permissions"
	"github.com/danielhkuo/planner/recurrence"
)

// ReminderOccurrence is one projected fire time of a reminder.
type ReminderOccurrence struct {
	Reminder models.Reminder
	FireAt   time.Time
}

// checkFireTime rejects reminders that would never fire again. An explicit
// fire time must not be in the past; a repeating reminder needs a future
// occurrence.
func checkFireTime(fireAt time.Time, rule *models.Recurrence, explicit bool, now time.Time) error {
	if (explicit || rule == nil) && fireAt.Before(now) {
		return models.Invalidf("fire_at is in the past")
	}
	if rule == nil {
		return nil
	}
	if _, ok := recurrence.NextAfter(fireAt, rule, now); !ok {
		return models.Invalidf("repeating reminder has no future occurrence")
	}
	return nil
}

// CreateReminder attaches a reminder to an active event. Requires create on
// the event. Channel defaults to Local.
func (s *Service) CreateReminder(ctx context.Context, actorID, eventID int64, in ReminderInput) (*models.Reminder, error) {
	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		channel = models.ChannelLocal
	}
	if !validChannel(channel) {
		return nil, models.Invalidf("unknown channel %q", channel)
	}
	if in.Recurrence != nil {
		if err := in.Recurrence.Validate(); err != nil {
			return nil, err
		}
	}
	now := s.Now()
	if err := checkFireTime(in.FireAt, in.Recurrence, true, now); err != nil {
		return nil, err
	}

	r := &models.Reminder{
		EventID:    eventID,
		FireAt:     in.FireAt.UTC(),
		Channel:    channel,
		Message:    in.Message,
		Recurrence: in.Recurrence,
		CreatedAt:  now,
	}
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		ev, err := tx.activeEvent(ctx, eventID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInEvent(ctx, ev, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionCreate) {
			return models.Denied("cannot add reminders to event %d", eventID)
		}
		return tx.q.CreateReminder(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reminder created", "reminder_id", r.ID, "event_id", eventID)
	return r, nil
}

// GetReminder returns an active reminder on an event the acting user can read.
func (s *Service) GetReminder(ctx context.Context, actorID, reminderID int64) (*models.Reminder, error) {
	var r *models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var ev *models.Event
		var err error
		r, ev, err = tx.activeReminder(ctx, reminderID)
		if err != nil {
			return err
		}
		return tx.requireEventRead(ctx, ev, actorID)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReminders returns the active reminders of an event.
func (s *Service) ListReminders(ctx context.Context, actorID, eventID int64) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		ev, err := tx.activeEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if err := tx.requireEventRead(ctx, ev, actorID); err != nil {
			return err
		}
		out, err = tx.q.ListRemindersByEvent(ctx, eventID, false)
		return err
	})
	return out, err
}

// UpdateReminder applies a partial update. Requires update on the event.
// Fire-time rules are checked again only when the fire time or the repeat
// rule changes.
func (s *Service) UpdateReminder(ctx context.Context, actorID, reminderID int64, patch ReminderPatch) (*models.Reminder, error) {
	var r *models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var ev *models.Event
		var err error
		r, ev, err = tx.activeReminder(ctx, reminderID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInEvent(ctx, ev, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionUpdate) {
			return models.Denied("cannot update reminder %d", reminderID)
		}

		timingChanged := false
		if patch.FireAt != nil {
			r.FireAt = patch.FireAt.UTC()
			timingChanged = true
		}
		switch {
		case patch.ClearRecurrence:
			r.Recurrence = nil
			timingChanged = true
		case patch.Recurrence != nil:
			if err := patch.Recurrence.Validate(); err != nil {
				return err
			}
			r.Recurrence = patch.Recurrence
			timingChanged = true
		}
		if timingChanged {
			if err := checkFireTime(r.FireAt, r.Recurrence, patch.FireAt != nil, s.Now()); err != nil {
				return err
			}
		}

		if patch.Channel != nil {
			channel := strings.TrimSpace(*patch.Channel)
			if !validChannel(channel) {
				return models.Invalidf("unknown channel %q", channel)
			}
			r.Channel = channel
		}
		if patch.Message != nil {
			r.Message = *patch.Message
		}
		if patch.Sent != nil {
			r.Sent = *patch.Sent
		}
		return tx.q.UpdateReminder(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReminder soft-deletes a reminder. Requires Owner on its event.
func (s *Service) DeleteReminder(ctx context.Context, actorID, reminderID int64) (*models.Reminder, error) {
	var r *models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		r, err = tx.cascade.DeleteReminder(ctx, actorID, reminderID, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder deleted", "reminder_id", reminderID, "user_id", actorID)
	return r, nil
}

// RecoverReminder restores a deleted reminder on an active event.
func (s *Service) RecoverReminder(ctx context.Context, actorID, reminderID int64, detail string) (*models.Reminder, error) {
	var r *models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		r, err = tx.cascade.RecoverReminder(ctx, actorID, reminderID, detail, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder recovered", "reminder_id", reminderID, "user_id", actorID)
	return r, nil
}

// ListDeletedReminders returns deleted reminders on events the acting user
// owns, optionally limited to one event, with a deletion time inside r.
func (s *Service) ListDeletedReminders(ctx context.Context, actorID, eventID int64, r TimeRange) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		reminders, err := tx.q.ListDeletedRemindersOwnedBy(ctx, actorID)
		if err != nil {
			return err
		}
		for _, rem := range reminders {
			if eventID != 0 && rem.EventID != eventID {
				continue
			}
			if inRange(rem.State, r) {
				out = append(out, rem)
			}
		}
		return nil
	})
	return out, err
}

// UpcomingReminders projects the fire times of visible reminders into
// [from, to], earliest first.
func (s *Service) UpcomingReminders(ctx context.Context, actorID int64, from, to time.Time) ([]ReminderOccurrence, error) {
	var reminders []models.Reminder
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		reminders, err = tx.q.ListRemindersVisibleTo(ctx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	engine := s.engine()
	var out []ReminderOccurrence
	for _, r := range reminders {
		for _, t := range engine.NextOccurrences(r, from.UTC(), to.UTC()) {
			out = append(out, ReminderOccurrence{Reminder: r, FireAt: t})
		}
	}
	slices.SortStableFunc(out, func(a, b ReminderOccurrence) int {
		return cmp.Compare(a.FireAt.UnixNano(), b.FireAt.UnixNano())
	})
	return out, nil
}
