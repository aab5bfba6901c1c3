// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/permissions"
	"github.com/danielhkuo/planner/recurrence"
)

// CreateEvent adds an event under an active goal and records its Owner
// participant row. Requires create on the goal.
func (s *Service) CreateEvent(ctx context.Context, actorID int64, in EventInput) (*models.Event, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Start.Before(in.End) {
		return nil, models.Invalidf("start must be before end")
	}
	if in.Recurrence != nil {
		if err := in.Recurrence.Validate(); err != nil {
			return nil, err
		}
	}
	ownerID := in.OwnerID
	if ownerID == 0 {
		ownerID = actorID
	}

	now := s.Now()
	ev := &models.Event{
		GoalID:      in.GoalID,
		OwnerID:     ownerID,
		Title:       title,
		Description: in.Description,
		Start:       in.Start.UTC(),
		End:         in.End.UTC(),
		Location:    in.Location,
		Recurrence:  in.Recurrence,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.asUser(ctx, actorID, func(tx *unit) error {
		g, err := tx.activeGoal(ctx, in.GoalID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInGoal(ctx, g, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionCreate) {
			return models.Denied("cannot create events in goal %d", g.ID)
		}
		if _, err := tx.activeUser(ctx, ownerID); err != nil {
			return err
		}

		if err := tx.q.CreateEvent(ctx, ev); err != nil {
			return err
		}
		return tx.q.AddParticipant(ctx, &models.Participant{
			EventID:   ev.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event created", "event_id", ev.ID, "goal_id", ev.GoalID, "owner_id", ownerID)
	return ev, nil
}

// GetEvent returns an active event the acting user can read.
func (s *Service) GetEvent(ctx context.Context, actorID, eventID int64) (*models.Event, error) {
	var ev *models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		ev, err = tx.activeEvent(ctx, eventID)
		if err != nil {
			return err
		}
		return tx.requireEventRead(ctx, ev, actorID)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListEvents returns active events visible to the acting user, or the
// active events of one goal when goalID is set.
func (s *Service) ListEvents(ctx context.Context, actorID, goalID int64) ([]models.Event, error) {
	var out []models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		if goalID == 0 {
			var err error
			out, err = tx.q.ListEventsVisibleTo(ctx, actorID)
			return err
		}

		g, err := tx.activeGoal(ctx, goalID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInGoal(ctx, g, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionRead) {
			return models.Denied("no access to goal %d", goalID)
		}
		events, err := tx.q.ListEventsByGoal(ctx, goalID)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if !ev.State.Deleted() {
				out = append(out, ev)
			}
		}
		return nil
	})
	return out, err
}

// UpdateEvent applies a partial update. Requires update on the event. The
// merged start and end must keep start before end; otherwise nothing is
// written.
func (s *Service) UpdateEvent(ctx context.Context, actorID, eventID int64, patch EventPatch) (*models.Event, error) {
	var ev *models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		ev, err = tx.activeEvent(ctx, eventID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInEvent(ctx, ev, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionUpdate) {
			return models.Denied("cannot update event %d", eventID)
		}

		start, end := ev.Start, ev.End
		if patch.Start != nil {
			start = patch.Start.UTC()
		}
		if patch.End != nil {
			end = patch.End.UTC()
		}
		if !start.Before(end) {
			return models.Invalidf("start must be before end")
		}

		if patch.Title != nil {
			title, err := requireText("title", *patch.Title)
			if err != nil {
				return err
			}
			ev.Title = title
		}
		if patch.Description != nil {
			ev.Description = *patch.Description
		}
		if patch.Location != nil {
			ev.Location = *patch.Location
		}
		switch {
		case patch.ClearRecurrence:
			ev.Recurrence = nil
		case patch.Recurrence != nil:
			if err := patch.Recurrence.Validate(); err != nil {
				return err
			}
			ev.Recurrence = patch.Recurrence
		}

		ev.Start, ev.End = start, end
		ev.UpdatedAt = s.Now()
		return tx.q.UpdateEvent(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// DeleteEvent soft-deletes an event with its reminders and notifies its
// members. Requires Owner.
func (s *Service) DeleteEvent(ctx context.Context, actorID, eventID int64) (*models.Event, error) {
	var ev *models.Event
	var notes []models.Notification
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		ev, notes, err = tx.cascade.DeleteEvent(ctx, actorID, eventID, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event deleted", "event_id", eventID, "user_id", actorID, "notified", len(notes))
	return ev, nil
}

// RecoverEvent restores a deleted event under an active goal.
func (s *Service) RecoverEvent(ctx context.Context, actorID, eventID int64, detail string) (*models.Event, error) {
	var ev *models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		ev, err = tx.cascade.RecoverEvent(ctx, actorID, eventID, detail, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event recovered", "event_id", eventID, "user_id", actorID)
	return ev, nil
}

// ListDeletedEvents returns deleted events the acting user owns, directly
// or through the goal, with a deletion time inside r.
func (s *Service) ListDeletedEvents(ctx context.Context, actorID int64, r TimeRange) ([]models.Event, error) {
	var out []models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		events, err := tx.q.ListDeletedEventsOwnedBy(ctx, actorID)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if inRange(ev.State, r) {
				out = append(out, ev)
			}
		}
		return nil
	})
	return out, err
}

// UpcomingEvents projects the visible events into [from, to].
func (s *Service) UpcomingEvents(ctx context.Context, actorID int64, from, to time.Time) ([]recurrence.Occurrence, error) {
	var events []models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		events, err = tx.q.ListEventsVisibleTo(ctx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.engine().ProjectOccurrences(events, from.UTC(), to.UTC()), nil
}
