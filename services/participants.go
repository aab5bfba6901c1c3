// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"

	"github.com/danielhkuo/planner/models"
)

// requireEventOwner loads an active event and checks the actor holds Owner.
func (u *unit) requireEventOwner(ctx context.Context, eventID, actorID int64) (*models.Event, error) {
	ev, err := u.activeEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	role, err := u.roles.RoleInEvent(ctx, ev, actorID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleOwner {
		return nil, models.Denied("only the owner manages participants of event %d", eventID)
	}
	return ev, nil
}

// parseGrantableRole accepts Collaborator and Reader. Owner moves only
// through a transfer.
func parseGrantableRole(s string) (models.Role, error) {
	role := models.ParseRole(s)
	switch role {
	case models.RoleCollaborator, models.RoleReader:
		return role, nil
	case models.RoleOwner:
		return models.RoleNone, models.Violation("event already has an owner; transfer ownership instead")
	}
	return models.RoleNone, models.Invalidf("unknown role %q", s)
}

// ListParticipants returns the participant rows of an event.
func (s *Service) ListParticipants(ctx context.Context, actorID, eventID int64) ([]models.Participant, error) {
	var out []models.Participant
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		ev, err := tx.activeEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if err := tx.requireEventRead(ctx, ev, actorID); err != nil {
			return err
		}
		out, err = tx.q.ListParticipants(ctx, eventID)
		return err
	})
	return out, err
}

// AddParticipant grants an active user a Collaborator or Reader role on the
// event. Requires Owner.
func (s *Service) AddParticipant(ctx context.Context, actorID, eventID, userID int64, roleName string) (*models.Participant, error) {
	role, err := parseGrantableRole(roleName)
	if err != nil {
		return nil, err
	}

	p := &models.Participant{EventID: eventID, UserID: userID, Role: role, CreatedAt: s.Now()}
	err = s.asUser(ctx, actorID, func(tx *unit) error {
		if _, err := tx.requireEventOwner(ctx, eventID, actorID); err != nil {
			return err
		}
		if _, err := tx.activeUser(ctx, userID); err != nil {
			return err
		}
		if _, ok, err := tx.q.ParticipantRole(ctx, eventID, userID); err != nil {
			return err
		} else if ok {
			return models.Violation("user %d already participates in event %d", userID, eventID)
		}
		return tx.q.AddParticipant(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant added", "event_id", eventID, "user_id", userID, "role", role)
	return p, nil
}

// ChangeRole switches a participant between Collaborator and Reader.
// Requires Owner.
func (s *Service) ChangeRole(ctx context.Context, actorID, eventID, userID int64, roleName string) (*models.Participant, error) {
	role, err := parseGrantableRole(roleName)
	if err != nil {
		return nil, err
	}

	var p *models.Participant
	err = s.asUser(ctx, actorID, func(tx *unit) error {
		if _, err := tx.requireEventOwner(ctx, eventID, actorID); err != nil {
			return err
		}
		var err error
		p, err = tx.q.GetParticipant(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if p.Role == models.RoleOwner {
			return models.Violation("the owner's role changes only through a transfer")
		}
		if err := tx.q.UpdateParticipantRole(ctx, eventID, userID, role); err != nil {
			return err
		}
		p.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveParticipant deletes a participant row. The Owner may remove anyone
// but themselves; other participants may remove only themselves.
func (s *Service) RemoveParticipant(ctx context.Context, actorID, eventID, userID int64) error {
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		if actorID == userID {
			if _, err := tx.activeEvent(ctx, eventID); err != nil {
				return err
			}
		} else if _, err := tx.requireEventOwner(ctx, eventID, actorID); err != nil {
			return err
		}

		p, err := tx.q.GetParticipant(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if p.Role == models.RoleOwner {
			return models.Violation("the owner cannot be removed without a transfer")
		}
		return tx.q.DeleteParticipant(ctx, eventID, userID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("participant removed", "event_id", eventID, "user_id", userID)
	return nil
}

// TransferOwnership hands the event's Owner row to another active user. The
// previous owner stays on as Collaborator. Requires Owner.
func (s *Service) TransferOwnership(ctx context.Context, actorID, eventID, newOwnerID int64) (*models.Event, error) {
	var ev *models.Event
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		ev, err = tx.requireEventOwner(ctx, eventID, actorID)
		if err != nil {
			return err
		}
		if newOwnerID == ev.OwnerID {
			return models.Invalidf("user %d already owns event %d", newOwnerID, eventID)
		}
		if _, err := tx.activeUser(ctx, newOwnerID); err != nil {
			return err
		}

		now := s.Now()

		// Demote first: the schema allows one Owner row per event.
		previous := ev.OwnerID
		if _, err := tx.q.GetParticipant(ctx, eventID, previous); err == nil {
			err = tx.q.UpdateParticipantRole(ctx, eventID, previous, models.RoleCollaborator)
			if err != nil {
				return err
			}
		} else if errors.Is(err, models.ErrNotFound) {
			err = tx.q.AddParticipant(ctx, &models.Participant{
				EventID: eventID, UserID: previous, Role: models.RoleCollaborator, CreatedAt: now,
			})
			if err != nil {
				return err
			}
		} else {
			return err
		}

		if _, ok, err := tx.q.ParticipantRole(ctx, eventID, newOwnerID); err != nil {
			return err
		} else if ok {
			err = tx.q.UpdateParticipantRole(ctx, eventID, newOwnerID, models.RoleOwner)
			if err != nil {
				return err
			}
		} else {
			err = tx.q.AddParticipant(ctx, &models.Participant{
				EventID: eventID, UserID: newOwnerID, Role: models.RoleOwner, CreatedAt: now,
			})
			if err != nil {
				return err
			}
		}

		ev.OwnerID = newOwnerID
		ev.UpdatedAt = now
		return tx.q.UpdateEvent(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event ownership transferred", "event_id", eventID, "from", actorID, "to", newOwnerID)
	return ev, nil
}
