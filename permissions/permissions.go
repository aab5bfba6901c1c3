// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package permissions

import (
	"context"

	"github.com/danielhkuo/planner/models"
)

// Action is a capability checked against a role.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRecover Action = "recover"
)

var capabilities = map[models.Role]map[Action]bool{
	models.RoleOwner: {
		ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionRecover: true,
	},
	models.RoleCollaborator: {
		ActionCreate: true, ActionRead: true, ActionUpdate: true,
	},
	models.RoleReader: {
		ActionRead: true,
	},
}

// HasPermission reports whether role grants action. RoleNone grants nothing.
func HasPermission(role models.Role, action Action) bool {
	return capabilities[role][action]
}

// Source provides the participant rows the resolver reads.
type Source interface {
	ParticipantRole(ctx context.Context, eventID, userID int64) (string, bool, error)
	GoalParticipantRoles(ctx context.Context, goalID, userID int64) ([]string, error)
}

// Resolver computes effective roles.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// RoleInEvent returns the user's role on an active event. Deleted events
// yield RoleNone.
func (r *Resolver) RoleInEvent(ctx context.Context, ev *models.Event, userID int64) (models.Role, error) {
	if ev == nil || ev.State.Deleted() {
		return models.RoleNone, nil
	}
	return r.RoleInEventIncludingDeleted(ctx, ev, userID)
}

// RoleInEventIncludingDeleted resolves the role without the deleted guard.
// Only event recovery uses it.
func (r *Resolver) RoleInEventIncludingDeleted(ctx context.Context, ev *models.Event, userID int64) (models.Role, error) {
	if ev == nil {
		return models.RoleNone, nil
	}
	if ev.OwnerID == userID {
		return models.RoleOwner, nil
	}

	stored, ok, err := r.src.ParticipantRole(ctx, ev.ID, userID)
	if err != nil {
		return models.RoleNone, err
	}
	if !ok {
		return models.RoleNone, nil
	}
	return models.ParseRole(stored), nil
}

// RoleInGoal returns the goal owner's Owner role, or else the strongest
// participant role across the goal's events where Collaborator outranks
// Owner and Owner outranks Reader.
func (r *Resolver) RoleInGoal(ctx context.Context, g *models.Goal, userID int64) (models.Role, error) {
	if g == nil {
		return models.RoleNone, nil
	}
	if g.OwnerID == userID {
		return models.RoleOwner, nil
	}

	stored, err := r.src.GoalParticipantRoles(ctx, g.ID, userID)
	if err != nil {
		return models.RoleNone, err
	}

	held := make(map[models.Role]bool, len(stored))
	for _, s := range stored {
		held[models.ParseRole(s)] = true
	}
	for _, role := range []models.Role{models.RoleCollaborator, models.RoleOwner, models.RoleReader} {
		if held[role] {
			return role, nil
		}
	}
	return models.RoleNone, nil
}
