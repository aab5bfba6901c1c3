// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"strings"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/permissions"
)

// CreateGoal creates a goal owned by the acting user. Kind defaults to
// Individual.
func (s *Service) CreateGoal(ctx context.Context, actorID int64, in GoalInput) (*models.Goal, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		kind = models.GoalIndividual
	}
	if !validGoalKind(kind) {
		return nil, models.Invalidf("unknown goal kind %q", kind)
	}

	now := s.Now()
	g := &models.Goal{
		OwnerID:     actorID,
		Title:       title,
		Description: in.Description,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.asUser(ctx, actorID, func(tx *unit) error {
		return tx.q.CreateGoal(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goal created", "goal_id", g.ID, "owner_id", actorID)
	return g, nil
}

// GetGoal returns an active goal the acting user can read.
func (s *Service) GetGoal(ctx context.Context, actorID, goalID int64) (*models.Goal, error) {
	var g *models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		g, err = tx.activeGoal(ctx, goalID)
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
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGoals returns active goals the acting user owns or takes part in.
func (s *Service) ListGoals(ctx context.Context, actorID int64) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		goals, err = tx.q.ListGoalsVisibleTo(ctx, actorID)
		return err
	})
	return goals, err
}

// UpdateGoal applies a partial update. Requires update on the goal.
func (s *Service) UpdateGoal(ctx context.Context, actorID, goalID int64, patch GoalPatch) (*models.Goal, error) {
	var g *models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		g, err = tx.activeGoal(ctx, goalID)
		if err != nil {
			return err
		}
		role, err := tx.roles.RoleInGoal(ctx, g, actorID)
		if err != nil {
			return err
		}
		if !permissions.HasPermission(role, permissions.ActionUpdate) {
			return models.Denied("cannot update goal %d", goalID)
		}

		if patch.Title != nil {
			title, err := requireText("title", *patch.Title)
			if err != nil {
				return err
			}
			g.Title = title
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.Kind != nil {
			kind := strings.TrimSpace(*patch.Kind)
			if !validGoalKind(kind) {
				return models.Invalidf("unknown goal kind %q", kind)
			}
			g.Kind = kind
		}
		g.UpdatedAt = s.Now()
		return tx.q.UpdateGoal(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGoal soft-deletes a goal with its events and reminders.
func (s *Service) DeleteGoal(ctx context.Context, actorID, goalID int64) (*models.Goal, error) {
	var g *models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		g, err = tx.cascade.DeleteGoal(ctx, actorID, goalID, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("goal deleted", "goal_id", goalID, "user_id", actorID)
	return g, nil
}

// RecoverGoal restores a deleted goal. Its events stay deleted.
func (s *Service) RecoverGoal(ctx context.Context, actorID, goalID int64, detail string) (*models.Goal, error) {
	var g *models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		g, err = tx.cascade.RecoverGoal(ctx, actorID, goalID, detail, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("goal recovered", "goal_id", goalID, "user_id", actorID)
	return g, nil
}

// ListDeletedGoals returns the acting user's deleted goals with a deletion
// time inside r.
func (s *Service) ListDeletedGoals(ctx context.Context, actorID int64, r TimeRange) ([]models.Goal, error) {
	var out []models.Goal
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		goals, err := tx.q.ListDeletedGoalsOwnedBy(ctx, actorID)
		if err != nil {
			return err
		}
		for _, g := range goals {
			if inRange(g.State, r) {
				out = append(out, g)
			}
		}
		return nil
	})
	return out, err
}
