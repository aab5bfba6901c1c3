// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/planner/models"
)

const goalColumns = `g.id, g.owner_id, g.title, g.description, g.kind, g.created_at, g.updated_at, g.deleted_at`

func scanGoal(row scanner) (*models.Goal, error) {
	var g models.Goal
	var deletedAt sql.NullTime
	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Description, &g.Kind, &g.CreatedAt, &g.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = utc(g.CreatedAt)
	g.UpdatedAt = utc(g.UpdatedAt)
	g.State = lifecycle(deletedAt)
	return &g, nil
}

func (q *Queries) listGoals(ctx context.Context, query string, args ...any) ([]models.Goal, error) {
	rows, err := q.s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// CreateGoal inserts g and sets its ID.
func (q *Queries) CreateGoal(ctx context.Context, g *models.Goal) error {
	err := q.s.QueryRow(ctx, `
		INSERT INTO goals (owner_id, title, description, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, g.OwnerID, g.Title, g.Description, g.Kind, g.CreatedAt.UTC(), g.UpdatedAt.UTC()).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GetGoal returns the goal with the given id, deleted or not.
func (q *Queries) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	g, err := scanGoal(q.s.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals g WHERE g.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("goal %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}
	return g, nil
}

// UpdateGoal writes title, description, kind and updated_at.
func (q *Queries) UpdateGoal(ctx context.Context, g *models.Goal) error {
	_, err := q.s.Exec(ctx, `
		UPDATE goals SET title = ?, description = ?, kind = ?, updated_at = ?
		WHERE id = ?
	`, g.Title, g.Description, g.Kind, g.UpdatedAt.UTC(), g.ID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// SoftDeleteGoal marks an active goal deleted.
func (q *Queries) SoftDeleteGoal(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// RestoreGoal clears deleted_at and refreshes updated_at.
func (q *Queries) RestoreGoal(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE goals SET deleted_at = NULL, updated_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to restore goal: %w", err)
	}
	return nil
}

// ListGoalsVisibleTo returns active goals the user owns or takes part in
// through one of their active events.
func (q *Queries) ListGoalsVisibleTo(ctx context.Context, userID int64) ([]models.Goal, error) {
	return q.listGoals(ctx, `
		SELECT `+goalColumns+` FROM goals g
		WHERE g.deleted_at IS NULL
		  AND (g.owner_id = ? OR EXISTS (
			SELECT 1 FROM events e
			JOIN event_participants p ON p.event_id = e.id
			WHERE e.goal_id = g.id AND e.deleted_at IS NULL AND p.user_id = ?
		  ))
		ORDER BY g.created_at DESC, g.id DESC
	`, userID, userID)
}

// ListDeletedGoalsOwnedBy returns the user's soft-deleted goals, most
// recently deleted first.
func (q *Queries) ListDeletedGoalsOwnedBy(ctx context.Context, userID int64) ([]models.Goal, error) {
	return q.listGoals(ctx, `
		SELECT `+goalColumns+` FROM goals g
		WHERE g.owner_id = ? AND g.deleted_at IS NOT NULL
		ORDER BY g.deleted_at DESC, g.id DESC
	`, userID)
}

// ListActiveGoalIDsOwnedBy returns ids of the user's active goals.
func (q *Queries) ListActiveGoalIDsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.s.Query(ctx, `SELECT id FROM goals WHERE owner_id = ? AND deleted_at IS NULL ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	return scanIDs(rows)
}
