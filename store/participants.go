// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/planner/models"
)

func scanParticipant(row scanner) (*models.Participant, error) {
	var p models.Participant
	var role string
	if err := row.Scan(&p.ID, &p.EventID, &p.UserID, &role, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = models.ParseRole(role)
	p.CreatedAt = utc(p.CreatedAt)
	return &p, nil
}

// AddParticipant inserts p and sets its ID.
func (q *Queries) AddParticipant(ctx context.Context, p *models.Participant) error {
	err := q.s.QueryRow(ctx, `
		INSERT INTO event_participants (event_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, p.EventID, p.UserID, string(p.Role), p.CreatedAt.UTC()).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// GetParticipant returns the (event, user) row.
func (q *Queries) GetParticipant(ctx context.Context, eventID, userID int64) (*models.Participant, error) {
	p, err := scanParticipant(q.s.QueryRow(ctx, `
		SELECT id, event_id, user_id, role, created_at
		FROM event_participants
		WHERE event_id = ? AND user_id = ?
	`, eventID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("participant %d on event %d", userID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns the event's rows in insertion order.
func (q *Queries) ListParticipants(ctx context.Context, eventID int64) ([]models.Participant, error) {
	rows, err := q.s.Query(ctx, `
		SELECT id, event_id, user_id, role, created_at
		FROM event_participants
		WHERE event_id = ?
		ORDER BY id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateParticipantRole sets the role of the (event, user) row.
func (q *Queries) UpdateParticipantRole(ctx context.Context, eventID, userID int64, role models.Role) error {
	_, err := q.s.Exec(ctx, `
		UPDATE event_participants SET role = ? WHERE event_id = ? AND user_id = ?
	`, string(role), eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

// DeleteParticipant removes the (event, user) row.
func (q *Queries) DeleteParticipant(ctx context.Context, eventID, userID int64) error {
	_, err := q.s.Exec(ctx, `DELETE FROM event_participants WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

// DeleteParticipantsByUser removes every row referencing the user.
func (q *Queries) DeleteParticipantsByUser(ctx context.Context, userID int64) error {
	_, err := q.s.Exec(ctx, `DELETE FROM event_participants WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	return nil
}

// ParticipantRole returns the stored role string of the (event, user) row
// and whether the row exists.
func (q *Queries) ParticipantRole(ctx context.Context, eventID, userID int64) (string, bool, error) {
	var role string
	err := q.s.QueryRow(ctx, `
		SELECT role FROM event_participants WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query participant role: %w", err)
	}
	return role, true, nil
}

// GoalParticipantRoles returns the user's stored role strings across every
// event of the goal.
func (q *Queries) GoalParticipantRoles(ctx context.Context, goalID, userID int64) ([]string, error) {
	rows, err := q.s.Query(ctx, `
		SELECT p.role FROM event_participants p
		JOIN events e ON e.id = p.event_id
		WHERE e.goal_id = ? AND p.user_id = ?
	`, goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CountCollaboratorsInGoal counts Collaborator rows on any of the goal's
// events, deleted ones included, matching what GoalParticipantRoles sees.
func (q *Queries) CountCollaboratorsInGoal(ctx context.Context, goalID int64) (int, error) {
	var n int
	err := q.s.QueryRow(ctx, `
		SELECT COUNT(*) FROM event_participants p
		JOIN events e ON e.id = p.event_id
		WHERE e.goal_id = ? AND p.role = ?
	`, goalID, string(models.RoleCollaborator)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count collaborators: %w", err)
	}
	return n, nil
}

// ParticipantUserIDs returns the user ids of every row on the event.
func (q *Queries) ParticipantUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	rows, err := q.s.Query(ctx, `SELECT user_id FROM event_participants WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	return scanIDs(rows)
}
