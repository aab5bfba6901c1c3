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

const eventColumns = `e.id, e.goal_id, e.owner_id, e.title, e.description, e.starts_at, e.ends_at, e.location,
	e.repeat_frequency, e.repeat_interval, e.repeat_weekdays, e.created_at, e.updated_at, e.deleted_at`

func scanEvent(row scanner) (*models.Event, error) {
	var e models.Event
	var rc recurrenceColumns
	var deletedAt sql.NullTime
	err := row.Scan(&e.ID, &e.GoalID, &e.OwnerID, &e.Title, &e.Description, &e.Start, &e.End, &e.Location,
		&rc.frequency, &rc.interval, &rc.weekdays, &e.CreatedAt, &e.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	e.Start = utc(e.Start)
	e.End = utc(e.End)
	e.CreatedAt = utc(e.CreatedAt)
	e.UpdatedAt = utc(e.UpdatedAt)
	e.Recurrence = rc.recurrence()
	e.State = lifecycle(deletedAt)
	return &e, nil
}

func (q *Queries) listEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := q.s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// CreateEvent inserts e and sets its ID.
func (q *Queries) CreateEvent(ctx context.Context, e *models.Event) error {
	freq, interval, weekdays := recurrenceArgs(e.Recurrence)
	err := q.s.QueryRow(ctx, `
		INSERT INTO events (goal_id, owner_id, title, description, starts_at, ends_at, location,
			repeat_frequency, repeat_interval, repeat_weekdays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, e.GoalID, e.OwnerID, e.Title, e.Description, e.Start.UTC(), e.End.UTC(), e.Location,
		freq, interval, weekdays, e.CreatedAt.UTC(), e.UpdatedAt.UTC()).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent returns the event with the given id, deleted or not.
func (q *Queries) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	e, err := scanEvent(q.s.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("event %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return e, nil
}

// UpdateEvent writes every mutable column of e.
func (q *Queries) UpdateEvent(ctx context.Context, e *models.Event) error {
	freq, interval, weekdays := recurrenceArgs(e.Recurrence)
	_, err := q.s.Exec(ctx, `
		UPDATE events SET owner_id = ?, title = ?, description = ?, starts_at = ?, ends_at = ?, location = ?,
			repeat_frequency = ?, repeat_interval = ?, repeat_weekdays = ?, updated_at = ?
		WHERE id = ?
	`, e.OwnerID, e.Title, e.Description, e.Start.UTC(), e.End.UTC(), e.Location,
		freq, interval, weekdays, e.UpdatedAt.UTC(), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// SoftDeleteEvent marks an active event deleted.
func (q *Queries) SoftDeleteEvent(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE events SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// SoftDeleteEventsByGoal marks every active event of the goal deleted.
func (q *Queries) SoftDeleteEventsByGoal(ctx context.Context, goalID int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE events SET deleted_at = ? WHERE goal_id = ? AND deleted_at IS NULL`, at.UTC(), goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal events: %w", err)
	}
	return nil
}

// RestoreEvent clears deleted_at and refreshes updated_at.
func (q *Queries) RestoreEvent(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE events SET deleted_at = NULL, updated_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to restore event: %w", err)
	}
	return nil
}

// ListEventsByGoal returns every event of the goal, deleted included.
func (q *Queries) ListEventsByGoal(ctx context.Context, goalID int64) ([]models.Event, error) {
	return q.listEvents(ctx, `
		SELECT `+eventColumns+` FROM events e
		WHERE e.goal_id = ?
		ORDER BY e.starts_at, e.id
	`, goalID)
}

// ListEventsVisibleTo returns active events under active goals that the
// user owns, takes part in, or whose goal the user owns.
func (q *Queries) ListEventsVisibleTo(ctx context.Context, userID int64) ([]models.Event, error) {
	return q.listEvents(ctx, `
		SELECT `+eventColumns+` FROM events e
		JOIN goals g ON g.id = e.goal_id
		WHERE e.deleted_at IS NULL AND g.deleted_at IS NULL
		  AND (e.owner_id = ? OR g.owner_id = ? OR EXISTS (
			SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = ?
		  ))
		ORDER BY e.starts_at, e.id
	`, userID, userID, userID)
}

// ListDeletedEventsOwnedBy returns soft-deleted events the user owns
// directly or through the goal.
func (q *Queries) ListDeletedEventsOwnedBy(ctx context.Context, userID int64) ([]models.Event, error) {
	return q.listEvents(ctx, `
		SELECT `+eventColumns+` FROM events e
		JOIN goals g ON g.id = e.goal_id
		WHERE e.deleted_at IS NOT NULL AND (e.owner_id = ? OR g.owner_id = ?)
		ORDER BY e.deleted_at DESC, e.id DESC
	`, userID, userID)
}

// ListActiveEventIDsOwnedBy returns ids of active events the user owns.
func (q *Queries) ListActiveEventIDsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.s.Query(ctx, `SELECT id FROM events WHERE owner_id = ? AND deleted_at IS NULL ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return scanIDs(rows)
}
