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

const reminderColumns = `r.id, r.event_id, r.fire_at, r.channel, r.message,
	r.repeat_frequency, r.repeat_interval, r.repeat_weekdays, r.sent, r.created_at, r.deleted_at`

func scanReminder(row scanner) (*models.Reminder, error) {
	var r models.Reminder
	var rc recurrenceColumns
	var deletedAt sql.NullTime
	err := row.Scan(&r.ID, &r.EventID, &r.FireAt, &r.Channel, &r.Message,
		&rc.frequency, &rc.interval, &rc.weekdays, &r.Sent, &r.CreatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	r.FireAt = utc(r.FireAt)
	r.CreatedAt = utc(r.CreatedAt)
	r.Recurrence = rc.recurrence()
	r.State = lifecycle(deletedAt)
	return &r, nil
}

func (q *Queries) listReminders(ctx context.Context, query string, args ...any) ([]models.Reminder, error) {
	rows, err := q.s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// CreateReminder inserts r and sets its ID.
func (q *Queries) CreateReminder(ctx context.Context, r *models.Reminder) error {
	freq, interval, weekdays := recurrenceArgs(r.Recurrence)
	err := q.s.QueryRow(ctx, `
		INSERT INTO reminders (event_id, fire_at, channel, message,
			repeat_frequency, repeat_interval, repeat_weekdays, sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, r.EventID, r.FireAt.UTC(), r.Channel, r.Message,
		freq, interval, weekdays, r.Sent, r.CreatedAt.UTC()).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// GetReminder returns the reminder with the given id, deleted or not.
func (q *Queries) GetReminder(ctx context.Context, id int64) (*models.Reminder, error) {
	r, err := scanReminder(q.s.QueryRow(ctx, `SELECT `+reminderColumns+` FROM reminders r WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("reminder %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder: %w", err)
	}
	return r, nil
}

// UpdateReminder writes every mutable column of r.
func (q *Queries) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	freq, interval, weekdays := recurrenceArgs(r.Recurrence)
	_, err := q.s.Exec(ctx, `
		UPDATE reminders SET fire_at = ?, channel = ?, message = ?,
			repeat_frequency = ?, repeat_interval = ?, repeat_weekdays = ?, sent = ?
		WHERE id = ?
	`, r.FireAt.UTC(), r.Channel, r.Message, freq, interval, weekdays, r.Sent, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

// SoftDeleteReminder marks an active reminder deleted.
func (q *Queries) SoftDeleteReminder(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE reminders SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// SoftDeleteRemindersByEvent marks the event's active reminders deleted.
func (q *Queries) SoftDeleteRemindersByEvent(ctx context.Context, eventID int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE reminders SET deleted_at = ? WHERE event_id = ? AND deleted_at IS NULL`, at.UTC(), eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event reminders: %w", err)
	}
	return nil
}

// SoftDeleteRemindersByGoal marks active reminders of the goal's active
// events deleted. Run it before the events themselves are marked.
func (q *Queries) SoftDeleteRemindersByGoal(ctx context.Context, goalID int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `
		UPDATE reminders SET deleted_at = ?
		WHERE deleted_at IS NULL
		  AND event_id IN (SELECT id FROM events WHERE goal_id = ? AND deleted_at IS NULL)
	`, at.UTC(), goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal reminders: %w", err)
	}
	return nil
}

// RestoreReminder clears deleted_at.
func (q *Queries) RestoreReminder(ctx context.Context, id int64) error {
	_, err := q.s.Exec(ctx, `UPDATE reminders SET deleted_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to restore reminder: %w", err)
	}
	return nil
}

// ListRemindersByEvent returns the event's reminders ordered by fire time.
func (q *Queries) ListRemindersByEvent(ctx context.Context, eventID int64, includeDeleted bool) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders r WHERE r.event_id = ?`
	if !includeDeleted {
		query += ` AND r.deleted_at IS NULL`
	}
	return q.listReminders(ctx, query+` ORDER BY r.fire_at, r.id`, eventID)
}

// ListRemindersVisibleTo returns active reminders of the events returned by
// ListEventsVisibleTo.
func (q *Queries) ListRemindersVisibleTo(ctx context.Context, userID int64) ([]models.Reminder, error) {
	return q.listReminders(ctx, `
		SELECT `+reminderColumns+` FROM reminders r
		JOIN events e ON e.id = r.event_id
		JOIN goals g ON g.id = e.goal_id
		WHERE r.deleted_at IS NULL AND e.deleted_at IS NULL AND g.deleted_at IS NULL
		  AND (e.owner_id = ? OR g.owner_id = ? OR EXISTS (
			SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = ?
		  ))
		ORDER BY r.fire_at, r.id
	`, userID, userID, userID)
}

// ListDeletedRemindersOwnedBy returns soft-deleted reminders on events the
// user owns directly or through the goal.
func (q *Queries) ListDeletedRemindersOwnedBy(ctx context.Context, userID int64) ([]models.Reminder, error) {
	return q.listReminders(ctx, `
		SELECT `+reminderColumns+` FROM reminders r
		JOIN events e ON e.id = r.event_id
		JOIN goals g ON g.id = e.goal_id
		WHERE r.deleted_at IS NOT NULL AND (e.owner_id = ? OR g.owner_id = ?)
		ORDER BY r.deleted_at DESC, r.id DESC
	`, userID, userID)
}
