// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
)

// RegisterEventDeleted creates one EventDeleted notification per distinct
// recipient, all stamped at the same time and unread.
func RegisterEventDeleted(ctx context.Context, s db.Session, eventID int64, recipientIDs []int64, message string, at time.Time) ([]models.Notification, error) {
	at = at.UTC()
	seen := make(map[int64]bool, len(recipientIDs))
	var out []models.Notification

	for _, userID := range recipientIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		n := models.Notification{
			UserID:      userID,
			Kind:        models.NotificationEventDeleted,
			ReferenceID: eventID,
			Message:     message,
			CreatedAt:   at,
		}
		err := s.QueryRow(ctx, `
			INSERT INTO system_notifications (user_id, kind, reference_id, message, created_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`, n.UserID, n.Kind, n.ReferenceID, n.Message, n.CreatedAt).Scan(&n.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

const notificationColumns = `id, user_id, kind, reference_id, message, created_at, read_at`

func scan(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	var readAt sql.NullTime
	if err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.ReferenceID, &n.Message, &n.CreatedAt, &readAt); err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	if readAt.Valid {
		t := readAt.Time.UTC()
		n.ReadAt = &t
	}
	return &n, nil
}

// Get returns one notification.
func Get(ctx context.Context, s db.Session, id int64) (*models.Notification, error) {
	n, err := scan(s.QueryRow(ctx, `SELECT `+notificationColumns+` FROM system_notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("notification %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query notification: %w", err)
	}
	return n, nil
}

// ListPending returns the user's notifications newest first, only unread
// ones when onlyUnread is set.
func ListPending(ctx context.Context, s db.Session, userID int64, onlyUnread bool) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM system_notifications WHERE user_id = ?`
	if onlyUnread {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// MarkRead stamps read_at once. It returns true when the notification is
// read afterwards and false when it does not exist.
func MarkRead(ctx context.Context, s db.Session, id int64, at time.Time) (bool, error) {
	if _, err := Get(ctx, s, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	_, err := s.Exec(ctx, `
		UPDATE system_notifications SET read_at = ?
		WHERE id = ? AND read_at IS NULL
	`, at.UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return true, nil
}
