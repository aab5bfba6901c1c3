// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
)

// Record appends one recovery entry. userID may be nil.
func Record(ctx context.Context, s db.Session, kind models.EntityKind, entityID int64, userID *int64, detail string, at time.Time) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		EntityKind: kind,
		EntityID:   entityID,
		UserID:     userID,
		Detail:     detail,
		RecordedAt: at.UTC(),
	}

	var uid any
	if userID != nil {
		uid = *userID
	}

	err := s.QueryRow(ctx, `
		INSERT INTO recovery_log (entity_kind, entity_id, user_id, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, string(kind), entityID, uid, detail, entry.RecordedAt).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return entry, nil
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Kind     models.EntityKind
	EntityID int64
	UserID   int64
}

// List returns matching entries, newest first.
func List(ctx context.Context, s db.Session, f Filter) ([]models.AuditEntry, error) {
	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "entity_kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.EntityID != 0 {
		where = append(where, "entity_id = ?")
		args = append(args, f.EntityID)
	}
	if f.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}

	query := `SELECT id, entity_kind, entity_id, user_id, detail, recorded_at FROM recovery_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY recorded_at DESC, id DESC`

	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var kind string
		var uid sql.NullInt64
		if err := rows.Scan(&e.ID, &kind, &e.EntityID, &uid, &e.Detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.EntityKind = models.EntityKind(kind)
		e.RecordedAt = e.RecordedAt.UTC()
		if uid.Valid {
			id := uid.Int64
			e.UserID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
