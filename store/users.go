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

const userColumns = `id, email, name, timezone, created_at, deleted_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var deletedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Timezone, &u.CreatedAt, &deletedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = utc(u.CreatedAt)
	u.State = lifecycle(deletedAt)
	return &u, nil
}

// CreateUser inserts u and sets its ID.
func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	err := q.s.QueryRow(ctx, `
		INSERT INTO users (email, name, timezone, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, u.Email, u.Name, u.Timezone, u.CreatedAt.UTC()).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id, deleted or not.
func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(q.s.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("user %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetActiveUserByEmail looks up a non-deleted user by email.
func (q *Queries) GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(q.s.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = ? AND deleted_at IS NULL
	`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("user %q", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// UpdateUser writes the mutable profile fields.
func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := q.s.Exec(ctx, `UPDATE users SET name = ?, timezone = ? WHERE id = ?`, u.Name, u.Timezone, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SoftDeleteUser marks the user deleted at the given time.
func (q *Queries) SoftDeleteUser(ctx context.Context, id int64, at time.Time) error {
	_, err := q.s.Exec(ctx, `UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UserTimezone returns the stored zone name of an active user.
func (q *Queries) UserTimezone(ctx context.Context, id int64) (string, error) {
	var tz string
	err := q.s.QueryRow(ctx, `SELECT timezone FROM users WHERE id = ? AND deleted_at IS NULL`, id).Scan(&tz)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.NotFoundf("user %d", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user timezone: %w", err)
	}
	return tz, nil
}
