// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/timezone"
)

// RegisterUser creates an account. Emails are unique among active users.
func (s *Service) RegisterUser(ctx context.Context, email, name, tz string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.Invalidf("a valid email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = "UTC"
	}
	if _, ok := timezone.Load(tz); !ok {
		return nil, models.Invalidf("unknown timezone %q", tz)
	}

	u := &models.User{Email: email, Name: name, Timezone: tz, CreatedAt: s.Now()}
	err := s.inTx(ctx, func(tx *unit) error {
		_, err := tx.q.GetActiveUserByEmail(ctx, email)
		if err == nil {
			return models.Violation("email %s is already registered", email)
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if err := tx.q.CreateUser(ctx, u); err != nil {
			if db.IsUniqueViolation(err) {
				return models.Violation("email %s is already registered", email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// GetUser returns the acting user's profile.
func (s *Service) GetUser(ctx context.Context, actorID int64) (*models.User, error) {
	var u *models.User
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		u, err = tx.activeUser(ctx, actorID)
		return err
	})
	return u, err
}

// UpdateUser changes the acting user's name or timezone.
func (s *Service) UpdateUser(ctx context.Context, actorID int64, patch UserPatch) (*models.User, error) {
	var u *models.User
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		u, err = tx.activeUser(ctx, actorID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name, err := requireText("name", *patch.Name)
			if err != nil {
				return err
			}
			u.Name = name
		}
		if patch.Timezone != nil {
			tz := strings.TrimSpace(*patch.Timezone)
			if _, ok := timezone.Load(tz); !ok {
				return models.Invalidf("unknown timezone %q", tz)
			}
			u.Timezone = tz
		}
		return tx.q.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser soft-deletes the acting user and everything they own.
func (s *Service) DeleteUser(ctx context.Context, actorID int64) error {
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		return tx.cascade.DeleteUser(ctx, actorID, actorID, s.Now())
	})
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", actorID)
	return nil
}

// UserTimezone returns the stored zone name of an active user. It lets the
// service back a timezone.Normalizer.
func (s *Service) UserTimezone(ctx context.Context, userID int64) (string, error) {
	var tz string
	err := s.inTx(ctx, func(tx *unit) error {
		var err error
		tz, err = tx.q.UserTimezone(ctx, userID)
		return err
	})
	return tz, err
}
