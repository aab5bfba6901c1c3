// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"strings"

	"github.com/danielhkuo/planner/audit"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/notify"
)

// ListNotifications returns the acting user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, actorID int64, onlyUnread bool) ([]models.Notification, error) {
	var out []models.Notification
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		out, err = notify.ListPending(ctx, tx.s, actorID, onlyUnread)
		return err
	})
	return out, err
}

// MarkNotificationRead marks one of the acting user's notifications read.
// Marking it again keeps the first read time.
func (s *Service) MarkNotificationRead(ctx context.Context, actorID, id int64) (*models.Notification, error) {
	var n *models.Notification
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		n, err = notify.Get(ctx, tx.s, id)
		if err != nil {
			return err
		}
		if n.UserID != actorID {
			return models.Denied("notification %d belongs to another user", id)
		}
		ok, err := notify.MarkRead(ctx, tx.s, id, s.Now())
		if err != nil {
			return err
		}
		if !ok {
			return models.NotFoundf("notification %d", id)
		}
		n, err = notify.Get(ctx, tx.s, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListAudit returns recovery entries recorded by the acting user, newest
// first, optionally limited to one entity kind.
func (s *Service) ListAudit(ctx context.Context, actorID int64, kind string) ([]models.AuditEntry, error) {
	f := audit.Filter{UserID: actorID}
	if kind = strings.TrimSpace(kind); kind != "" {
		k, ok := models.ParseEntityKind(kind)
		if !ok {
			return nil, models.Invalidf("unknown entity kind %q", kind)
		}
		f.Kind = k
	}

	var out []models.AuditEntry
	err := s.asUser(ctx, actorID, func(tx *unit) error {
		var err error
		out, err = audit.List(ctx, tx.s, f)
		return err
	})
	return out, err
}
