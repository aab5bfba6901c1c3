// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/planner/cascade"
	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/permissions"
	"github.com/danielhkuo/planner/recurrence"
	"github.com/danielhkuo/planner/store"
)

// Service orchestrates every entity operation. Each call runs in its own
// transaction.
type Service struct {
	conn   *db.Conn
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func New(conn *db.Conn, opts ...Option) *Service {
	s := &Service{
		conn:   conn,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

func (s *Service) engine() *recurrence.Engine {
	return recurrence.New(s.Now)
}

// unit bundles the per-transaction collaborators.
type unit struct {
	s       db.Session
	q       *store.Queries
	roles   *permissions.Resolver
	cascade *cascade.Coordinator
}

func newUnit(sess db.Session) *unit {
	q := store.New(sess)
	return &unit{
		s:       sess,
		q:       q,
		roles:   permissions.NewResolver(q),
		cascade: cascade.New(sess),
	}
}

func (s *Service) inTx(ctx context.Context, fn func(u *unit) error) error {
	return s.conn.InTx(ctx, func(sess db.Session) error {
		return fn(newUnit(sess))
	})
}

// asUser is inTx for calls made on behalf of a user, who must be active.
func (s *Service) asUser(ctx context.Context, actorID int64, fn func(u *unit) error) error {
	return s.inTx(ctx, func(u *unit) error {
		actor, err := u.q.GetUser(ctx, actorID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && actor.State.Deleted()) {
			return models.Denied("user %d is not active", actorID)
		}
		if err != nil {
			return err
		}
		return fn(u)
	})
}

func (u *unit) activeGoal(ctx context.Context, id int64) (*models.Goal, error) {
	g, err := u.q.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.State.Deleted() {
		return nil, models.NotFoundf("goal %d is deleted", id)
	}
	return g, nil
}

func (u *unit) activeEvent(ctx context.Context, id int64) (*models.Event, error) {
	ev, err := u.q.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.State.Deleted() {
		return nil, models.NotFoundf("event %d is deleted", id)
	}
	return ev, nil
}

// activeReminder returns an active reminder and its active event.
func (u *unit) activeReminder(ctx context.Context, id int64) (*models.Reminder, *models.Event, error) {
	r, err := u.q.GetReminder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r.State.Deleted() {
		return nil, nil, models.NotFoundf("reminder %d is deleted", id)
	}
	ev, err := u.activeEvent(ctx, r.EventID)
	if err != nil {
		return nil, nil, err
	}
	return r, ev, nil
}

func (u *unit) activeUser(ctx context.Context, id int64) (*models.User, error) {
	usr, err := u.q.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if usr.State.Deleted() {
		return nil, models.NotFoundf("user %d is deleted", id)
	}
	return usr, nil
}

// readRole is the event role used for read access. Owners of the goal can
// read every event under it.
func (u *unit) readRole(ctx context.Context, ev *models.Event, actorID int64) (models.Role, error) {
	role, err := u.roles.RoleInEvent(ctx, ev, actorID)
	if err != nil || role != models.RoleNone {
		return role, err
	}
	g, err := u.q.GetGoal(ctx, ev.GoalID)
	if err != nil {
		return models.RoleNone, err
	}
	if g.OwnerID == actorID && !g.State.Deleted() {
		return models.RoleReader, nil
	}
	return models.RoleNone, nil
}

func (u *unit) requireEventRead(ctx context.Context, ev *models.Event, actorID int64) error {
	role, err := u.readRole(ctx, ev, actorID)
	if err != nil {
		return err
	}
	if !permissions.HasPermission(role, permissions.ActionRead) {
		return models.Denied("no access to event %d", ev.ID)
	}
	return nil
}

// TimeRange bounds a listing. Nil ends are open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls in the range, ends inclusive.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func inRange(l models.Lifecycle, r TimeRange) bool {
	at := l.At()
	return at != nil && r.Contains(*at)
}
