// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/testutil"
)

type fixture struct {
	svc   *Service
	clock *testutil.Clock
	ctx   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	clock := testutil.FixedClock()
	return &fixture{
		svc:   New(conn, WithClock(clock.Now)),
		clock: clock,
		ctx:   context.Background(),
	}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.svc.RegisterUser(f.ctx, email, "", "UTC")
	if err != nil {
		t.Fatalf("RegisterUser(%s) failed: %v", email, err)
	}
	return u
}

func (f *fixture) goal(t *testing.T, ownerID int64, kind string) *models.Goal {
	t.Helper()
	g, err := f.svc.CreateGoal(f.ctx, ownerID, GoalInput{Title: "Get fit", Kind: kind})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	return g
}

func (f *fixture) event(t *testing.T, actorID, goalID int64) *models.Event {
	t.Helper()
	start := testutil.BaseTime.Add(48 * time.Hour)
	ev, err := f.svc.CreateEvent(f.ctx, actorID, EventInput{
		GoalID: goalID,
		Title:  "Run",
		Start:  start,
		End:    start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return ev
}

func ptr[T any](v T) *T {
	return &v
}

func TestRegisterUser(t *testing.T) {
	f := setup(t)

	u := f.user(t, "Alice@Example.com")
	if u.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", u.Email)
	}
	if u.Name != "alice" {
		t.Errorf("Expected name from email, got %s", u.Name)
	}

	if _, err := f.svc.RegisterUser(f.ctx, "alice@example.com", "Again", ""); !models.IsRuleViolation(err) {
		t.Errorf("Expected rule violation for duplicate email, got %v", err)
	}
	if _, err := f.svc.RegisterUser(f.ctx, "bob@example.com", "Bob", "Mars/Olympus"); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for bad timezone, got %v", err)
	}
	if _, err := f.svc.RegisterUser(f.ctx, "not-an-email", "X", ""); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for bad email, got %v", err)
	}

	// A deleted account frees its email and loses access
	if err := f.svc.DeleteUser(f.ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := f.svc.GetUser(f.ctx, u.ID); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for deleted user, got %v", err)
	}
	f.user(t, "alice@example.com")
}

func TestUpdateUser(t *testing.T) {
	f := setup(t)
	u := f.user(t, "tz@example.com")

	got, err := f.svc.UpdateUser(f.ctx, u.ID, UserPatch{Timezone: ptr("America/Mexico_City")})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if got.Timezone != "America/Mexico_City" {
		t.Errorf("Expected America/Mexico_City, got %s", got.Timezone)
	}

	tz, err := f.svc.UserTimezone(f.ctx, u.ID)
	if err != nil || tz != "America/Mexico_City" {
		t.Errorf("Expected stored zone, got %q (err=%v)", tz, err)
	}

	if _, err := f.svc.UpdateUser(f.ctx, u.ID, UserPatch{Timezone: ptr("Nowhere")}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
	if _, err := f.svc.UpdateUser(f.ctx, u.ID, UserPatch{Name: ptr("  ")}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for blank name, got %v", err)
	}
}

func TestGoalLifecycle(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")

	if _, err := f.svc.CreateGoal(f.ctx, owner.ID, GoalInput{Title: " "}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for blank title, got %v", err)
	}
	if _, err := f.svc.CreateGoal(f.ctx, owner.ID, GoalInput{Title: "x", Kind: "Team"}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown kind, got %v", err)
	}

	g := f.goal(t, owner.ID, "")
	if g.Kind != models.GoalIndividual {
		t.Errorf("Expected default kind Individual, got %s", g.Kind)
	}

	if _, err := f.svc.GetGoal(f.ctx, stranger.ID, g.ID); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for stranger, got %v", err)
	}
	if _, err := f.svc.UpdateGoal(f.ctx, stranger.ID, g.ID, GoalPatch{Title: ptr("mine")}); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for stranger update, got %v", err)
	}

	f.clock.Advance(time.Minute)
	updated, err := f.svc.UpdateGoal(f.ctx, owner.ID, g.ID, GoalPatch{Title: ptr("Run a marathon")})
	if err != nil {
		t.Fatalf("UpdateGoal failed: %v", err)
	}
	if updated.Title != "Run a marathon" || !updated.UpdatedAt.Equal(f.svc.Now()) {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	f.clock.Advance(time.Hour)
	deletedAt := f.svc.Now()
	if _, err := f.svc.DeleteGoal(f.ctx, owner.ID, g.ID); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if _, err := f.svc.GetGoal(f.ctx, owner.ID, g.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted goal, got %v", err)
	}

	tests := []struct {
		name string
		r    TimeRange
		want int
	}{
		{"open", TimeRange{}, 1},
		{"inclusive bounds", TimeRange{From: &deletedAt, To: &deletedAt}, 1},
		{"before", TimeRange{To: ptr(deletedAt.Add(-time.Second))}, 0},
		{"after", TimeRange{From: ptr(deletedAt.Add(time.Second))}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trash, err := f.svc.ListDeletedGoals(f.ctx, owner.ID, tt.r)
			if err != nil {
				t.Fatal(err)
			}
			if len(trash) != tt.want {
				t.Errorf("Expected %d goals in trash, got %d", tt.want, len(trash))
			}
		})
	}

	recovered, err := f.svc.RecoverGoal(f.ctx, owner.ID, g.ID, "")
	if err != nil {
		t.Fatalf("RecoverGoal failed: %v", err)
	}
	if recovered.State.Deleted() {
		t.Error("Expected recovered goal to be active")
	}

	entries, err := f.svc.ListAudit(f.ctx, owner.ID, "Goal")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].EntityID != g.ID {
		t.Errorf("Expected one audit entry for goal %d, got %+v", g.ID, entries)
	}
	if _, err := f.svc.ListAudit(f.ctx, owner.ID, "Planet"); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown kind, got %v", err)
	}
	others, err := f.svc.ListAudit(f.ctx, stranger.ID, "")
	if err != nil || len(others) != 0 {
		t.Errorf("Expected no audit entries for stranger, got %d (err=%v)", len(others), err)
	}
}

func TestEvent_StartBeforeEnd(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)

	start := testutil.BaseTime.Add(24 * time.Hour)
	_, err := f.svc.CreateEvent(f.ctx, owner.ID, EventInput{GoalID: g.ID, Title: "Bad", Start: start, End: start})
	if !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for empty window, got %v", err)
	}

	ev := f.event(t, owner.ID, g.ID)

	// Moving start past the stored end is rejected
	_, err = f.svc.UpdateEvent(f.ctx, owner.ID, ev.ID, EventPatch{Start: ptr(ev.End.Add(time.Minute)), Title: ptr("changed")})
	if !errors.Is(err, models.ErrInvalid) {
		t.Fatalf("Expected ErrInvalid, got %v", err)
	}
	got, err := f.svc.GetEvent(f.ctx, owner.ID, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Start.Equal(ev.Start) || !got.End.Equal(ev.End) || got.Title != ev.Title {
		t.Errorf("Expected event unchanged after rejected update, got %+v", got)
	}

	// Moving both together is fine
	newStart := ev.End.Add(time.Hour)
	moved, err := f.svc.UpdateEvent(f.ctx, owner.ID, ev.ID, EventPatch{Start: &newStart, End: ptr(newStart.Add(30 * time.Minute))})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if !moved.Start.Equal(newStart) {
		t.Errorf("Expected start %s, got %s", newStart, moved.Start)
	}
}

func TestEvent_RecurrenceInterval(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)
	ev := f.event(t, owner.ID, g.ID)

	if _, err := RecurrenceFrom(&models.RepeatRequest{Frequency: "Daily", Interval: 0}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for zero interval, got %v", err)
	}

	bad := &models.Recurrence{Frequency: models.FrequencyDaily, Interval: -1}
	if _, err := f.svc.UpdateEvent(f.ctx, owner.ID, ev.ID, EventPatch{Recurrence: bad}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for negative interval, got %v", err)
	}

	rule, err := RecurrenceFrom(&models.RepeatRequest{Frequency: "Weekly", Interval: 1, Weekdays: []string{"Wed", "Mon", "Wed"}})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := f.svc.UpdateEvent(f.ctx, owner.ID, ev.ID, EventPatch{Recurrence: rule})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if updated.Recurrence == nil || updated.Recurrence.Weekdays.CSV() != "Wed,Mon" {
		t.Errorf("Expected weekdays Wed,Mon, got %+v", updated.Recurrence)
	}

	cleared, err := f.svc.UpdateEvent(f.ctx, owner.ID, ev.ID, EventPatch{ClearRecurrence: true})
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Recurrence != nil {
		t.Error("Expected recurrence to be cleared")
	}
}

func TestEvent_CollaboratorCanUpdateButNotDelete(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	collab := f.user(t, "collab@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)
	ev := f.event(t, owner.ID, g.ID)

	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, collab.ID, "Collaborator"); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}

	if _, err := f.svc.UpdateEvent(f.ctx, collab.ID, ev.ID, EventPatch{Title: ptr("Long run")}); err != nil {
		t.Errorf("Expected collaborator update to succeed, got %v", err)
	}
	if _, err := f.svc.DeleteEvent(f.ctx, collab.ID, ev.ID); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for collaborator delete, got %v", err)
	}
	if _, err := f.svc.DeleteEvent(f.ctx, owner.ID, ev.ID); err != nil {
		t.Errorf("Expected owner delete to succeed, got %v", err)
	}
}

func TestCreateEvent_RequiresGoalRole(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	reader := f.user(t, "reader@example.com")
	collab := f.user(t, "collab@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)
	ev := f.event(t, owner.ID, g.ID)

	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, reader.ID, "Reader"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, collab.ID, "Collaborator"); err != nil {
		t.Fatal(err)
	}

	start := testutil.BaseTime.Add(72 * time.Hour)
	in := EventInput{GoalID: g.ID, Title: "Swim", Start: start, End: start.Add(time.Hour)}

	if _, err := f.svc.CreateEvent(f.ctx, reader.ID, in); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for reader, got %v", err)
	}
	created, err := f.svc.CreateEvent(f.ctx, collab.ID, in)
	if err != nil {
		t.Fatalf("Expected collaborator create to succeed, got %v", err)
	}
	if created.OwnerID != collab.ID {
		t.Errorf("Expected owner %d, got %d", collab.ID, created.OwnerID)
	}

	parts, err := f.svc.ListParticipants(f.ctx, collab.ID, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].Role != models.RoleOwner || parts[0].UserID != collab.ID {
		t.Errorf("Expected one Owner row for creator, got %+v", parts)
	}

	// The goal owner can read events they do not own
	if _, err := f.svc.GetEvent(f.ctx, owner.ID, created.ID); err != nil {
		t.Errorf("Expected goal owner to read event, got %v", err)
	}

	in.GoalID = 999
	if _, err := f.svc.CreateEvent(f.ctx, owner.ID, in); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing goal, got %v", err)
	}
}

func TestParticipants(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	guest := f.user(t, "guest@example.com")
	other := f.user(t, "other@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)
	ev := f.event(t, owner.ID, g.ID)

	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, guest.ID, "Owner"); !models.IsRuleViolation(err) {
		t.Errorf("Expected rule violation adding a second owner, got %v", err)
	}
	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, guest.ID, "Boss"); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown role, got %v", err)
	}
	if _, err := f.svc.AddParticipant(f.ctx, guest.ID, ev.ID, other.ID, "Reader"); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for non-owner, got %v", err)
	}

	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, guest.ID, "Reader"); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, guest.ID, "Collaborator"); !models.IsRuleViolation(err) {
		t.Errorf("Expected rule violation for duplicate participant, got %v", err)
	}

	p, err := f.svc.ChangeRole(f.ctx, owner.ID, ev.ID, guest.ID, "Collaborator")
	if err != nil || p.Role != models.RoleCollaborator {
		t.Errorf("Expected Collaborator, got %+v (err=%v)", p, err)
	}
	if _, err := f.svc.ChangeRole(f.ctx, owner.ID, ev.ID, owner.ID, "Reader"); !models.IsRuleViolation(err) {
		t.Errorf("Expected rule violation changing owner's role, got %v", err)
	}

	if err := f.svc.RemoveParticipant(f.ctx, owner.ID, ev.ID, owner.ID); !models.IsRuleViolation(err) {
		t.Errorf("Expected rule violation removing owner, got %v", err)
	}

	// Transfer: guest becomes Owner, owner stays as Collaborator
	moved, err := f.svc.TransferOwnership(f.ctx, owner.ID, ev.ID, guest.ID)
	if err != nil {
		t.Fatalf("TransferOwnership failed: %v", err)
	}
	if moved.OwnerID != guest.ID {
		t.Errorf("Expected owner %d, got %d", guest.ID, moved.OwnerID)
	}

	parts, err := f.svc.ListParticipants(f.ctx, guest.ID, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	owners := 0
	for _, p := range parts {
		if p.Role == models.RoleOwner {
			owners++
			if p.UserID != guest.ID {
				t.Errorf("Expected guest to hold the Owner row, got user %d", p.UserID)
			}
		}
		if p.UserID == owner.ID && p.Role != models.RoleCollaborator {
			t.Errorf("Expected previous owner demoted to Collaborator, got %s", p.Role)
		}
	}
	if owners != 1 {
		t.Errorf("Expected exactly one Owner row, got %d", owners)
	}

	// The previous owner can no longer delete, but may leave
	if _, err := f.svc.DeleteEvent(f.ctx, owner.ID, ev.ID); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for previous owner, got %v", err)
	}
	if err := f.svc.RemoveParticipant(f.ctx, owner.ID, ev.ID, owner.ID); err != nil {
		t.Errorf("Expected self removal to succeed, got %v", err)
	}
}

func TestReminders(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	reader := f.user(t, "reader@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)
	ev := f.event(t, owner.ID, g.ID)
	if _, err := f.svc.AddParticipant(f.ctx, owner.ID, ev.ID, reader.ID, "Reader"); err != nil {
		t.Fatal(err)
	}

	past := ReminderInput{FireAt: testutil.BaseTime.Add(-time.Minute)}
	if _, err := f.svc.CreateReminder(f.ctx, owner.ID, ev.ID, past); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for past fire time, got %v", err)
	}
	if _, err := f.svc.CreateReminder(f.ctx, owner.ID, ev.ID, ReminderInput{FireAt: testutil.BaseTime.Add(time.Hour), Channel: "Pigeon"}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown channel, got %v", err)
	}

	in := ReminderInput{
		FireAt:     testutil.BaseTime.Add(time.Hour),
		Message:    "Stretch",
		Recurrence: &models.Recurrence{Frequency: models.FrequencyDaily, Interval: 1, Weekdays: models.WeekdaySet{}},
	}
	if _, err := f.svc.CreateReminder(f.ctx, reader.ID, ev.ID, in); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for reader, got %v", err)
	}
	r, err := f.svc.CreateReminder(f.ctx, owner.ID, ev.ID, in)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	if r.Channel != models.ChannelLocal {
		t.Errorf("Expected default channel Local, got %s", r.Channel)
	}

	// Three fire times fall in the first two and a half days
	occ, err := f.svc.UpcomingReminders(f.ctx, reader.ID, testutil.BaseTime, testutil.BaseTime.Add(60*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(occ) != 3 {
		t.Fatalf("Expected 3 upcoming fire times, got %d", len(occ))
	}
	if !occ[0].FireAt.Equal(in.FireAt) {
		t.Errorf("Expected first fire time %s, got %s", in.FireAt, occ[0].FireAt)
	}

	// Once the base time passes, a repeating reminder can still be edited
	f.clock.Advance(30 * time.Hour)
	updated, err := f.svc.UpdateReminder(f.ctx, owner.ID, r.ID, ReminderPatch{Message: ptr("Hydrate"), Sent: ptr(true)})
	if err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}
	if updated.Message != "Hydrate" || !updated.Sent {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	// Dropping the rule leaves a single fire time in the past
	if _, err := f.svc.UpdateReminder(f.ctx, owner.ID, r.ID, ReminderPatch{ClearRecurrence: true}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid clearing the rule of a past reminder, got %v", err)
	}
	if _, err := f.svc.UpdateReminder(f.ctx, owner.ID, r.ID, ReminderPatch{FireAt: ptr(testutil.BaseTime)}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("Expected ErrInvalid moving fire time into the past, got %v", err)
	}

	if _, err := f.svc.DeleteReminder(f.ctx, reader.ID, r.ID); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for reader delete, got %v", err)
	}
	if _, err := f.svc.DeleteReminder(f.ctx, owner.ID, r.ID); err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	if _, err := f.svc.GetReminder(f.ctx, owner.ID, r.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted reminder, got %v", err)
	}

	trash, err := f.svc.ListDeletedReminders(f.ctx, owner.ID, ev.ID, TimeRange{})
	if err != nil || len(trash) != 1 {
		t.Errorf("Expected 1 reminder in trash, got %d (err=%v)", len(trash), err)
	}

	if _, err := f.svc.RecoverReminder(f.ctx, owner.ID, r.ID, "oops"); err != nil {
		t.Fatalf("RecoverReminder failed: %v", err)
	}
	list, err := f.svc.ListReminders(f.ctx, reader.ID, ev.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("Expected 1 active reminder, got %d (err=%v)", len(list), err)
	}
}

func TestUpcomingEvents_WeeklyProjection(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)

	// Sunday 2030-02-03
	start := time.Date(2030, 2, 3, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.CreateEvent(f.ctx, owner.ID, EventInput{
		GoalID: g.ID,
		Title:  "Gym",
		Start:  start,
		End:    start.Add(time.Hour),
		Recurrence: &models.Recurrence{
			Frequency: models.FrequencyWeekly,
			Interval:  1,
			Weekdays:  models.WeekdaySet{"Mon", "Wed"},
		},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	from := time.Date(2030, 2, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 2, 12, 0, 0, 0, 0, time.UTC)
	occ, err := f.svc.UpcomingEvents(f.ctx, owner.ID, from, to)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[time.Weekday]bool{}
	for _, o := range occ {
		seen[o.Start.Weekday()] = true
	}
	if !seen[time.Monday] || !seen[time.Wednesday] {
		t.Errorf("Expected Monday and Wednesday occurrences, got %+v", occ)
	}

	stranger := f.user(t, "stranger@example.com")
	none, err := f.svc.UpcomingEvents(f.ctx, stranger.ID, from, to)
	if err != nil || len(none) != 0 {
		t.Errorf("Expected no occurrences for stranger, got %d (err=%v)", len(none), err)
	}
}

func TestNotifications_EventDeleted(t *testing.T) {
	f := setup(t)
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	g := f.goal(t, u1.ID, models.GoalIndividual)
	ev := f.event(t, u1.ID, g.ID)
	if _, err := f.svc.AddParticipant(f.ctx, u1.ID, ev.ID, u2.ID, "Collaborator"); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.DeleteEvent(f.ctx, u1.ID, ev.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	for _, u := range []*models.User{u1, u2} {
		notes, err := f.svc.ListNotifications(f.ctx, u.ID, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 1 {
			t.Fatalf("Expected 1 notification for %s, got %d", u.Email, len(notes))
		}
	}

	notes, _ := f.svc.ListNotifications(f.ctx, u2.ID, true)
	id := notes[0].ID

	if _, err := f.svc.MarkNotificationRead(f.ctx, u1.ID, id); !models.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied marking another user's notification, got %v", err)
	}

	first, err := f.svc.MarkNotificationRead(f.ctx, u2.ID, id)
	if err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	f.clock.Advance(time.Hour)
	second, err := f.svc.MarkNotificationRead(f.ctx, u2.ID, id)
	if err != nil {
		t.Fatalf("Second MarkNotificationRead failed: %v", err)
	}
	if first.ReadAt == nil || second.ReadAt == nil || !first.ReadAt.Equal(*second.ReadAt) {
		t.Errorf("Expected read_at to stay %v, got %v", first.ReadAt, second.ReadAt)
	}

	if _, err := f.svc.MarkNotificationRead(f.ctx, u2.ID, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	unread, _ := f.svc.ListNotifications(f.ctx, u2.ID, true)
	if len(unread) != 0 {
		t.Errorf("Expected no unread notifications, got %d", len(unread))
	}
}

func TestSyncGoals(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")

	raw := func(v any) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}

	req := models.SyncRequest{
		Sequential: true,
		Operations: []models.SyncOperation{
			{Kind: SyncCreate, TempID: "-1", Data: raw(models.CreateGoalRequest{Title: "Offline goal"})},
			{Kind: SyncUpdate, TargetID: -1, Data: raw(models.UpdateGoalRequest{Title: ptr("Renamed offline")})},
			{Kind: "delete", TargetID: 5},
			{Kind: SyncCreate, TempID: "-2", Data: raw(models.CreateGoalRequest{Title: "Never reached"})},
		},
	}

	resp := f.svc.SyncGoals(f.ctx, owner.ID, req)
	if len(resp.Results) != 3 {
		t.Fatalf("Expected batch to stop after 3 results, got %d", len(resp.Results))
	}
	if !resp.Results[0].OK || !resp.Results[1].OK || resp.Results[2].OK {
		t.Errorf("Unexpected results: %+v", resp.Results)
	}
	id, ok := resp.Mappings["-1"]
	if !ok || resp.Results[1].ID != id {
		t.Errorf("Expected update to resolve temp id -1 to %d, got %+v", id, resp.Results[1])
	}

	g, err := f.svc.GetGoal(f.ctx, owner.ID, id)
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "Renamed offline" {
		t.Errorf("Expected renamed goal, got %s", g.Title)
	}

	req.ContinueOnError = true
	resp = f.svc.SyncGoals(f.ctx, owner.ID, req)
	if len(resp.Results) != 4 || !resp.Results[3].OK {
		t.Errorf("Expected all 4 operations attempted, got %+v", resp.Results)
	}
}

func TestSyncEvents(t *testing.T) {
	f := setup(t)
	owner := f.user(t, "owner@example.com")
	g := f.goal(t, owner.ID, models.GoalIndividual)

	raw := func(v any) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	req := models.SyncRequest{
		Operations: []models.SyncOperation{
			{Kind: SyncCreate, TempID: "-10", Data: raw(models.CreateEventRequest{
				GoalID: g.ID, Title: "Tea", Start: "2030-03-01T09:00:00", End: "2030-03-01T10:00:00",
			})},
			{Kind: SyncCreate, Data: raw(models.CreateEventRequest{
				GoalID: g.ID, Title: "Backwards", Start: "2030-03-01T10:00:00", End: "2030-03-01T09:00:00",
			})},
			{Kind: SyncUpdate, TargetID: -10, Data: raw(models.UpdateEventRequest{Location: ptr("Kyoto")})},
			{Kind: SyncUpdate, Data: raw(models.UpdateEventRequest{})},
		},
	}

	resp := f.svc.SyncEvents(f.ctx, owner.ID, req, tokyo)
	if len(resp.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(resp.Results))
	}
	wantOK := []bool{true, false, true, false}
	for i, want := range wantOK {
		if resp.Results[i].OK != want {
			t.Errorf("Result %d: Expected ok=%v, got %+v", i, want, resp.Results[i])
		}
	}

	ev, err := f.svc.GetEvent(f.ctx, owner.ID, resp.Mappings["-10"])
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(want) {
		t.Errorf("Expected start %s, got %s", want, ev.Start)
	}
	if ev.Location != "Kyoto" {
		t.Errorf("Expected location Kyoto, got %s", ev.Location)
	}
}
