// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/store"
	"github.com/danielhkuo/planner/testutil"
)

func TestUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	q := store.New(conn.Session())

	u := testutil.CreateTestUser(t, conn, "alice@example.com")

	got, err := q.GetActiveUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetActiveUserByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Expected user %d, got %d", u.ID, got.ID)
	}

	got.Timezone = "Asia/Tokyo"
	got.Name = "Alice"
	if err := q.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	tz, err := q.UserTimezone(ctx, u.ID)
	if err != nil || tz != "Asia/Tokyo" {
		t.Errorf("Expected Asia/Tokyo, got %q (err=%v)", tz, err)
	}

	if err := q.SoftDeleteUser(ctx, u.ID, testutil.BaseTime); err != nil {
		t.Fatal(err)
	}
	if _, err := q.GetActiveUserByEmail(ctx, "alice@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted user, got %v", err)
	}

	// The email is free again once the holder is deleted
	testutil.CreateTestUser(t, conn, "alice@example.com")

	if _, err := q.GetUser(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEvents_RecurrenceRoundTrip(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	q := store.New(conn.Session())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com")
	goal := testutil.CreateTestGoal(t, conn, owner.ID, models.GoalIndividual)

	e := &models.Event{
		GoalID:  goal.ID,
		OwnerID: owner.ID,
		Title:   "Swim",
		Start:   testutil.BaseTime,
		End:     testutil.BaseTime.Add(time.Hour),
		Recurrence: &models.Recurrence{
			Frequency: models.FrequencyWeekly,
			Interval:  1,
			Weekdays:  models.WeekdaySet{"Mon", "Wed"},
		},
		CreatedAt: testutil.BaseTime,
		UpdatedAt: testutil.BaseTime,
	}
	if err := q.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := q.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Recurrence, e.Recurrence) {
		t.Errorf("Expected recurrence %+v, got %+v", e.Recurrence, got.Recurrence)
	}
	if !got.Start.Equal(e.Start) || !got.End.Equal(e.End) {
		t.Errorf("Expected %s-%s, got %s-%s", e.Start, e.End, got.Start, got.End)
	}

	got.Recurrence = nil
	if err := q.UpdateEvent(ctx, got); err != nil {
		t.Fatal(err)
	}
	cleared, err := q.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Recurrence != nil {
		t.Errorf("Expected cleared recurrence, got %+v", cleared.Recurrence)
	}
}

func TestVisibilityQueries(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	q := store.New(conn.Session())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com")
	guest := testutil.CreateTestUser(t, conn, "guest@example.com")
	stranger := testutil.CreateTestUser(t, conn, "stranger@example.com")

	goal := testutil.CreateTestGoal(t, conn, owner.ID, models.GoalIndividual)
	shared := testutil.CreateTestEvent(t, conn, goal.ID, owner.ID)
	private := testutil.CreateTestEvent(t, conn, goal.ID, owner.ID)
	testutil.AddTestParticipant(t, conn, shared.ID, guest.ID, models.RoleReader)
	testutil.CreateTestReminder(t, conn, shared.ID, testutil.BaseTime.Add(2*time.Hour))
	testutil.CreateTestReminder(t, conn, private.ID, testutil.BaseTime.Add(3*time.Hour))

	tests := []struct {
		name      string
		userID    int64
		goals     int
		events    int
		reminders int
	}{
		{"owner", owner.ID, 1, 2, 2},
		{"participant", guest.ID, 1, 1, 1},
		{"stranger", stranger.ID, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals, err := q.ListGoalsVisibleTo(ctx, tt.userID)
			if err != nil {
				t.Fatal(err)
			}
			events, err := q.ListEventsVisibleTo(ctx, tt.userID)
			if err != nil {
				t.Fatal(err)
			}
			reminders, err := q.ListRemindersVisibleTo(ctx, tt.userID)
			if err != nil {
				t.Fatal(err)
			}
			if len(goals) != tt.goals || len(events) != tt.events || len(reminders) != tt.reminders {
				t.Errorf("Expected %d/%d/%d, got %d/%d/%d", tt.goals, tt.events, tt.reminders,
					len(goals), len(events), len(reminders))
			}
		})
	}

	// Deleting the shared event hides it and its goal from the guest
	if err := q.SoftDeleteEvent(ctx, shared.ID, testutil.BaseTime); err != nil {
		t.Fatal(err)
	}
	events, err := q.ListEventsVisibleTo(ctx, guest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no visible events for guest, got %d", len(events))
	}
	goals, err := q.ListGoalsVisibleTo(ctx, guest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 0 {
		t.Errorf("Expected no visible goals for guest, got %d", len(goals))
	}

	trash, err := q.ListDeletedEventsOwnedBy(ctx, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(trash) != 1 || trash[0].ID != shared.ID {
		t.Errorf("Expected shared event in trash, got %+v", trash)
	}
}

func TestParticipants(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	q := store.New(conn.Session())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com")
	guest := testutil.CreateTestUser(t, conn, "guest@example.com")
	goal := testutil.CreateTestGoal(t, conn, owner.ID, models.GoalCollective)
	ev := testutil.CreateTestEvent(t, conn, goal.ID, owner.ID)
	testutil.AddTestParticipant(t, conn, ev.ID, guest.ID, models.RoleReader)

	role, ok, err := q.ParticipantRole(ctx, ev.ID, guest.ID)
	if err != nil || !ok || role != string(models.RoleReader) {
		t.Errorf("Expected Reader, got %q ok=%v err=%v", role, ok, err)
	}

	n, err := q.CountCollaboratorsInGoal(ctx, goal.ID)
	if err != nil || n != 0 {
		t.Errorf("Expected 0 collaborators, got %d (err=%v)", n, err)
	}

	if err := q.UpdateParticipantRole(ctx, ev.ID, guest.ID, models.RoleCollaborator); err != nil {
		t.Fatal(err)
	}
	n, err = q.CountCollaboratorsInGoal(ctx, goal.ID)
	if err != nil || n != 1 {
		t.Errorf("Expected 1 collaborator, got %d (err=%v)", n, err)
	}

	// A duplicate (event, user) row is rejected
	dup := &models.Participant{EventID: ev.ID, UserID: guest.ID, Role: models.RoleReader, CreatedAt: testutil.BaseTime}
	if err := q.AddParticipant(ctx, dup); err == nil {
		t.Error("Expected duplicate participant to fail")
	}

	list, err := q.ListParticipants(ctx, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 participants, got %d", len(list))
	}

	if err := q.DeleteParticipant(ctx, ev.ID, guest.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := q.ParticipantRole(ctx, ev.ID, guest.ID); ok {
		t.Error("Expected participant row removed")
	}
}

func TestRemindersByGoal_SkipsDeletedEvents(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	q := store.New(conn.Session())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com")
	goal := testutil.CreateTestGoal(t, conn, owner.ID, models.GoalIndividual)
	active := testutil.CreateTestEvent(t, conn, goal.ID, owner.ID)
	gone := testutil.CreateTestEvent(t, conn, goal.ID, owner.ID)
	r1 := testutil.CreateTestReminder(t, conn, active.ID, testutil.BaseTime.Add(time.Hour))
	r2 := testutil.CreateTestReminder(t, conn, gone.ID, testutil.BaseTime.Add(time.Hour))

	if err := q.SoftDeleteEvent(ctx, gone.ID, testutil.BaseTime); err != nil {
		t.Fatal(err)
	}

	at := testutil.BaseTime.Add(time.Hour)
	if err := q.SoftDeleteRemindersByGoal(ctx, goal.ID, at); err != nil {
		t.Fatal(err)
	}

	got1, _ := q.GetReminder(ctx, r1.ID)
	got2, _ := q.GetReminder(ctx, r2.ID)
	if !got1.State.Deleted() {
		t.Error("Expected reminder of active event to be deleted")
	}
	if got2.State.Deleted() {
		t.Error("Expected reminder of deleted event to be left alone")
	}

	all, err := q.ListRemindersByEvent(ctx, active.ID, true)
	if err != nil || len(all) != 1 {
		t.Errorf("Expected 1 reminder including deleted, got %d (err=%v)", len(all), err)
	}
	live, err := q.ListRemindersByEvent(ctx, active.ID, false)
	if err != nil || len(live) != 0 {
		t.Errorf("Expected 0 active reminders, got %d (err=%v)", len(live), err)
	}
}
