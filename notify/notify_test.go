// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/testutil"
)

func TestRegisterEventDeleted_Dedupes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	u1 := testutil.CreateTestUser(t, conn, "u1@example.com")
	u2 := testutil.CreateTestUser(t, conn, "u2@example.com")

	notes, err := RegisterEventDeleted(ctx, conn.Session(), 7, []int64{u1.ID, u2.ID, u1.ID}, "Event \"Run\" was deleted", testutil.BaseTime)
	if err != nil {
		t.Fatalf("RegisterEventDeleted failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notes))
	}

	for _, n := range notes {
		if n.ID == 0 {
			t.Error("Expected notification id to be assigned")
		}
		if n.Kind != models.NotificationEventDeleted {
			t.Errorf("Expected kind %s, got %s", models.NotificationEventDeleted, n.Kind)
		}
		if n.ReferenceID != 7 {
			t.Errorf("Expected reference 7, got %d", n.ReferenceID)
		}
		if n.ReadAt != nil {
			t.Error("Expected new notification to be unread")
		}
	}
}

func TestListPending(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	s := conn.Session()

	user := testutil.CreateTestUser(t, conn, "user@example.com")
	other := testutil.CreateTestUser(t, conn, "other@example.com")

	if _, err := RegisterEventDeleted(ctx, s, 1, []int64{user.ID}, "first", testutil.BaseTime); err != nil {
		t.Fatal(err)
	}
	second, err := RegisterEventDeleted(ctx, s, 2, []int64{user.ID, other.ID}, "second", testutil.BaseTime.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	all, err := ListPending(ctx, s, user.ID, false)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(all))
	}
	if all[0].Message != "second" {
		t.Errorf("Expected newest first, got %q", all[0].Message)
	}

	if _, err := MarkRead(ctx, s, second[0].ID, testutil.BaseTime.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}

	unread, err := ListPending(ctx, s, user.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].Message != "first" {
		t.Errorf("Expected only the first notification unread, got %+v", unread)
	}

	// Other recipients are unaffected
	otherUnread, err := ListPending(ctx, s, other.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(otherUnread) != 1 {
		t.Errorf("Expected 1 unread for other user, got %d", len(otherUnread))
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	s := conn.Session()

	user := testutil.CreateTestUser(t, conn, "user@example.com")
	notes, err := RegisterEventDeleted(ctx, s, 1, []int64{user.ID}, "msg", testutil.BaseTime)
	if err != nil {
		t.Fatal(err)
	}
	id := notes[0].ID

	firstRead := testutil.BaseTime.Add(time.Hour)
	ok, err := MarkRead(ctx, s, id, firstRead)
	if err != nil || !ok {
		t.Fatalf("Expected MarkRead to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = MarkRead(ctx, s, id, firstRead.Add(time.Hour))
	if err != nil || !ok {
		t.Fatalf("Expected second MarkRead to succeed, got ok=%v err=%v", ok, err)
	}

	n, err := Get(ctx, s, id)
	if err != nil {
		t.Fatal(err)
	}
	if n.ReadAt == nil || !n.ReadAt.Equal(firstRead) {
		t.Errorf("Expected read_at to stay %s, got %v", firstRead, n.ReadAt)
	}
}

func TestMarkRead_Missing(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	ok, err := MarkRead(context.Background(), conn.Session(), 999, testutil.BaseTime)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected false for a missing notification")
	}

	if _, err := Get(context.Background(), conn.Session(), 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
