// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/testutil"
)

func TestRecordAndList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	s := conn.Session()

	user := testutil.CreateTestUser(t, conn, "audit@example.com")
	uid := user.ID

	first, err := Record(ctx, s, models.KindGoal, 10, &uid, "Goal 10 recovered", testutil.BaseTime)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if first.ID == 0 {
		t.Error("Expected entry id to be assigned")
	}

	if _, err := Record(ctx, s, models.KindEvent, 20, nil, "system restore", testutil.BaseTime.Add(time.Minute)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := Record(ctx, s, models.KindGoal, 11, &uid, "again", testutil.BaseTime.Add(2*time.Minute)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	all, err := List(ctx, s, Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	// Newest first
	if all[0].EntityID != 11 || all[2].EntityID != 10 {
		t.Errorf("Expected newest first, got %d..%d", all[0].EntityID, all[2].EntityID)
	}
	if all[1].UserID != nil {
		t.Errorf("Expected nil user for system entry, got %v", *all[1].UserID)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by kind", Filter{Kind: models.KindGoal}, 2},
		{"by entity", Filter{EntityID: 20}, 1},
		{"by user", Filter{UserID: uid}, 2},
		{"kind and entity", Filter{Kind: models.KindEvent, EntityID: 10}, 0},
		{"reminder", Filter{Kind: models.KindReminder}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := List(ctx, s, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestRecord_StoresUTC(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	zone := time.FixedZone("UTC+9", 9*3600)
	at := time.Date(2030, 1, 1, 9, 0, 0, 0, zone)

	entry, err := Record(ctx, conn.Session(), models.KindReminder, 1, nil, "", at)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if entry.RecordedAt.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %s", entry.RecordedAt.Location())
	}

	got, err := List(ctx, conn.Session(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].RecordedAt.Equal(testutil.BaseTime) {
		t.Errorf("Expected %s, got %s", testutil.BaseTime, got[0].RecordedAt)
	}
}
