// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/planner/auth"
	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/store"
)

// BaseTime is the instant test clocks start at.
var BaseTime = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// SetupTestDB opens a fresh in-memory SQLite database with all migrations
// applied. It is closed when the test ends.
func SetupTestDB(t *testing.T) *db.Conn {
	t.Helper()

	conn, err := db.Open(context.Background(), db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		TokenSecret:  "test-token-secret",
		LogLevel:     "error",
		LogFormat:    "text",
	}
}

// Clock is a settable clock for tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// FixedClock returns a clock stopped at BaseTime.
func FixedClock() *Clock {
	return &Clock{now: BaseTime}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// CreateTestUser inserts an active user in UTC.
func CreateTestUser(t *testing.T, conn *db.Conn, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, Name: email, Timezone: "UTC", CreatedAt: BaseTime}
	if err := store.New(conn.Session()).CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestGoal inserts an active goal of the given kind.
func CreateTestGoal(t *testing.T, conn *db.Conn, ownerID int64, kind string) *models.Goal {
	t.Helper()

	g := &models.Goal{OwnerID: ownerID, Title: "Test Goal", Kind: kind, CreatedAt: BaseTime, UpdatedAt: BaseTime}
	if err := store.New(conn.Session()).CreateGoal(context.Background(), g); err != nil {
		t.Fatalf("Failed to create test goal: %v", err)
	}
	return g
}

// CreateTestEvent inserts a one-hour active event starting a day after
// BaseTime, plus its Owner participant row.
func CreateTestEvent(t *testing.T, conn *db.Conn, goalID, ownerID int64) *models.Event {
	t.Helper()

	e := &models.Event{
		GoalID:    goalID,
		OwnerID:   ownerID,
		Title:     "Test Event",
		Start:     BaseTime.Add(24 * time.Hour),
		End:       BaseTime.Add(25 * time.Hour),
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
	q := store.New(conn.Session())
	if err := q.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	AddTestParticipant(t, conn, e.ID, ownerID, models.RoleOwner)
	return e
}

// AddTestParticipant inserts a participant row.
func AddTestParticipant(t *testing.T, conn *db.Conn, eventID, userID int64, role models.Role) *models.Participant {
	t.Helper()

	p := &models.Participant{EventID: eventID, UserID: userID, Role: role, CreatedAt: BaseTime}
	if err := store.New(conn.Session()).AddParticipant(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return p
}

// CreateTestReminder inserts an active Local reminder.
func CreateTestReminder(t *testing.T, conn *db.Conn, eventID int64, fireAt time.Time) *models.Reminder {
	t.Helper()

	r := &models.Reminder{
		EventID:   eventID,
		FireAt:    fireAt,
		Channel:   models.ChannelLocal,
		Message:   "Test Reminder",
		CreatedAt: BaseTime,
	}
	if err := store.New(conn.Session()).CreateReminder(context.Background(), r); err != nil {
		t.Fatalf("Failed to create test reminder: %v", err)
	}
	return r
}

// AuthHeaders returns the bearer header for userID.
func AuthHeaders(cfg cliparse.Config, userID int64) map[string]string {
	return map[string]string{"Authorization": "Bearer " + auth.IssueToken(userID, cfg.TokenSecret)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
