// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"
)

// Role is a participant capability tier on an event.
type Role string

const (
	RoleNone         Role = ""
	RoleOwner        Role = "Owner"
	RoleCollaborator Role = "Collaborator"
	RoleReader       Role = "Reader"
)

// ParseRole maps a stored role string to a Role.
// Unknown values yield RoleNone.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleOwner, RoleCollaborator, RoleReader:
		return Role(s)
	}
	return RoleNone
}

// Goal kinds
const (
	GoalIndividual = "Individual"
	GoalCollective = "Collective"
)

// Reminder channels
const (
	ChannelLocal = "Local"
	ChannelPush  = "Push"
)

// Notification types
const (
	NotificationEventDeleted = "EventDeleted"
)

// EntityKind names the recoverable entities in the audit log.
type EntityKind string

const (
	KindGoal     EntityKind = "Goal"
	KindEvent    EntityKind = "Event"
	KindReminder EntityKind = "Reminder"
)

// ParseEntityKind returns the kind and whether it is known.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindGoal, KindEvent, KindReminder:
		return EntityKind(s), true
	}
	return "", false
}

// Frequency is the unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// ParseFrequency returns the frequency and whether it is known.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(s), true
	}
	return "", false
}

// Canonical weekday tokens, Monday first.
var weekdayTokens = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayToken returns the canonical token for a time.Weekday.
func WeekdayToken(d time.Weekday) string {
	// time.Weekday starts on Sunday
	return weekdayTokens[(int(d)+6)%7]
}

// ParseWeekday converts a canonical token to a time.Weekday.
func ParseWeekday(token string) (time.Weekday, bool) {
	for i, t := range weekdayTokens {
		if t == token {
			return time.Weekday((i + 1) % 7), true
		}
	}
	return 0, false
}

// WeekdaySet is an ordered set of canonical weekday tokens.
type WeekdaySet []string

// NewWeekdaySet keeps the first occurrence of each token in order and
// strips blanks and duplicates. Tokens are case-sensitive.
func NewWeekdaySet(tokens []string) WeekdaySet {
	seen := make(map[string]bool, len(tokens))
	out := make(WeekdaySet, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseWeekdayCSV decodes the storage form.
func ParseWeekdayCSV(csv string) WeekdaySet {
	if csv == "" {
		return WeekdaySet{}
	}
	return NewWeekdaySet(strings.Split(csv, ","))
}

// CSV encodes the set for storage.
func (s WeekdaySet) CSV() string {
	return strings.Join(NewWeekdaySet(s), ",")
}

// Valid reports whether every token is canonical.
func (s WeekdaySet) Valid() bool {
	for _, t := range s {
		if _, ok := ParseWeekday(t); !ok {
			return false
		}
	}
	return true
}

// MaxInterval is the largest accepted repeat interval.
const MaxInterval = 1000

// Recurrence is the repeat rule shared by events and reminders.
type Recurrence struct {
	Frequency Frequency
	Interval  int
	Weekdays  WeekdaySet
}

// Validate checks the frequency, the interval and the weekday tokens.
func (r Recurrence) Validate() error {
	if _, ok := ParseFrequency(string(r.Frequency)); !ok {
		return Invalidf("unknown repeat frequency %q", r.Frequency)
	}
	if r.Interval < 1 || r.Interval > MaxInterval {
		return Invalidf("repeat interval must be between 1 and %d, got %d", MaxInterval, r.Interval)
	}
	if !r.Weekdays.Valid() {
		return Invalidf("invalid weekday in %q", r.Weekdays.CSV())
	}
	return nil
}

// Lifecycle is the soft-delete state of an entity: active, or deleted at a
// point in time.
type Lifecycle struct {
	deletedAt time.Time
	deleted   bool
}

// Active returns the active state.
func Active() Lifecycle {
	return Lifecycle{}
}

// DeletedAt returns the deleted state stamped at t.
func DeletedAt(t time.Time) Lifecycle {
	return Lifecycle{deletedAt: t.UTC(), deleted: true}
}

// Deleted reports whether the entity is soft-deleted.
func (l Lifecycle) Deleted() bool {
	return l.deleted
}

// At returns the deletion timestamp, or nil when active.
func (l Lifecycle) At() *time.Time {
	if !l.deleted {
		return nil
	}
	t := l.deletedAt
	return &t
}

// Domain types

type User struct {
	ID        int64
	Email     string
	Name      string
	Timezone  string
	CreatedAt time.Time
	State     Lifecycle
}

type Goal struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Kind        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	State       Lifecycle
}

type Event struct {
	ID          int64
	GoalID      int64
	OwnerID     int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	Recurrence  *Recurrence
	CreatedAt   time.Time
	UpdatedAt   time.Time
	State       Lifecycle
}

type Reminder struct {
	ID         int64
	EventID    int64
	FireAt     time.Time
	Channel    string
	Message    string
	Recurrence *Recurrence
	Sent       bool
	CreatedAt  time.Time
	State      Lifecycle
}

type Participant struct {
	ID        int64
	EventID   int64
	UserID    int64
	Role      Role
	CreatedAt time.Time
}

type AuditEntry struct {
	ID         int64
	EntityKind EntityKind
	EntityID   int64
	UserID     *int64
	Detail     string
	RecordedAt time.Time
}

type Notification struct {
	ID          int64
	UserID      int64
	Kind        string
	ReferenceID int64
	Message     string
	CreatedAt   time.Time
	ReadAt      *time.Time
}
