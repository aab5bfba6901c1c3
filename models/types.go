// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// Request types

type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
}

type CreateGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

type UpdateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Kind        *string `json:"kind"`
}

type RepeatRequest struct {
	Frequency string   `json:"frequency"`
	Interval  int      `json:"interval"`
	Weekdays  []string `json:"weekdays,omitempty"`
}

// Start and End are ISO-8601 strings; offset-less values are read in the
// request's input zone.
type CreateEventRequest struct {
	GoalID      int64          `json:"goal_id"`
	OwnerID     int64          `json:"owner_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Location    string         `json:"location"`
	Repeat      *RepeatRequest `json:"repeat,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Start       *string        `json:"start"`
	End         *string        `json:"end"`
	Location    *string        `json:"location"`
	Repeat      *RepeatRequest `json:"repeat,omitempty"`
	ClearRepeat bool           `json:"clear_repeat,omitempty"`
}

type CreateReminderRequest struct {
	FireAt  string         `json:"fire_at"`
	Channel string         `json:"channel"`
	Message string         `json:"message"`
	Repeat  *RepeatRequest `json:"repeat,omitempty"`
}

type UpdateReminderRequest struct {
	FireAt      *string        `json:"fire_at"`
	Channel     *string        `json:"channel"`
	Message     *string        `json:"message"`
	Sent        *bool          `json:"sent"`
	Repeat      *RepeatRequest `json:"repeat,omitempty"`
	ClearRepeat bool           `json:"clear_repeat,omitempty"`
}

type AddParticipantRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type TransferOwnershipRequest struct {
	UserID int64 `json:"user_id"`
}

type RecoverRequest struct {
	Detail string `json:"detail"`
}

// SyncOperation is one entry of a batch. Data carries a create or update
// payload for the batch's entity type.
type SyncOperation struct {
	Kind     string          `json:"kind"`
	TempID   string          `json:"temp_id,omitempty"`
	TargetID int64           `json:"target_id,omitempty"`
	Data     json.RawMessage `json:"data"`
}

type SyncRequest struct {
	Operations      []SyncOperation `json:"operations"`
	Sequential      bool            `json:"sequential"`
	ContinueOnError bool            `json:"continue_on_error"`
}

// Response types

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

type RegisterUserResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type GoalResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
}

type RepeatResponse struct {
	Frequency string   `json:"frequency"`
	Interval  int      `json:"interval"`
	Weekdays  []string `json:"weekdays"`
}

type EventResponse struct {
	ID          int64           `json:"id"`
	GoalID      int64           `json:"goal_id"`
	OwnerID     int64           `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Location    string          `json:"location"`
	Repeat      *RepeatResponse `json:"repeat,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	DeletedAt   *string         `json:"deleted_at,omitempty"`
}

type ReminderResponse struct {
	ID        int64           `json:"id"`
	EventID   int64           `json:"event_id"`
	FireAt    string          `json:"fire_at"`
	Channel   string          `json:"channel"`
	Message   string          `json:"message"`
	Repeat    *RepeatResponse `json:"repeat,omitempty"`
	Sent      bool            `json:"sent"`
	CreatedAt string          `json:"created_at"`
	DeletedAt *string         `json:"deleted_at,omitempty"`
}

type ParticipantResponse struct {
	ID        int64  `json:"id"`
	EventID   int64  `json:"event_id"`
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type OccurrenceResponse struct {
	EventID  int64  `json:"event_id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
}

type ReminderOccurrenceResponse struct {
	ReminderID int64  `json:"reminder_id"`
	EventID    int64  `json:"event_id"`
	FireAt     string `json:"fire_at"`
	Channel    string `json:"channel"`
	Message    string `json:"message"`
}

type NotificationResponse struct {
	ID          int64   `json:"id"`
	Kind        string  `json:"kind"`
	ReferenceID int64   `json:"reference_id"`
	Message     string  `json:"message"`
	CreatedAt   string  `json:"created_at"`
	ReadAt      *string `json:"read_at,omitempty"`
}

type MarkReadResponse struct {
	ID   int64 `json:"id"`
	Read bool  `json:"read"`
}

type AuditEntryResponse struct {
	ID         int64  `json:"id"`
	EntityKind string `json:"entity_kind"`
	EntityID   int64  `json:"entity_id"`
	UserID     *int64 `json:"user_id,omitempty"`
	Detail     string `json:"detail"`
	RecordedAt string `json:"recorded_at"`
}

type SyncItemResult struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	OK       bool   `json:"ok"`
	ID       int64  `json:"id,omitempty"`
	TempID   string `json:"temp_id,omitempty"`
	TargetID int64  `json:"target_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SyncResponse struct {
	Results  []SyncItemResult `json:"results"`
	Mappings map[string]int64 `json:"mappings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
