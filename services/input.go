// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"strings"
	"time"

	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/timezone"
)

type UserPatch struct {
	Name     *string
	Timezone *string
}

type GoalInput struct {
	Title       string
	Description string
	Kind        string
}

type GoalPatch struct {
	Title       *string
	Description *string
	Kind        *string
}

// EventInput holds a new event with times already in UTC. A zero OwnerID
// means the acting user.
type EventInput struct {
	GoalID      int64
	OwnerID     int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	Recurrence  *models.Recurrence
}

type EventPatch struct {
	Title           *string
	Description     *string
	Start           *time.Time
	End             *time.Time
	Location        *string
	Recurrence      *models.Recurrence
	ClearRecurrence bool
}

type ReminderInput struct {
	FireAt     time.Time
	Channel    string
	Message    string
	Recurrence *models.Recurrence
}

type ReminderPatch struct {
	FireAt          *time.Time
	Channel         *string
	Message         *string
	Sent            *bool
	Recurrence      *models.Recurrence
	ClearRecurrence bool
}

// RecurrenceFrom validates a repeat payload. Weekdays are kept only for
// Weekly rules.
func RecurrenceFrom(req *models.RepeatRequest) (*models.Recurrence, error) {
	if req == nil {
		return nil, nil
	}
	rule := &models.Recurrence{
		Frequency: models.Frequency(strings.TrimSpace(req.Frequency)),
		Interval:  req.Interval,
		Weekdays:  models.NewWeekdaySet(req.Weekdays),
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if rule.Frequency != models.FrequencyWeekly {
		rule.Weekdays = models.WeekdaySet{}
	}
	return rule, nil
}

func parseTime(field, value string, zone *time.Location) (time.Time, error) {
	t, err := timezone.ToUTC(value, zone, nil)
	if err != nil {
		return time.Time{}, models.Invalidf("%s: %v", field, err)
	}
	return t, nil
}

func parseTimePtr(field string, value *string, zone *time.Location) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseTime(field, *value, zone)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EventInputFrom converts a create request, reading offset-less times in zone.
func EventInputFrom(req models.CreateEventRequest, zone *time.Location) (EventInput, error) {
	start, err := parseTime("start", req.Start, zone)
	if err != nil {
		return EventInput{}, err
	}
	end, err := parseTime("end", req.End, zone)
	if err != nil {
		return EventInput{}, err
	}
	rule, err := RecurrenceFrom(req.Repeat)
	if err != nil {
		return EventInput{}, err
	}
	return EventInput{
		GoalID:      req.GoalID,
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		Location:    req.Location,
		Recurrence:  rule,
	}, nil
}

// EventPatchFrom converts an update request, reading offset-less times in zone.
func EventPatchFrom(req models.UpdateEventRequest, zone *time.Location) (EventPatch, error) {
	start, err := parseTimePtr("start", req.Start, zone)
	if err != nil {
		return EventPatch{}, err
	}
	end, err := parseTimePtr("end", req.End, zone)
	if err != nil {
		return EventPatch{}, err
	}
	rule, err := RecurrenceFrom(req.Repeat)
	if err != nil {
		return EventPatch{}, err
	}
	return EventPatch{
		Title:           req.Title,
		Description:     req.Description,
		Start:           start,
		End:             end,
		Location:        req.Location,
		Recurrence:      rule,
		ClearRecurrence: req.ClearRepeat,
	}, nil
}

func ReminderInputFrom(req models.CreateReminderRequest, zone *time.Location) (ReminderInput, error) {
	fireAt, err := parseTime("fire_at", req.FireAt, zone)
	if err != nil {
		return ReminderInput{}, err
	}
	rule, err := RecurrenceFrom(req.Repeat)
	if err != nil {
		return ReminderInput{}, err
	}
	return ReminderInput{
		FireAt:     fireAt,
		Channel:    req.Channel,
		Message:    req.Message,
		Recurrence: rule,
	}, nil
}

func ReminderPatchFrom(req models.UpdateReminderRequest, zone *time.Location) (ReminderPatch, error) {
	fireAt, err := parseTimePtr("fire_at", req.FireAt, zone)
	if err != nil {
		return ReminderPatch{}, err
	}
	rule, err := RecurrenceFrom(req.Repeat)
	if err != nil {
		return ReminderPatch{}, err
	}
	return ReminderPatch{
		FireAt:          fireAt,
		Channel:         req.Channel,
		Message:         req.Message,
		Sent:            req.Sent,
		Recurrence:      rule,
		ClearRecurrence: req.ClearRepeat,
	}, nil
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", models.Invalidf("%s is required", field)
	}
	return value, nil
}

func validGoalKind(kind string) bool {
	return kind == models.GoalIndividual || kind == models.GoalCollective
}

func validChannel(channel string) bool {
	return channel == models.ChannelLocal || channel == models.ChannelPush
}
