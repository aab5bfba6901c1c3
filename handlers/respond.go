// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/models"
	"github.com/danielhkuo/planner/recurrence"
	"github.com/danielhkuo/planner/services"
	"github.com/danielhkuo/planner/timezone"
)

// upcomingWindow is the default span of agenda queries.
const upcomingWindow = 7 * 24 * time.Hour

// base holds what every handler needs.
type base struct {
	svc   *services.Service
	cfg   cliparse.Config
	zones *timezone.Normalizer
}

func newBase(svc *services.Service, cfg cliparse.Config) base {
	return base{svc: svc, cfg: cfg, zones: timezone.NewNormalizer(svc)}
}

// actor returns the authenticated user id, or 0 on routes without auth.
func actor(r *http.Request) int64 {
	id, _ := middleware.UserID(r.Context())
	return id
}

// outputZone is the zone responses are rendered in: ?tz=, else the user's
// zone, else UTC.
func (b base) outputZone(r *http.Request) *time.Location {
	return b.zones.ResolveZone(r.Context(), r.URL.Query().Get("tz"), actor(r))
}

// inputZone is the zone offset-less inputs are read in: ?input_tz=, else
// the user's zone, else UTC.
func (b base) inputZone(r *http.Request) *time.Location {
	return b.zones.ResolveZone(r.Context(), r.URL.Query().Get("input_tz"), actor(r))
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Invalidf("%s must be a positive integer", name)
	}
	return id, nil
}

// queryInt64 parses an optional integer query parameter. Missing is 0.
func queryInt64(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, models.Invalidf("%s must be a non-negative integer", name)
	}
	return id, nil
}

// queryTime parses an optional time query parameter in zone.
func queryTime(r *http.Request, name string, zone *time.Location) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := timezone.ToUTC(v, zone, nil)
	if err != nil {
		return nil, models.Invalidf("%s: %v", name, err)
	}
	return &t, nil
}

// timeRange reads ?from= and ?to= as a deletion-time filter.
func (b base) timeRange(r *http.Request) (services.TimeRange, error) {
	zone := b.inputZone(r)
	from, err := queryTime(r, "from", zone)
	if err != nil {
		return services.TimeRange{}, err
	}
	to, err := queryTime(r, "to", zone)
	if err != nil {
		return services.TimeRange{}, err
	}
	return services.TimeRange{From: from, To: to}, nil
}

// window reads ?from= and ?to= for agenda queries, defaulting to the next
// seven days.
func (b base) window(r *http.Request) (time.Time, time.Time, error) {
	tr, err := b.timeRange(r)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := b.svc.Now()
	if tr.From != nil {
		from = *tr.From
	}
	to := from.Add(upcomingWindow)
	if tr.To != nil {
		to = *tr.To
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, models.Invalidf("to must be after from")
	}
	return from, to, nil
}

// parseBody decodes a required JSON body, writing 400 on failure.
func parseBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// recoverDetail reads the optional recovery note.
func recoverDetail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.RecoverRequest
	err := middleware.ParseJSONBody(r, &req)
	if err != nil && !errors.Is(err, middleware.ErrEmptyBody) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return "", false
	}
	return req.Detail, true
}

// writeServiceError maps a service error to its HTTP status. Unexpected
// errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalid):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case models.IsPermissionDenied(err):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case models.IsRuleViolation(err):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// Response mappers

func repeatResponse(rule *models.Recurrence) *models.RepeatResponse {
	if rule == nil {
		return nil
	}
	days := []string(rule.Weekdays)
	if days == nil {
		days = []string{}
	}
	return &models.RepeatResponse{
		Frequency: string(rule.Frequency),
		Interval:  rule.Interval,
		Weekdays:  days,
	}
}

func userResponse(u *models.User, zone *time.Location) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Timezone:  u.Timezone,
		CreatedAt: timezone.ToZonedISO(u.CreatedAt, zone),
	}
}

func goalResponse(g *models.Goal, zone *time.Location) models.GoalResponse {
	return models.GoalResponse{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Title:       g.Title,
		Description: g.Description,
		Kind:        g.Kind,
		CreatedAt:   timezone.ToZonedISO(g.CreatedAt, zone),
		UpdatedAt:   timezone.ToZonedISO(g.UpdatedAt, zone),
		DeletedAt:   timezone.ToZonedISOPtr(g.State.At(), zone),
	}
}

func goalResponses(goals []models.Goal, zone *time.Location) []models.GoalResponse {
	out := make([]models.GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, goalResponse(&goals[i], zone))
	}
	return out
}

func eventResponse(ev *models.Event, zone *time.Location) models.EventResponse {
	return models.EventResponse{
		ID:          ev.ID,
		GoalID:      ev.GoalID,
		OwnerID:     ev.OwnerID,
		Title:       ev.Title,
		Description: ev.Description,
		Start:       timezone.ToZonedISO(ev.Start, zone),
		End:         timezone.ToZonedISO(ev.End, zone),
		Location:    ev.Location,
		Repeat:      repeatResponse(ev.Recurrence),
		CreatedAt:   timezone.ToZonedISO(ev.CreatedAt, zone),
		UpdatedAt:   timezone.ToZonedISO(ev.UpdatedAt, zone),
		DeletedAt:   timezone.ToZonedISOPtr(ev.State.At(), zone),
	}
}

func eventResponses(events []models.Event, zone *time.Location) []models.EventResponse {
	out := make([]models.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, eventResponse(&events[i], zone))
	}
	return out
}

func reminderResponse(rem *models.Reminder, zone *time.Location) models.ReminderResponse {
	return models.ReminderResponse{
		ID:        rem.ID,
		EventID:   rem.EventID,
		FireAt:    timezone.ToZonedISO(rem.FireAt, zone),
		Channel:   rem.Channel,
		Message:   rem.Message,
		Repeat:    repeatResponse(rem.Recurrence),
		Sent:      rem.Sent,
		CreatedAt: timezone.ToZonedISO(rem.CreatedAt, zone),
		DeletedAt: timezone.ToZonedISOPtr(rem.State.At(), zone),
	}
}

func reminderResponses(reminders []models.Reminder, zone *time.Location) []models.ReminderResponse {
	out := make([]models.ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, reminderResponse(&reminders[i], zone))
	}
	return out
}

func participantResponse(p *models.Participant, zone *time.Location) models.ParticipantResponse {
	return models.ParticipantResponse{
		ID:        p.ID,
		EventID:   p.EventID,
		UserID:    p.UserID,
		Role:      string(p.Role),
		CreatedAt: timezone.ToZonedISO(p.CreatedAt, zone),
	}
}

func occurrenceResponses(occ []recurrence.Occurrence, zone *time.Location) []models.OccurrenceResponse {
	out := make([]models.OccurrenceResponse, 0, len(occ))
	for _, o := range occ {
		out = append(out, models.OccurrenceResponse{
			EventID:  o.EventID,
			Title:    o.Title,
			Start:    timezone.ToZonedISO(o.Start, zone),
			End:      timezone.ToZonedISO(o.End, zone),
			Location: o.Location,
		})
	}
	return out
}

func notificationResponse(n *models.Notification, zone *time.Location) models.NotificationResponse {
	return models.NotificationResponse{
		ID:          n.ID,
		Kind:        n.Kind,
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
		CreatedAt:   timezone.ToZonedISO(n.CreatedAt, zone),
		ReadAt:      timezone.ToZonedISOPtr(n.ReadAt, zone),
	}
}

func auditResponse(e *models.AuditEntry, zone *time.Location) models.AuditEntryResponse {
	return models.AuditEntryResponse{
		ID:         e.ID,
		EntityKind: string(e.EntityKind),
		EntityID:   e.EntityID,
		UserID:     e.UserID,
		Detail:     e.Detail,
		RecordedAt: timezone.ToZonedISO(e.RecordedAt, zone),
	}
}
