// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recurrence

import (
	"cmp"
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/danielhkuo/planner/models"
)

// MaxIterations bounds every expansion loop.
const MaxIterations = 1000

// Monthly rules step a flat number of days per unit, not calendar months.
const daysPerMonth = 30

// Occurrence is one concrete instance of an event within a query window.
type Occurrence struct {
	EventID  int64
	Title    string
	Location string
	Start    time.Time
	End      time.Time
}

// Engine projects stored base occurrences into query windows. Occurrences
// that ended before the engine's current time are never returned.
type Engine struct {
	now func() time.Time
}

// New returns an engine reading the current time from now.
// A nil now uses time.Now.
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// ProjectOccurrences expands every event into its occurrences overlapping
// [from, to], sorted by start. Events whose start is not before their end
// are skipped.
func (e *Engine) ProjectOccurrences(events []models.Event, from, to time.Time) []Occurrence {
	if !to.After(from) {
		return nil
	}
	now := e.now()

	var out []Occurrence
	for _, ev := range events {
		if !ev.Start.Before(ev.End) {
			continue
		}
		for _, start := range expand(ev.Start, ev.End, ev.Recurrence, from, to, now) {
			out = append(out, Occurrence{
				EventID:  ev.ID,
				Title:    ev.Title,
				Location: ev.Location,
				Start:    start,
				End:      start.Add(ev.End.Sub(ev.Start)),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.EventID, b.EventID)
	})
	return out
}

// NextOccurrences returns the reminder's fire times within [from, to] that
// are not before the current time, ascending.
func (e *Engine) NextOccurrences(r models.Reminder, from, to time.Time) []time.Time {
	if !to.After(from) {
		return nil
	}
	out := expand(r.FireAt, r.FireAt, r.Recurrence, from, to, e.now())
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// NextAfter returns the first occurrence of the series starting at base that
// is at or after t.
func NextAfter(base time.Time, rule *models.Recurrence, t time.Time) (time.Time, bool) {
	base = base.UTC()
	whole, frac := splitSecond(base)
	r := buildRule(whole, rule)
	if r == nil {
		if base.Before(t) {
			return time.Time{}, false
		}
		return base, true
	}
	next := r.After(t.UTC().Add(-frac), true)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next.UTC().Add(frac), true
}

// splitSecond separates t into whole seconds and the fraction rrule drops.
func splitSecond(t time.Time) (time.Time, time.Duration) {
	whole := t.Truncate(time.Second)
	return whole, t.Sub(whole)
}

// expand returns occurrence start times of the series whose window
// [start, start+duration] overlaps [from, to] and ends at or after now.
func expand(start, end time.Time, rule *models.Recurrence, from, to, now time.Time) []time.Time {
	start, end = start.UTC(), end.UTC()
	duration := end.Sub(start)

	keep := func(s time.Time) bool {
		e := s.Add(duration)
		return overlaps(s, e, from, to) && !e.Before(now)
	}

	whole, frac := splitSecond(start)
	r := buildRule(whole, rule)
	if r == nil {
		if keep(start) {
			return []time.Time{start}
		}
		return nil
	}

	var out []time.Time
	for _, s := range r.Between(from.UTC().Add(-duration-frac), to.UTC(), true) {
		s = s.UTC().Add(frac)
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// buildRule maps the repeat rule onto an RRULE anchored at base. It returns
// nil for non-repeating or invalid rules.
func buildRule(base time.Time, rule *models.Recurrence) *rrule.RRule {
	if rule == nil || rule.Validate() != nil {
		return nil
	}

	opt := rrule.ROption{
		Dtstart:  base,
		Interval: rule.Interval,
		Count:    MaxIterations,
	}

	switch rule.Frequency {
	case models.FrequencyDaily:
		opt.Freq = rrule.DAILY
	case models.FrequencyMonthly:
		opt.Freq = rrule.DAILY
		opt.Interval = rule.Interval * daysPerMonth
	case models.FrequencyWeekly:
		days := weekdays(rule.Weekdays, base)
		opt.Freq = rrule.WEEKLY
		opt.Wkst = rrule.MO
		opt.Byweekday = days
		opt.Dtstart = mondayOf(base)
		opt.Count = MaxIterations * len(days)
	default:
		return nil
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}
	return r
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// weekdays resolves the target days, defaulting to the base's own weekday.
func weekdays(set models.WeekdaySet, base time.Time) []rrule.Weekday {
	var out []rrule.Weekday
	for _, token := range set {
		if d, ok := models.ParseWeekday(token); ok {
			out = append(out, rruleWeekdays[d])
		}
	}
	if len(out) == 0 {
		out = append(out, rruleWeekdays[base.Weekday()])
	}
	return out
}

// mondayOf returns the Monday of t's week at t's time of day.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect,
// bounds included.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
