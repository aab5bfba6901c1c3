// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/danielhkuo/planner/recurrence"
)

// ProductID identifies the planner in exported calendars.
const ProductID = "-//danielhkuo//planner//EN"

// UID returns a stable identifier for one occurrence of an event.
func UID(o recurrence.Occurrence) string {
	return fmt.Sprintf("event-%d-%d@planner", o.EventID, o.Start.UTC().Unix())
}

// Build renders projected occurrences as an iCalendar document with one
// VEVENT per occurrence. Times are written in UTC.
func Build(occurrences []recurrence.Occurrence, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	stamp = stamp.UTC()
	for _, o := range occurrences {
		ev := cal.AddEvent(UID(o))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(o.Start.UTC())
		ev.SetEndAt(o.End.UTC())
		ev.SetSummary(o.Title)
		if o.Location != "" {
			ev.SetLocation(o.Location)
		}
	}
	return cal.Serialize()
}
