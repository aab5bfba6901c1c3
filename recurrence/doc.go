// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recurrence expands repeating events and reminders into concrete
occurrences inside a query window.

# Rules

	Daily    every Interval days from the base
	Weekly   every Interval weeks, on each listed weekday (default: the
	         base's weekday), anchored to the Monday of the base's week
	Monthly  every 30*Interval days (not calendar months)

Rules are evaluated with rrule-go. Each series is capped at MaxIterations
steps.

# Filtering

An occurrence is returned when its [start, end] overlaps [from, to] with
bounds included and it has not ended before the engine's current time.
Windows where to is not after from return nothing.

	engine := recurrence.New(clock)
	occ := engine.ProjectOccurrences(events, from, to)
*/
package recurrence
