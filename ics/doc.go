// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ics exports projected event occurrences as iCalendar.

	body := ics.Build(occurrences, now)

Each occurrence becomes its own VEVENT, so clients never need to expand
repeat rules. The UID combines the event id with the occurrence start.
*/
package ics
