// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timezone

import (
	"context"
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

var ErrInvalidTime = errors.New("invalid datetime")

// Layouts accepted for values without an offset.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Load resolves an IANA zone name. Blank or unknown names report false.
func Load(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// UserZones looks up a user's stored zone name.
type UserZones interface {
	UserTimezone(ctx context.Context, userID int64) (string, error)
}

// Normalizer converts between user zones and UTC at the API boundary.
type Normalizer struct {
	users UserZones
}

func NewNormalizer(users UserZones) *Normalizer {
	return &Normalizer{users: users}
}

// ResolveZone returns the explicit zone when valid, else the user's stored
// zone when valid, else UTC.
func (n *Normalizer) ResolveZone(ctx context.Context, explicit string, userID int64) *time.Location {
	if loc, ok := Load(explicit); ok {
		return loc
	}
	if n.users != nil && userID != 0 {
		if name, err := n.users.UserTimezone(ctx, userID); err == nil {
			if loc, ok := Load(name); ok {
				return loc
			}
		}
	}
	return time.UTC
}

// ToUTC parses an ISO-8601 value. Values carrying an offset are converted
// directly. Values without one are read in inputZone, else fallbackZone,
// else UTC.
func ToUTC(value string, inputZone, fallbackZone *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTime
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	loc := inputZone
	if loc == nil {
		loc = fallbackZone
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// ToZonedISO formats a stored UTC instant in zone as RFC 3339 with offset.
// A nil zone formats in UTC.
func ToZonedISO(t time.Time, zone *time.Location) string {
	if zone == nil {
		zone = time.UTC
	}
	return t.UTC().In(zone).Format(time.RFC3339)
}

// ToZonedISOPtr is ToZonedISO for nullable timestamps.
func ToZonedISOPtr(t *time.Time, zone *time.Location) *string {
	if t == nil {
		return nil
	}
	s := ToZonedISO(*t, zone)
	return &s
}
