// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"time"

	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/models"
)

// Queries runs the entity queries over one session.
type Queries struct {
	s db.Session
}

func New(s db.Session) *Queries {
	return &Queries{s: s}
}

type scanner interface {
	Scan(dest ...any) error
}

func lifecycle(nt sql.NullTime) models.Lifecycle {
	if !nt.Valid {
		return models.Active()
	}
	return models.DeletedAt(nt.Time)
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// recurrenceArgs returns the repeat_frequency, repeat_interval and
// repeat_weekdays column values.
func recurrenceArgs(r *models.Recurrence) (any, any, any) {
	if r == nil {
		return nil, nil, nil
	}
	var weekdays any
	if len(r.Weekdays) > 0 {
		weekdays = r.Weekdays.CSV()
	}
	return string(r.Frequency), r.Interval, weekdays
}

type recurrenceColumns struct {
	frequency sql.NullString
	interval  sql.NullInt64
	weekdays  sql.NullString
}

func (c recurrenceColumns) recurrence() *models.Recurrence {
	if !c.frequency.Valid || c.frequency.String == "" {
		return nil
	}
	r := &models.Recurrence{
		Frequency: models.Frequency(c.frequency.String),
		Interval:  int(c.interval.Int64),
		Weekdays:  models.WeekdaySet{},
	}
	if c.weekdays.Valid {
		r.Weekdays = models.ParseWeekdayCSV(c.weekdays.String)
	}
	return r
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
