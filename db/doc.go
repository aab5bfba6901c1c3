// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, applies migrations and runs queries in a
dialect-neutral way.

# Dialects

Two backends are supported: PostgreSQL through lib/pq and SQLite through
modernc.org/sqlite.

	conn, err := db.Open(ctx, db.SQLite, "file:planner.db")
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

SQLite runs with a single open connection, foreign keys enforced and WAL
journaling for file databases. PostgreSQL URLs get TimeZone=UTC appended.

# Migrations

Migrate applies the embedded migrations for the connection's dialect with
golang-migrate. It is safe to call on every start.

# Sessions

Queries are written with ? placeholders and rebound to $N for PostgreSQL.
InTx runs a function inside one transaction and rolls back on error:

	err := conn.InTx(ctx, func(s db.Session) error {
		_, err := s.Exec(ctx, `UPDATE goals SET title = ? WHERE id = ?`, title, id)
		return err
	})

Code inside InTx must use the session it is given. With SQLite's single
connection, reaching for conn.Session() there blocks forever.

# Tables

  - users: accounts, unique active email
  - goals: Individual or Collective goals
  - events: scheduled items under a goal, optional repeat rule
  - reminders: alerts attached to an event
  - event_participants: one role per user per event, one Owner per event
  - recovery_log: append-only recovery audit
  - system_notifications: in-app EventDeleted notices

Every entity except participants and log rows is soft-deleted through a
nullable deleted_at column.
*/
package db
