// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify stores in-app system notifications.

Only one kind exists today, EventDeleted, created when an event is deleted:

	notes, err := notify.RegisterEventDeleted(ctx, s, eventID, recipients, msg, now)

Recipients are de-duplicated. Marking a notification read is idempotent and
keeps the first read timestamp.
*/
package notify
