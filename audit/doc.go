// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package audit appends and lists recovery log entries. The log is
// append-only: entries are never updated or removed.
package audit
