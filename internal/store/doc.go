// Package store provides SQLite-backed durable storage for the attendance ledger.
//
// Tables:
//   - employees: registered employees (parent of events and days_off)
//   - events: clock events, UNIQUE(employee_id, kind, day)
//   - holidays: global holiday dates, UNIQUE(day)
//   - days_off: per-employee exceptions, UNIQUE(employee_id, day)
//   - audit_log: append-only record of every attempted mutation
//
// # Duplicate Guard
//
// Event inserts use INSERT ... ON CONFLICT(employee_id, kind, day) DO NOTHING
// and report ErrDuplicate when no row was written. The unique index is the
// storage-level guarantee; there is no separate existence check before the
// insert, so no window exists between check and write.
//
// # Time
//
// Timestamps are stored as text in the store's location. The day column is
// the timestamp's calendar date in that location and is what all per-day
// rules key on.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks up to the configured bound (default 10s)
//   - foreign_keys=ON: Enforce referential integrity and ON DELETE CASCADE
//   - _txlock=immediate: Write transactions take the lock at BEGIN
//
// Schema changes are goose migrations embedded from migrations/.
package store
