// Package engine implements the attendance ledger: the daily sequence
// validator, the event recorder and the administrative adjuster.
//
// The engine is the only writer of events. It reads a day's state, decides,
// writes the change and its audit entry, all inside one SQLite transaction
// opened with BEGIN IMMEDIATE.
//
// Event Processing Flow:
// 1. Caller passes the actor, employee id, kind and an optional timestamp
// 2. Ledger opens a write transaction (the store holds one connection)
// 3. Preconditions are checked: employee, kind, justification
// 4. Record only: kinds already stored for the event's day go through Validate
// 5. Conditional insert (or update) on the (employee, kind, day) key
// 6. Success audit entry is appended in the same transaction, then commit
// 7. On any failure the transaction rolls back and a falha entry is written
//
// CRITICAL PATTERNS:
//
// Calendar Day Isolation
// Sequencing and uniqueness are scoped to the day of the event's own
// timestamp in the store's location, never to the wall-clock "today".
//
// Explicit Actor
// Every mutating call takes a domain.Actor. There is no ambient current user.
//
// One Audit Entry Per Attempt
// Record, Adjust and Remove produce exactly one audit entry per call,
// success or failure.
package engine
