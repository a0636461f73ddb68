package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

// eventLayout is the persisted form of event timestamps, always in UTC. The
// day column holds the calendar day in the store's location.
const eventLayout = "2006-01-02T15:04:05"

// EventsForDay returns an employee's events on one calendar day,
// ordered chronologically (ties broken by ID).
func (s *Store) EventsForDay(ctx context.Context, employeeID int64, day domain.Date) ([]domain.Event, error) {
	return s.EventsBetween(ctx, employeeID, day, day)
}

// EventsBetween returns an employee's events whose day falls within
// [from, to], ordered chronologically (ties broken by ID).
// Returns an empty slice (not nil) if there are none.
func (s *Store) EventsBetween(ctx context.Context, employeeID int64, from, to domain.Date) ([]domain.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, kind, ts
		FROM events
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY ts ASC, id ASC
	`, employeeID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows, s.loc)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves a single event by ID.
// Returns ErrNotFound if not found.
func (s *Store) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return getEvent(ctx, s.db, s.loc, id)
}

// GetEvent retrieves a single event inside the transaction.
func (t *Tx) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	return getEvent(ctx, t.tx, t.loc, id)
}

// EventKindsForDay returns the kinds already recorded for an employee on a day.
func (t *Tx) EventKindsForDay(ctx context.Context, employeeID int64, day domain.Date) ([]domain.EventKind, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT kind FROM events
		WHERE employee_id = ? AND day = ?
		ORDER BY ts ASC, id ASC
	`, employeeID, day.String())
	if err != nil {
		return nil, fmt.Errorf("query event kinds: %w", err)
	}
	defer rows.Close()

	kinds := []domain.EventKind{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("scan event kind: %w", err)
		}
		kinds = append(kinds, domain.EventKind(kind))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event kinds: %w", err)
	}
	return kinds, nil
}

// InsertEvent writes a new event unless one of the same kind already exists
// for that employee and day. Uses ON CONFLICT(employee_id, kind, day) DO NOTHING
// and returns ErrDuplicate when the conflict suppressed the insert.
func (t *Tx) InsertEvent(ctx context.Context, employeeID int64, kind domain.EventKind, ts time.Time) (domain.Event, error) {
	stamp, day := formatEventTime(ts, t.loc)

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO events (employee_id, kind, ts, day)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, kind, day) DO NOTHING
	`, employeeID, string(kind), stamp, day)
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert event: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.Event{}, fmt.Errorf("insert event %s on %s: %w", kind, day, ErrDuplicate)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Event{}, fmt.Errorf("insert event: last insert id: %w", err)
	}

	return domain.Event{
		ID:         id,
		EmployeeID: employeeID,
		Kind:       kind,
		Timestamp:  parseEventTime(stamp, t.loc),
	}, nil
}

// FindEvent returns the event of the given kind for an employee on a day.
// Returns ErrNotFound if there is none.
func (t *Tx) FindEvent(ctx context.Context, employeeID int64, kind domain.EventKind, day domain.Date) (domain.Event, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, employee_id, kind, ts
		FROM events
		WHERE employee_id = ? AND kind = ? AND day = ?
	`, employeeID, string(kind), day.String())

	e, err := scanEvent(row, t.loc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s on %s: %w", kind, day, ErrNotFound)
	}
	return e, err
}

// UpdateEventTimestamp overwrites an event's timestamp. The day column is
// recomputed; moving an event onto a day that already holds its kind fails
// with ErrDuplicate.
func (t *Tx) UpdateEventTimestamp(ctx context.Context, id int64, ts time.Time) (domain.Event, error) {
	stamp, day := formatEventTime(ts, t.loc)

	result, err := t.tx.ExecContext(ctx, `UPDATE events SET ts = ?, day = ? WHERE id = ?`, stamp, day, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Event{}, fmt.Errorf("update event %d: %w", id, ErrDuplicate)
		}
		return domain.Event{}, fmt.Errorf("update event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event: rows affected: %w", err)
	}
	if n == 0 {
		return domain.Event{}, fmt.Errorf("update event %d: %w", id, ErrNotFound)
	}
	return getEvent(ctx, t.tx, t.loc, id)
}

// DeleteEvent removes an event by ID.
// Returns ErrNotFound if no row was deleted.
func (t *Tx) DeleteEvent(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete event %d: %w", id, ErrNotFound)
	}
	return nil
}

func getEvent(ctx context.Context, q querier, loc *time.Location, id int64) (domain.Event, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, employee_id, kind, ts
		FROM events
		WHERE id = ?
	`, id)

	e, err := scanEvent(row, loc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return e, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, loc *time.Location) (domain.Event, error) {
	var (
		e     domain.Event
		kind  string
		stamp string
	)
	if err := row.Scan(&e.ID, &e.EmployeeID, &kind, &stamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, err
		}
		return domain.Event{}, fmt.Errorf("scan event: %w", err)
	}
	ts, err := time.ParseInLocation(eventLayout, stamp, time.UTC)
	if err != nil {
		return domain.Event{}, fmt.Errorf("scan event %d: bad timestamp %q: %w", e.ID, stamp, err)
	}
	e.Kind = domain.EventKind(kind)
	e.Timestamp = ts.In(loc)
	return e, nil
}

// formatEventTime returns the persisted UTC timestamp of ts and its calendar
// day in the store's location.
func formatEventTime(ts time.Time, loc *time.Location) (stamp, day string) {
	return utcStamp(ts, eventLayout), domain.DateOf(ts.In(loc)).String()
}

func parseEventTime(stamp string, loc *time.Location) time.Time {
	ts, _ := time.ParseInLocation(eventLayout, stamp, time.UTC)
	return ts.In(loc)
}
