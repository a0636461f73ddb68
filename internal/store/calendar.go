package store

import (
	"context"
	"fmt"

	"github.com/roach88/ponto/internal/domain"
)

// AddHoliday records a global holiday. Adding a date that is already a
// holiday is not an error; inserted reports whether a row was written.
func (t *Tx) AddHoliday(ctx context.Context, day domain.Date) (inserted bool, err error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO holidays (day) VALUES (?)
		ON CONFLICT(day) DO NOTHING
	`, day.String())
	if err != nil {
		return false, fmt.Errorf("add holiday: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add holiday: rows affected: %w", err)
	}
	return n > 0, nil
}

// SetDayOff marks a day-off for an employee. Setting an existing day-off
// again is not an error; inserted reports whether a row was written.
func (t *Tx) SetDayOff(ctx context.Context, employeeID int64, day domain.Date) (inserted bool, err error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO days_off (employee_id, day) VALUES (?, ?)
		ON CONFLICT(employee_id, day) DO NOTHING
	`, employeeID, day.String())
	if err != nil {
		return false, fmt.Errorf("set day off: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set day off: rows affected: %w", err)
	}
	return n > 0, nil
}

// ListHolidays returns every holiday in ascending order.
func (s *Store) ListHolidays(ctx context.Context) ([]domain.Date, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return queryDates(ctx, s.db, `SELECT day FROM holidays ORDER BY day ASC`)
}

// HolidaysBetween returns holidays within [from, to] in ascending order.
func (s *Store) HolidaysBetween(ctx context.Context, from, to domain.Date) ([]domain.Date, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return queryDates(ctx, s.db, `
		SELECT day FROM holidays
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, from.String(), to.String())
}

// DaysOff returns every day-off of an employee in ascending order.
func (s *Store) DaysOff(ctx context.Context, employeeID int64) ([]domain.Date, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return queryDates(ctx, s.db, `
		SELECT day FROM days_off
		WHERE employee_id = ?
		ORDER BY day ASC
	`, employeeID)
}

// DaysOffBetween returns an employee's day-offs within [from, to].
func (s *Store) DaysOffBetween(ctx context.Context, employeeID int64, from, to domain.Date) ([]domain.Date, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return queryDates(ctx, s.db, `
		SELECT day FROM days_off
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`, employeeID, from.String(), to.String())
}

func queryDates(ctx context.Context, q querier, query string, args ...any) ([]domain.Date, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	dates := []domain.Date{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dates: %w", err)
	}
	return dates, nil
}
