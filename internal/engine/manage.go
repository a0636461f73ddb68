package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/store"
)

// AddEmployee registers a new employee. The name is trimmed and
// NFC-normalized and must not be empty.
func (l *Ledger) AddEmployee(ctx context.Context, actor domain.Actor, name string) (domain.Employee, error) {
	actor = actor.OrSystem()
	name = domain.NormalizeText(name)
	a := attempt{
		actor:    actor,
		category: domain.CategoryEmployee,
		action:   "add employee " + name,
	}

	var emp domain.Employee
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if name == "" {
			return NewError(ErrCodeInvalidInput, "employee name must not be empty")
		}
		var err error
		if emp, err = tx.CreateEmployee(ctx, name); err != nil {
			return err
		}
		a.action = "added employee " + emp.Name
		a.details = fmt.Sprintf("id: %d", emp.ID)
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		_, err = l.fail(ctx, a, err)
		return domain.Employee{}, err
	}

	l.logger.Debug("employee added", "employee_id", emp.ID)
	return emp, nil
}

// RemoveEmployee deletes an employee together with all of its events and
// day-offs in a single transaction, and reports how many rows went with it.
func (l *Ledger) RemoveEmployee(ctx context.Context, actor domain.Actor, id int64) (store.CascadeCounts, error) {
	actor = actor.OrSystem()
	a := attempt{
		actor:    actor,
		category: domain.CategoryEmployee,
		action:   fmt.Sprintf("remove employee %d", id),
	}

	var counts store.CascadeCounts
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		emp, err := lookupEmployee(ctx, tx, id)
		if err != nil {
			return err
		}
		if counts, err = tx.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		a.action = "removed employee " + emp.Name
		a.details = fmt.Sprintf("id: %d, events removed: %d, days off removed: %d", id, counts.Events, counts.DaysOff)
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		_, err = l.fail(ctx, a, err)
		return store.CascadeCounts{}, err
	}

	l.logger.Debug("employee removed", "employee_id", id, "events", counts.Events, "days_off", counts.DaysOff)
	return counts, nil
}

// ListEmployees returns every employee ordered by name.
func (l *Ledger) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := l.store.ListEmployees(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	return employees, nil
}

// GetEmployee returns one employee or a NOT_FOUND error.
func (l *Ledger) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	emp, err := l.store.GetEmployee(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Employee{}, NewError(ErrCodeNotFound, "employee %d not found", id)
	}
	if err != nil {
		return domain.Employee{}, Classify(err)
	}
	return emp, nil
}

// EmployeeEvents returns an employee's events on day in chronological order.
func (l *Ledger) EmployeeEvents(ctx context.Context, employeeID int64, day domain.Date) ([]domain.Event, error) {
	if _, err := l.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	events, err := l.store.EventsForDay(ctx, employeeID, day)
	if err != nil {
		return nil, Classify(err)
	}
	return events, nil
}

// AddHoliday marks day as a global holiday. Re-adding an existing holiday is
// a quiet no-op: it succeeds, returns false and writes no audit entry.
func (l *Ledger) AddHoliday(ctx context.Context, actor domain.Actor, day domain.Date) (bool, error) {
	actor = actor.OrSystem()
	a := attempt{
		actor:    actor,
		category: domain.CategoryHoliday,
		action:   "add holiday " + day.String(),
	}

	var inserted bool
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if day.IsZero() {
			return NewError(ErrCodeInvalidInput, "holiday date is required")
		}
		var err error
		if inserted, err = tx.AddHoliday(ctx, day); err != nil || !inserted {
			return err
		}
		a.action = "added holiday " + day.String()
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		_, err = l.fail(ctx, a, err)
		return false, err
	}
	return inserted, nil
}

// ListHolidays returns every holiday in ascending order. It is a
// non-critical listing: a storage failure is logged and yields an empty list.
func (l *Ledger) ListHolidays(ctx context.Context) []domain.Date {
	holidays, err := l.store.ListHolidays(ctx)
	if err != nil {
		l.logger.Warn("listing holidays failed", "error", err)
		return []domain.Date{}
	}
	return holidays
}

// SetDayOff marks day as a day-off for the employee. Setting it again
// succeeds and returns false.
func (l *Ledger) SetDayOff(ctx context.Context, actor domain.Actor, employeeID int64, day domain.Date) (bool, error) {
	actor = actor.OrSystem()
	a := attempt{
		actor:    actor,
		category: domain.CategoryDayOff,
		action:   fmt.Sprintf("set day off %s for employee %d", day, employeeID),
	}

	var inserted bool
	err := l.store.InTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		emp, err := lookupEmployee(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		if day.IsZero() {
			return NewError(ErrCodeInvalidInput, "day-off date is required")
		}
		if inserted, err = tx.SetDayOff(ctx, employeeID, day); err != nil {
			return err
		}
		a.action = fmt.Sprintf("set day off %s - %s", day, emp.Name)
		a.details = fmt.Sprintf("employee: %s (id: %d), date: %s", emp.Name, emp.ID, day)
		if !inserted {
			a.details += ", already set"
		}
		_, err = tx.AppendAudit(ctx, l.success(ctx, a))
		return err
	})
	if err != nil {
		_, err = l.fail(ctx, a, err)
		return false, err
	}
	return inserted, nil
}

// ListDaysOff returns an employee's day-offs in ascending order.
func (l *Ledger) ListDaysOff(ctx context.Context, employeeID int64) ([]domain.Date, error) {
	if _, err := l.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	days, err := l.store.DaysOff(ctx, employeeID)
	if err != nil {
		return nil, Classify(err)
	}
	return days, nil
}

// Checkpoint flushes the write-ahead log so an external backup can copy the
// database file, and records the request under the backup category.
func (l *Ledger) Checkpoint(ctx context.Context, actor domain.Actor) error {
	actor = actor.OrSystem()
	a := attempt{
		actor:    actor,
		category: domain.CategoryBackup,
		action:   "checkpoint database for backup",
	}

	if err := l.store.Checkpoint(ctx); err != nil {
		_, err = l.fail(ctx, a, err)
		return err
	}
	if _, err := l.audit.Append(ctx, l.success(ctx, a)); err != nil {
		return Classify(err)
	}
	return nil
}
