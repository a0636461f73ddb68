package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ponto/internal/domain"
)

// CascadeCounts reports how many dependent rows an employee removal deleted.
type CascadeCounts struct {
	Events  int64 `json:"events"`
	DaysOff int64 `json:"days_off"`
}

// GetEmployee retrieves a single employee by ID.
// Returns ErrNotFound if no such employee exists.
func (s *Store) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return getEmployee(ctx, s.db, id)
}

// ListEmployees returns all employees ordered by name, then ID.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM employees
		ORDER BY name COLLATE NOCASE ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

// GetEmployee retrieves an employee inside the transaction.
func (t *Tx) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	return getEmployee(ctx, t.tx, id)
}

// CreateEmployee inserts a new employee and returns it with its generated ID.
// The name must already be normalized by the caller.
func (t *Tx) CreateEmployee(ctx context.Context, name string) (domain.Employee, error) {
	result, err := t.tx.ExecContext(ctx, `INSERT INTO employees (name) VALUES (?)`, name)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: last insert id: %w", err)
	}
	return domain.Employee{ID: id, Name: name}, nil
}

// DeleteEmployee removes an employee together with its events and day-offs.
// All three deletes run in the caller's transaction, so a failure part-way
// leaves nothing removed.
func (t *Tx) DeleteEmployee(ctx context.Context, id int64) (CascadeCounts, error) {
	var counts CascadeCounts

	result, err := t.tx.ExecContext(ctx, `DELETE FROM events WHERE employee_id = ?`, id)
	if err != nil {
		return counts, fmt.Errorf("delete employee events: %w", err)
	}
	if counts.Events, err = result.RowsAffected(); err != nil {
		return counts, fmt.Errorf("delete employee events: rows affected: %w", err)
	}

	result, err = t.tx.ExecContext(ctx, `DELETE FROM days_off WHERE employee_id = ?`, id)
	if err != nil {
		return counts, fmt.Errorf("delete employee days off: %w", err)
	}
	if counts.DaysOff, err = result.RowsAffected(); err != nil {
		return counts, fmt.Errorf("delete employee days off: rows affected: %w", err)
	}

	result, err = t.tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return counts, fmt.Errorf("delete employee: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return counts, fmt.Errorf("delete employee: rows affected: %w", err)
	}
	if n == 0 {
		return counts, fmt.Errorf("delete employee %d: %w", id, ErrNotFound)
	}
	return counts, nil
}

func getEmployee(ctx context.Context, q querier, id int64) (domain.Employee, error) {
	var e domain.Employee
	err := q.QueryRowContext(ctx, `SELECT id, name FROM employees WHERE id = ?`, id).Scan(&e.ID, &e.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, fmt.Errorf("employee %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}
