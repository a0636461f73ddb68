package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ponto/internal/domain"
)

func TestCreateAndGetEmployee(t *testing.T) {
	s := createTestStore(t)
	emp := createTestEmployee(t, s, "Bruno")

	got, err := s.GetEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp, got)
}

func TestGetEmployee_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetEmployee(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListEmployees_OrderedByName(t *testing.T) {
	s := createTestStore(t)
	createTestEmployee(t, s, "carla")
	createTestEmployee(t, s, "Ana")
	createTestEmployee(t, s, "Bruno")

	employees, err := s.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "Ana", employees[0].Name)
	assert.Equal(t, "Bruno", employees[1].Name)
	assert.Equal(t, "carla", employees[2].Name)
}

func TestDeleteEmployee_CascadesInOneTransaction(t *testing.T) {
	s := createTestStore(t)
	emp := createTestEmployee(t, s, "Ana")
	other := createTestEmployee(t, s, "Bruno")
	insertEvent(t, s, emp, domain.KindEntrada, 8, 0)
	insertEvent(t, s, emp, domain.KindSaida, 17, 0)
	insertEvent(t, s, other, domain.KindEntrada, 8, 0)

	err := s.InTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		_, err := tx.SetDayOff(ctx, emp.ID, domain.NewDate(2026, 3, 6))
		return err
	})
	require.NoError(t, err)

	var counts CascadeCounts
	err = s.InTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		var err error
		counts, err = tx.DeleteEmployee(ctx, emp.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, CascadeCounts{Events: 2, DaysOff: 1}, counts)

	_, err = s.GetEmployee(context.Background(), emp.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	remaining, err := s.EventsForDay(context.Background(), other.ID, domain.NewDate(2026, 3, 2))
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other employees' events are untouched")
}

func TestDeleteEmployee_UnknownRollsBack(t *testing.T) {
	s := createTestStore(t)

	err := s.InTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		_, err := tx.DeleteEmployee(ctx, 77)
		return err
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}
