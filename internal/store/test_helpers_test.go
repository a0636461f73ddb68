package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

// testLoc is fixed so day boundaries in tests do not depend on the host zone.
var testLoc = time.FixedZone("BRT", -3*60*60)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithLocation(testLoc))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEmployee registers an employee and returns it.
func createTestEmployee(t *testing.T, s *Store, name string) domain.Employee {
	t.Helper()
	var emp domain.Employee
	err := s.InTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		var err error
		emp, err = tx.CreateEmployee(ctx, name)
		return err
	})
	if err != nil {
		t.Fatalf("CreateEmployee() failed: %v", err)
	}
	return emp
}

// at builds a timestamp in testLoc.
func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, testLoc)
}
