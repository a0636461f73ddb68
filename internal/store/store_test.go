package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	err = s2.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"employees", "events", "holidays", "days_off", "audit_log"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	path := "/nonexistent/dir/test.db"

	_, err := Open(path)
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer s.Close()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

func TestLocation_DefaultsToLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if s.Location() != time.Local {
		t.Errorf("Location() = %v, want time.Local", s.Location())
	}
}

// Pragma tests

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t)

	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)

	if err := s.verifyPragma("busy_timeout", "10000"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeoutOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithBusyTimeout(2500*time.Millisecond))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if err := s.verifyPragma("busy_timeout", "2500"); err != nil {
		t.Error(err)
	}
}

func TestPragma_ForeignKeys(t *testing.T) {
	s := createTestStore(t)

	// ON = 1
	if err := s.verifyPragma("foreign_keys", "1"); err != nil {
		t.Error(err)
	}
}

// Schema tests

func TestSchema_EventsTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "events")
	for _, col := range []string{"id", "employee_id", "kind", "ts", "day"} {
		if !contains(columns, col) {
			t.Errorf("events table missing column %q", col)
		}
	}
}

func TestSchema_AuditLogTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "audit_log")
	for _, col := range []string{"id", "ts", "actor", "action", "category", "details", "source", "status"} {
		if !contains(columns, col) {
			t.Errorf("audit_log table missing column %q", col)
		}
	}
}

func TestSchema_Indexes(t *testing.T) {
	s := createTestStore(t)

	if !contains(getTableIndexes(t, s.db, "events"), "idx_events_employee_day") {
		t.Error("events table missing index idx_events_employee_day")
	}
	auditIndexes := getTableIndexes(t, s.db, "audit_log")
	for _, idx := range []string{"idx_audit_log_ts", "idx_audit_log_category"} {
		if !contains(auditIndexes, idx) {
			t.Errorf("audit_log table missing index %q", idx)
		}
	}
}

func TestMigration_GooseVersionRecorded(t *testing.T) {
	s := createTestStore(t)

	var version int64
	err := s.db.QueryRow("SELECT MAX(version_id) FROM goose_db_version").Scan(&version)
	if err != nil {
		t.Fatalf("failed to read goose version: %v", err)
	}
	if version != 1 {
		t.Errorf("goose version = %d, want 1", version)
	}
}

// Constraint tests

func TestConstraint_EventsUniquePerKindAndDay(t *testing.T) {
	s := createTestStore(t)
	emp := createTestEmployee(t, s, "Ana")

	insert := `INSERT INTO events (employee_id, kind, ts, day) VALUES (?, 'entrada', ?, '2026-03-02')`
	if _, err := s.db.Exec(insert, emp.ID, "2026-03-02T08:00:00"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := s.db.Exec(insert, emp.ID, "2026-03-02T09:00:00")
	if err == nil {
		t.Fatal("expected UNIQUE violation for second entrada on same day")
	}
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestConstraint_EventKindCheck(t *testing.T) {
	s := createTestStore(t)
	emp := createTestEmployee(t, s, "Ana")

	_, err := s.db.Exec(
		`INSERT INTO events (employee_id, kind, ts, day) VALUES (?, 'lunch', '2026-03-02T12:00:00', '2026-03-02')`,
		emp.ID,
	)
	if err == nil {
		t.Error("expected CHECK violation for unknown kind")
	}
}

func TestConstraint_EventForeignKey(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(
		`INSERT INTO events (employee_id, kind, ts, day) VALUES (999, 'entrada', '2026-03-02T08:00:00', '2026-03-02')`,
	)
	if err == nil {
		t.Error("expected foreign key violation for unknown employee")
	}
}

func TestConstraint_AuditLogAppendOnly(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO audit_log (ts, actor, action, category, status)
		VALUES ('2026-03-02T08:00:00.000000', 'admin', 'test', 'evento', 'sucesso')
	`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := s.db.Exec(`UPDATE audit_log SET actor = 'mallory'`); err == nil {
		t.Error("expected UPDATE on audit_log to be rejected")
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
