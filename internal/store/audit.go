package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

// auditLayout is fixed-width and always written in UTC, so text comparison
// orders like time even across DST changes in the store's zone.
const auditLayout = "2006-01-02T15:04:05.000000"

// DefaultAuditLimit caps audit queries that do not set a limit.
const DefaultAuditLimit = 100

// AppendAudit writes one audit entry outside any other transaction.
func (s *Store) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return appendAudit(ctx, s.db, s.loc, entry)
}

// AppendAudit writes one audit entry as part of the transaction, so it
// commits or rolls back together with the mutation it describes.
func (t *Tx) AppendAudit(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	return appendAudit(ctx, t.tx, t.loc, entry)
}

// QueryAudit returns entries matching filter, newest first.
// From and To compare against the entry's calendar day in the store's zone
// and are inclusive.
func (s *Store) QueryAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	where, args := auditWhere(filter.From, filter.To, s.loc)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Actor != "" {
		where = append(where, "actor = ?")
		args = append(args, string(filter.Actor))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	args = append(args, limit)

	query := `SELECT id, ts, actor, action, category, details, source, status FROM audit_log` +
		whereClause(where) +
		` ORDER BY ts DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		entry, err := s.scanAudit(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}

// SummarizeAudit counts entries per category and status within the
// optional [from, to] day range. Categories with no entries are absent.
func (s *Store) SummarizeAudit(ctx context.Context, from, to domain.Date) (map[domain.Category]domain.Outcome, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	where, args := auditWhere(from, to, s.loc)
	query := `SELECT category, status, COUNT(*) FROM audit_log` +
		whereClause(where) +
		` GROUP BY category, status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize audit log: %w", err)
	}
	defer rows.Close()

	summary := map[domain.Category]domain.Outcome{}
	for rows.Next() {
		var (
			category, status string
			count            int64
		)
		if err := rows.Scan(&category, &status, &count); err != nil {
			return nil, fmt.Errorf("scan audit summary: %w", err)
		}
		outcome := summary[domain.Category(category)]
		switch domain.Status(status) {
		case domain.StatusSuccess:
			outcome.Success += count
		case domain.StatusFailure:
			outcome.Failure += count
		}
		summary[domain.Category(category)] = outcome
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit summary: %w", err)
	}
	return summary, nil
}

// PurgeAuditBefore deletes entries strictly older than cutoff and returns
// how many were removed. An entry stamped exactly at cutoff is kept.
func (s *Store) PurgeAuditBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM audit_log WHERE ts < ?`, utcStamp(cutoff, auditLayout))
	if err != nil {
		return 0, fmt.Errorf("purge audit log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit log: rows affected: %w", err)
	}
	return n, nil
}

// CountAudit returns the total number of audit entries.
func (s *Store) CountAudit(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit log: %w", err)
	}
	return n, nil
}

func appendAudit(ctx context.Context, q querier, loc *time.Location, entry domain.AuditEntry) (domain.AuditEntry, error) {
	if entry.Status == "" {
		entry.Status = domain.StatusSuccess
	}
	entry.Timestamp = entry.Timestamp.In(loc).Truncate(time.Microsecond)

	result, err := q.ExecContext(ctx, `
		INSERT INTO audit_log (ts, actor, action, category, details, source, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		utcStamp(entry.Timestamp, auditLayout),
		string(entry.Actor),
		entry.Action,
		string(entry.Category),
		nullString(entry.Details),
		nullString(entry.Source),
		string(entry.Status),
	)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("append audit entry: %w", err)
	}
	if entry.ID, err = result.LastInsertId(); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("append audit entry: last insert id: %w", err)
	}
	return entry, nil
}

func (s *Store) scanAudit(rows *sql.Rows) (domain.AuditEntry, error) {
	var (
		e                      domain.AuditEntry
		stamp, actor, category string
		status                 string
		details, source        sql.NullString
	)
	if err := rows.Scan(&e.ID, &stamp, &actor, &e.Action, &category, &details, &source, &status); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("scan audit entry: %w", err)
	}
	ts, err := time.ParseInLocation(auditLayout, stamp, time.UTC)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("scan audit entry %d: bad timestamp %q: %w", e.ID, stamp, err)
	}
	e.Timestamp = ts.In(s.loc)
	e.Actor = domain.Actor(actor)
	e.Category = domain.Category(category)
	e.Status = domain.Status(status)
	e.Details = details.String
	e.Source = source.String
	return e, nil
}

// auditWhere turns an inclusive day range in loc into a half-open UTC range
// [midnight of from, midnight after to).
func auditWhere(from, to domain.Date, loc *time.Location) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "ts >= ?")
		args = append(args, utcStamp(from.In(loc), auditLayout))
	}
	if !to.IsZero() {
		where = append(where, "ts < ?")
		args = append(args, utcStamp(to.AddDays(1).In(loc), auditLayout))
	}
	return where, args
}

// utcStamp formats t in UTC with layout.
func utcStamp(t time.Time, layout string) string {
	return t.UTC().Format(layout)
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
