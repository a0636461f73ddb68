package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// querier is satisfied by both *sql.DB and *sql.Tx so each statement is
// written once and reused inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is a write transaction. All mutations that must commit together with
// their audit entry go through a Tx.
type Tx struct {
	tx  *sql.Tx
	loc *time.Location
}

// InTx runs fn inside a single write transaction, bounded by the store's
// operation timeout. The transaction commits only if fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	if err := fn(ctx, &Tx{tx: sqlTx, loc: s.loc}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
