// Package dbx provides the request-scoped database plumbing shared by the
// rest of the app: a minimal interface (DBTX) implemented by *sql.DB,
// *sql.Conn and *sql.Tx, plus helpers that scope a connection, a transaction
// or a savepoint to a function body and guarantee release.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
)

// DBTX is the subset of database/sql used by our queries. *sql.DB, *sql.Conn
// and *sql.Tx all satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithSession borrows one connection from the pool, runs fn with it, and
// returns it on every exit path, panics included. Use it for handlers that
// need a stable connection but no transaction.
func WithSession(ctx context.Context, db *sql.DB, fn func(ctx context.Context, q DBTX) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}

	defer conn.Close()

	return fn(ctx, conn)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown. The
// transaction always resolves fully one way or the other.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

var savepointSeq atomic.Uint64

// WithSavepoint creates a savepoint inside an open transaction, releases it
// when fn succeeds and rolls back to it when fn errors, re-returning the
// original error. The enclosing transaction stays open either way, so sibling
// work done before the savepoint survives an inner failure.
func WithSavepoint(ctx context.Context, tx DBTX, fn func(ctx context.Context, q DBTX) error) error {
	name := fmt.Sprintf("sp_%d", savepointSeq.Add(1))

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint after %w: %v", err, rbErr)
		}

		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return err
	}

	return nil
}
