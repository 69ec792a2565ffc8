package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Transactor runs fn atomically: the transaction commits only when fn
// returns nil, and is rolled back on error or panic.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteTransactor implements Transactor on a *sql.DB.
type SQLiteTransactor struct {
	db *sql.DB
}

func NewSQLiteTransactor(database *sql.DB) *SQLiteTransactor {
	return &SQLiteTransactor{db: database}
}

func (t *SQLiteTransactor) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
