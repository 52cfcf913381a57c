package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jeremyjsx/blogapi/internal/logger"
)

// TxFn runs inside a transaction. Returning an error rolls it back.
type TxFn func(tx *sql.Tx) error

// RunInTx executes fn in a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) RunInTx(ctx context.Context, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("rollback after panic failed", "error", rbErr, "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed", "error", rbErr, "original_error", err)
			return fmt.Errorf("rollback: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
