package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/descbench/internal/platform/logger"
)

// TxFn is the unit of work handed to RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction records a batch of runs atomically: fn's writes are
// committed when it returns nil and discarded otherwise. An error from fn is
// returned unchanged unless the rollback also fails. Begin and commit
// failures wrap ErrTransactionFailed. A panic in fn rolls back and propagates.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.ErrorContext(ctx, "run store transaction not started", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		attrs := []any{slog.Any("panic", p)}
		if rbErr := tx.Rollback(); rbErr != nil {
			attrs = append(attrs, slog.String("rollback_error", rbErr.Error()))
		}
		log.ErrorContext(ctx, "run store transaction aborted by panic", attrs...)
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.ErrorContext(ctx, "run store rollback failed",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: rollback: %v (after: %w)", ErrTransactionFailed, rbErr, err)
		}
		log.DebugContext(ctx, "run store transaction rolled back", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.ErrorContext(ctx, "run store commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	log.DebugContext(ctx, "run store transaction committed")
	return nil
}
